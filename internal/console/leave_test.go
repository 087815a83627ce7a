package console

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeuroCampus/neuro-console/internal/commands"
	"github.com/NeuroCampus/neuro-console/internal/models"
	"github.com/NeuroCampus/neuro-console/internal/rest"
	appErrors "github.com/NeuroCampus/neuro-console/pkg/errors"
)

type leaveAPIStub struct {
	mu sync.Mutex

	bootstrap *models.HODBootstrap
	listResp  []models.LeaveRequest
	decideErr error

	// failFor and blockFor key decisions by leave id.
	failFor  map[string]error
	blockFor map[string]chan struct{}

	decideCalls int
	lastCommand commands.LeaveDecisionCommand
}

func (s *leaveAPIStub) HODBootstrap(ctx context.Context, q rest.BootstrapQuery) (*models.HODBootstrap, error) {
	cp := *s.bootstrap
	return &cp, nil
}

func (s *leaveAPIStub) ListLeaves(ctx context.Context, f rest.LeaveFilter) ([]models.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listResp, nil
}

func (s *leaveAPIStub) DecideLeave(ctx context.Context, cmd commands.LeaveDecisionCommand) error {
	s.mu.Lock()
	s.decideCalls++
	s.lastCommand = cmd
	err := s.decideErr
	if e, ok := s.failFor[cmd.LeaveID]; ok {
		err = e
	}
	block := s.blockFor[cmd.LeaveID]
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func leaveFixture() []models.LeaveRequest {
	return []models.LeaveRequest{
		{ID: "42", ApplicantName: "Meera Nair", Status: models.LeaveStatusPending},
		{ID: "43", ApplicantName: "Rahul Shetty", Status: models.LeaveStatusPending},
	}
}

func newLeaveScreen(t *testing.T, api *leaveAPIStub) *LeaveScreen {
	t.Helper()
	screen := NewLeaveScreen(api, nil, nil)
	require.NoError(t, screen.Load(context.Background(), rest.BootstrapQuery{BranchID: "cse"}))
	return screen
}

func TestLeaveApproveReconcilesFromRefetch(t *testing.T) {
	api := &leaveAPIStub{
		bootstrap: &models.HODBootstrap{
			Profile: models.Profile{UserID: "u1", BranchID: "cse"},
			Leaves:  leaveFixture(),
		},
	}
	api.listResp = []models.LeaveRequest{
		{ID: "42", ApplicantName: "Meera Nair", Status: models.LeaveStatusApproved},
		{ID: "43", ApplicantName: "Rahul Shetty", Status: models.LeaveStatusPending},
	}
	screen := newLeaveScreen(t, api)

	require.NoError(t, screen.Approve(context.Background(), "42"))

	leaves := screen.Leaves()
	assert.Equal(t, models.LeaveStatusApproved, leaves[0].Status)
	assert.Equal(t, models.LeaveStatusPending, leaves[1].Status)
	assert.Equal(t, "42", api.lastCommand.LeaveID)
	assert.Equal(t, models.LeaveStatusApproved, api.lastCommand.Status)
}

func TestLeaveApproveFailureRevertsToPending(t *testing.T) {
	api := &leaveAPIStub{
		bootstrap: &models.HODBootstrap{
			Profile: models.Profile{UserID: "u1", BranchID: "cse"},
			Leaves:  leaveFixture(),
		},
		decideErr: appErrors.Clone(appErrors.ErrServerRejected, "Leave already processed"),
	}
	screen := newLeaveScreen(t, api)

	err := screen.Approve(context.Background(), "42")
	require.Error(t, err)
	assert.Equal(t, "Leave already processed", appErrors.FromError(err).Message)
	assert.Equal(t, models.LeaveStatusPending, screen.Leaves()[0].Status)
	assert.False(t, screen.Deciding("42"))
}

func TestLeaveRejectCarriesNote(t *testing.T) {
	api := &leaveAPIStub{
		bootstrap: &models.HODBootstrap{
			Profile: models.Profile{UserID: "u1", BranchID: "cse"},
			Leaves:  leaveFixture(),
		},
	}
	screen := newLeaveScreen(t, api)

	require.NoError(t, screen.Reject(context.Background(), "43", "overlaps exam duty"))
	assert.Equal(t, models.LeaveStatusRejected, api.lastCommand.Status)
	assert.Equal(t, "overlaps exam duty", api.lastCommand.Note)
}

func TestLeaveFailedDecisionsRevertOwnRowsOnly(t *testing.T) {
	release42 := make(chan struct{})
	release43 := make(chan struct{})
	api := &leaveAPIStub{
		bootstrap: &models.HODBootstrap{
			Profile: models.Profile{UserID: "u1", BranchID: "cse"},
			Leaves:  leaveFixture(),
		},
		failFor: map[string]error{
			"42": appErrors.Clone(appErrors.ErrServerRejected, "Leave already processed"),
			"43": appErrors.Clone(appErrors.ErrNetwork, "request failed"),
		},
		blockFor: map[string]chan struct{}{
			"42": release42,
			"43": release43,
		},
	}
	screen := newLeaveScreen(t, api)

	done42 := make(chan error, 1)
	go func() { done42 <- screen.Approve(context.Background(), "42") }()
	require.Eventually(t, func() bool { return screen.Deciding("42") }, time.Second, time.Millisecond)

	done43 := make(chan error, 1)
	go func() { done43 <- screen.Reject(context.Background(), "43", "overlaps exam duty") }()
	require.Eventually(t, func() bool { return screen.Deciding("43") }, time.Second, time.Millisecond)

	// 42 fails while 43 is still pending; its rollback must not touch 43's
	// optimistic status, and 43's later rollback must not resurrect 42's.
	close(release42)
	require.Error(t, <-done42)
	close(release43)
	require.Error(t, <-done43)

	for _, leave := range screen.Leaves() {
		assert.Equal(t, models.LeaveStatusPending, leave.Status, "leave %s", leave.ID)
	}
}

func TestLeaveDecideUnknownID(t *testing.T) {
	api := &leaveAPIStub{
		bootstrap: &models.HODBootstrap{
			Profile: models.Profile{UserID: "u1", BranchID: "cse"},
			Leaves:  leaveFixture(),
		},
	}
	screen := newLeaveScreen(t, api)

	err := screen.Approve(context.Background(), "99")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Zero(t, api.decideCalls)
}
