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
	"github.com/NeuroCampus/neuro-console/pkg/jobs"
)

type notificationAPIStub struct {
	mu sync.Mutex

	summaries []models.AttendanceSummary

	// failFor makes notifies for the given student ids fail.
	failFor map[string]error
	// block, when set, delays every notify until it is closed.
	block chan struct{}

	notifyCalls []string
}

func (s *notificationAPIStub) AttendanceSummary(ctx context.Context, f rest.AttendanceFilter) ([]models.AttendanceSummary, error) {
	return s.summaries, nil
}

func (s *notificationAPIStub) NotifyStudent(ctx context.Context, cmd commands.NotifyCommand) error {
	s.mu.Lock()
	block := s.block
	s.notifyCalls = append(s.notifyCalls, cmd.StudentID)
	err := s.failFor[cmd.StudentID]
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (s *notificationAPIStub) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notifyCalls...)
}

func summaryFixture() []models.AttendanceSummary {
	return []models.AttendanceSummary{
		{StudentID: "st1", SubjectID: "s1", Percentage: 61.5, BelowCutoff: true, CutoffPercent: 75},
		{StudentID: "st2", SubjectID: "s1", Percentage: 70.0, BelowCutoff: true, CutoffPercent: 75},
	}
}

func newNotificationScreen(t *testing.T, api *notificationAPIStub) *NotificationScreen {
	t.Helper()
	screen := NewNotificationScreen(api, nil, nil, jobs.QueueConfig{Workers: 2})
	t.Cleanup(screen.Close)
	require.NoError(t, screen.Load(context.Background(), rest.AttendanceFilter{BranchID: "cse"}))
	return screen
}

func TestNotifyAppendsRecordOptimistically(t *testing.T) {
	api := &notificationAPIStub{summaries: summaryFixture()}
	screen := newNotificationScreen(t, api)

	require.NoError(t, screen.Notify(context.Background(), "st1"))

	records := screen.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "st1", records[0].StudentID)
	assert.Equal(t, "LOW_ATTENDANCE", records[0].Kind)
	assert.False(t, screen.Notifying("st1"))
}

func TestNotifyFailureRollsBackOwnRecordOnly(t *testing.T) {
	api := &notificationAPIStub{
		summaries: summaryFixture(),
		failFor:   map[string]error{"st2": appErrors.Clone(appErrors.ErrNetwork, "request failed")},
	}
	screen := newNotificationScreen(t, api)

	require.NoError(t, screen.Notify(context.Background(), "st1"))
	require.Error(t, screen.Notify(context.Background(), "st2"))

	records := screen.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "st1", records[0].StudentID)
}

func TestNotifyDuplicateWhilePendingIsRefused(t *testing.T) {
	api := &notificationAPIStub{summaries: summaryFixture()}
	api.block = make(chan struct{})
	screen := newNotificationScreen(t, api)

	done := make(chan error, 1)
	go func() { done <- screen.Notify(context.Background(), "st1") }()
	require.Eventually(t, func() bool { return screen.Notifying("st1") }, time.Second, time.Millisecond)

	err := screen.Notify(context.Background(), "st1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrMutationInFlight)

	close(api.block)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"st1"}, api.calls())
}

func TestNotifyIndependentStudentsSettleIndependently(t *testing.T) {
	api := &notificationAPIStub{
		summaries: summaryFixture(),
		failFor:   map[string]error{"st1": appErrors.Clone(appErrors.ErrServerRejected, "student opted out")},
	}
	screen := newNotificationScreen(t, api)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"st1", "st2"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = screen.Notify(context.Background(), id)
		}(i, id)
	}
	wg.Wait()

	require.Error(t, errs[0])
	require.NoError(t, errs[1])
	records := screen.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "st2", records[0].StudentID)
}

func TestNotifyAllFansOutThroughQueue(t *testing.T) {
	api := &notificationAPIStub{summaries: summaryFixture()}
	screen := newNotificationScreen(t, api)

	enqueued, err := screen.NotifyAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, enqueued)

	require.Eventually(t, func() bool {
		return len(screen.Records()) == 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"st1", "st2"}, api.calls())
}
