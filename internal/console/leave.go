package console

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/NeuroCampus/neuro-console/internal/commands"
	"github.com/NeuroCampus/neuro-console/internal/models"
	"github.com/NeuroCampus/neuro-console/internal/omc"
	"github.com/NeuroCampus/neuro-console/internal/rest"
	appErrors "github.com/NeuroCampus/neuro-console/pkg/errors"
	"github.com/NeuroCampus/neuro-console/pkg/metrics"
)

type leaveAPI interface {
	HODBootstrap(ctx context.Context, q rest.BootstrapQuery) (*models.HODBootstrap, error)
	ListLeaves(ctx context.Context, f rest.LeaveFilter) ([]models.LeaveRequest, error)
	DecideLeave(ctx context.Context, cmd commands.LeaveDecisionCommand) error
}

// LeaveScreen manages the leave-approval view state. Decisions patch the
// row status optimistically and reconcile from the authoritative list.
type LeaveScreen struct {
	api    leaveAPI
	logger *zap.Logger

	mu    sync.Mutex
	scope rest.BootstrapQuery

	leaves *omc.Controller[models.LeaveRequest]
}

// NewLeaveScreen creates the screen controller.
func NewLeaveScreen(api leaveAPI, logger *zap.Logger, m *metrics.Set) *LeaveScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveScreen{
		api:    api,
		logger: logger,
		leaves: omc.NewController[models.LeaveRequest]("leave_approval", logger, m),
	}
}

// Load seeds the leave collection from one bootstrap payload.
func (s *LeaveScreen) Load(ctx context.Context, q rest.BootstrapQuery) error {
	payload, err := s.api.HODBootstrap(ctx, q)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.scope = q
	s.leaves.Seed(payload.Leaves)
	s.mu.Unlock()
	return nil
}

// Approve marks the leave approved optimistically and dispatches the
// decision.
func (s *LeaveScreen) Approve(ctx context.Context, leaveID string) error {
	return s.decide(ctx, leaveID, models.LeaveStatusApproved, "")
}

// Reject marks the leave rejected optimistically. A note is optional.
func (s *LeaveScreen) Reject(ctx context.Context, leaveID, note string) error {
	return s.decide(ctx, leaveID, models.LeaveStatusRejected, note)
}

func (s *LeaveScreen) decide(ctx context.Context, leaveID string, status models.LeaveStatus, note string) error {
	if leaveID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "leave id required")
	}
	prior, ok := s.leaveStatus(leaveID)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
	}

	s.mu.Lock()
	scope := s.scope
	s.mu.Unlock()
	return s.leaves.Run(ctx, omc.Mutation[models.LeaveRequest]{
		Key: leaveID,
		Apply: func(items []models.LeaveRequest) []models.LeaveRequest {
			for i := range items {
				if items[i].ID == leaveID {
					items[i].Status = status
				}
			}
			return items
		},
		Dispatch: func(ctx context.Context) error {
			return s.api.DecideLeave(ctx, commands.LeaveDecisionCommand{
				LeaveID: leaveID,
				Status:  status,
				Note:    note,
			})
		},
		Refetch: func(ctx context.Context) ([]models.LeaveRequest, error) {
			return s.api.ListLeaves(ctx, rest.LeaveFilter{BranchID: scope.BranchID})
		},
		// Decisions on other leaves may be in flight; restore only this
		// row's status.
		Revert: func(items []models.LeaveRequest) []models.LeaveRequest {
			for i := range items {
				if items[i].ID == leaveID {
					items[i].Status = prior
				}
			}
			return items
		},
	})
}

func (s *LeaveScreen) leaveStatus(leaveID string) (models.LeaveStatus, bool) {
	for _, leave := range s.leaves.Items() {
		if leave.ID == leaveID {
			return leave.Status, true
		}
	}
	return "", false
}

// Leaves returns the current local leave collection.
func (s *LeaveScreen) Leaves() []models.LeaveRequest {
	return s.leaves.Items()
}

// Deciding reports whether a decision for the given leave is in flight.
func (s *LeaveScreen) Deciding(leaveID string) bool {
	return s.leaves.Pending(leaveID)
}

// Close detaches the screen.
func (s *LeaveScreen) Close() {
	s.leaves.Close()
}
