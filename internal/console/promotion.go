package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/NeuroCampus/neuro-console/internal/commands"
	"github.com/NeuroCampus/neuro-console/internal/models"
	"github.com/NeuroCampus/neuro-console/internal/omc"
	"github.com/NeuroCampus/neuro-console/internal/rest"
	appErrors "github.com/NeuroCampus/neuro-console/pkg/errors"
	"github.com/NeuroCampus/neuro-console/pkg/metrics"
)

type promotionAPI interface {
	HODBootstrap(ctx context.Context, q rest.BootstrapQuery) (*models.HODBootstrap, error)
	MutateStudents(ctx context.Context, cmd commands.PromotionCommand) error
}

// DemoteRequest is the demotion form; a reason is mandatory.
type DemoteRequest struct {
	StudentID string `validate:"required"`
	Reason    string `validate:"required"`
}

// PromotionScreen manages semester promotion and demotion. Bulk promotion
// empties the visible student list optimistically; the full list reappears
// on failure.
type PromotionScreen struct {
	api       promotionAPI
	validator *validator.Validate
	logger    *zap.Logger

	mu     sync.Mutex
	scope  rest.BootstrapQuery
	status string

	students *omc.Controller[models.Student]
}

// NewPromotionScreen creates the screen controller.
func NewPromotionScreen(api promotionAPI, validate *validator.Validate, logger *zap.Logger, m *metrics.Set) *PromotionScreen {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionScreen{
		api:       api,
		validator: validate,
		logger:    logger,
		students:  omc.NewController[models.Student]("promotion", logger, m),
	}
}

// Load seeds the student collection from one bootstrap payload.
func (s *PromotionScreen) Load(ctx context.Context, q rest.BootstrapQuery) error {
	payload, err := s.api.HODBootstrap(ctx, q)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.scope = q
	s.status = ""
	s.students.Seed(payload.Students)
	s.mu.Unlock()
	return nil
}

// BulkPromote promotes every listed student to the next semester. Returns
// the number of students promoted.
func (s *PromotionScreen) BulkPromote(ctx context.Context) (int, error) {
	current := s.students.Items()
	if len(current) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no students to promote")
	}
	ids := make([]string, 0, len(current))
	for _, st := range current {
		ids = append(ids, st.ID)
	}

	s.mu.Lock()
	scope := s.scope
	s.mu.Unlock()

	err := s.students.Run(ctx, omc.Mutation[models.Student]{
		Key: "bulk_promote",
		Apply: func([]models.Student) []models.Student {
			return nil
		},
		Dispatch: func(ctx context.Context) error {
			return s.api.MutateStudents(ctx, commands.PromotionCommand{
				Action:     commands.ActionBulkPromote,
				StudentIDs: ids,
				SemesterID: scope.SemesterID,
				SectionID:  "",
			})
		},
		// Demotions on individual students may settle while the bulk call
		// is in flight; re-insert only the captured roster.
		Revert: func(items []models.Student) []models.Student {
			return reinsertStudents(items, current)
		},
	})
	if err != nil {
		s.setStatus("")
		return 0, err
	}
	s.setStatus(fmt.Sprintf("%d students promoted successfully", len(ids)))
	return len(ids), nil
}

// Demote moves one student back a semester. The reason is required and the
// student disappears from the list optimistically.
func (s *PromotionScreen) Demote(ctx context.Context, req DemoteRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student and reason are required for demotion")
	}

	var removed *models.Student
	removedIdx := 0
	for i, st := range s.students.Items() {
		if st.ID == req.StudentID {
			cp := st
			removed = &cp
			removedIdx = i
			break
		}
	}

	return s.students.Run(ctx, omc.Mutation[models.Student]{
		Key: req.StudentID,
		Apply: func(items []models.Student) []models.Student {
			kept := items[:0]
			for _, item := range items {
				if item.ID != req.StudentID {
					kept = append(kept, item)
				}
			}
			return kept
		},
		Dispatch: func(ctx context.Context) error {
			return s.api.MutateStudents(ctx, commands.PromotionCommand{
				Action:     commands.ActionDemote,
				StudentIDs: []string{req.StudentID},
				Reason:     req.Reason,
			})
		},
		// Other students' demotions may be in flight; put back only the
		// removed student, at its original position.
		Revert: func(items []models.Student) []models.Student {
			if removed == nil {
				return items
			}
			for _, item := range items {
				if item.ID == removed.ID {
					return items
				}
			}
			idx := removedIdx
			if idx > len(items) {
				idx = len(items)
			}
			items = append(items, models.Student{})
			copy(items[idx+1:], items[idx:])
			items[idx] = *removed
			return items
		},
	})
}

// reinsertStudents appends the given students unless already present.
func reinsertStudents(items, restore []models.Student) []models.Student {
	present := make(map[string]bool, len(items))
	for _, item := range items {
		present[item.ID] = true
	}
	for _, st := range restore {
		if !present[st.ID] {
			items = append(items, st)
		}
	}
	return items
}

// Students returns the current local student collection.
func (s *PromotionScreen) Students() []models.Student {
	return s.students.Items()
}

// Status returns the last bulk-operation status message.
func (s *PromotionScreen) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Promoting reports whether a bulk promotion is in flight.
func (s *PromotionScreen) Promoting() bool {
	return s.students.Pending("bulk_promote")
}

// Demoting reports whether a demotion for the student is in flight.
func (s *PromotionScreen) Demoting(studentID string) bool {
	return s.students.Pending(studentID)
}

// Close detaches the screen.
func (s *PromotionScreen) Close() {
	s.students.Close()
}

func (s *PromotionScreen) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}
