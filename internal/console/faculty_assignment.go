// Package console holds the per-screen controllers. Each screen owns its
// collection slices, seeds them atomically from one bootstrap call, and
// funnels every user-triggered change through the optimistic mutation
// controller.
package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NeuroCampus/neuro-console/internal/commands"
	"github.com/NeuroCampus/neuro-console/internal/models"
	"github.com/NeuroCampus/neuro-console/internal/omc"
	"github.com/NeuroCampus/neuro-console/internal/rest"
	"github.com/NeuroCampus/neuro-console/pkg/cache"
	appErrors "github.com/NeuroCampus/neuro-console/pkg/errors"
	"github.com/NeuroCampus/neuro-console/pkg/metrics"
)

type assignmentAPI interface {
	HODBootstrap(ctx context.Context, q rest.BootstrapQuery) (*models.HODBootstrap, error)
	ListAssignments(ctx context.Context, f rest.AssignmentFilter) ([]models.FacultyAssignment, error)
	MutateAssignment(ctx context.Context, cmd commands.AssignmentCommand) error
}

// AssignRequest is the faculty assignment form.
type AssignRequest struct {
	FacultyID  string `validate:"required"`
	SubjectID  string `validate:"required"`
	SectionID  string `validate:"required"`
	SemesterID string `validate:"required"`
}

// FacultyAssignmentScreen manages the HOD faculty-assignment view state.
type FacultyAssignmentScreen struct {
	api       assignmentAPI
	cache     cache.Store
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger

	mu        sync.Mutex
	loaded    bool
	profile   models.Profile
	scope     rest.BootstrapQuery
	semesters []models.Semester
	sections  []models.Section
	subjects  []models.Subject
	faculty   []models.Faculty

	assignments *omc.Controller[models.FacultyAssignment]
}

// FacultyAssignmentScreenOptions groups constructor dependencies.
type FacultyAssignmentScreenOptions struct {
	API      assignmentAPI
	Cache    cache.Store
	CacheTTL time.Duration
	Validate *validator.Validate
	Logger   *zap.Logger
	Metrics  *metrics.Set
}

// NewFacultyAssignmentScreen creates the screen controller.
func NewFacultyAssignmentScreen(opts FacultyAssignmentScreenOptions) *FacultyAssignmentScreen {
	if opts.Validate == nil {
		opts.Validate = validator.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &FacultyAssignmentScreen{
		api:         opts.API,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		validator:   opts.Validate,
		logger:      opts.Logger,
		assignments: omc.NewController[models.FacultyAssignment]("faculty_assignment", opts.Logger, opts.Metrics),
	}
}

// Load seeds every slice from one bootstrap payload. All slices are
// replaced together; a failed fetch leaves the previous state untouched.
func (s *FacultyAssignmentScreen) Load(ctx context.Context, q rest.BootstrapQuery) error {
	payload, err := s.fetchBootstrap(ctx, q)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.loaded = true
	s.profile = payload.Profile
	s.scope = q
	s.semesters = payload.Semesters
	s.sections = payload.Sections
	s.subjects = payload.Subjects
	s.faculty = payload.Faculty
	s.assignments.Seed(payload.Assignments)
	s.mu.Unlock()
	return nil
}

func (s *FacultyAssignmentScreen) fetchBootstrap(ctx context.Context, q rest.BootstrapQuery) (*models.HODBootstrap, error) {
	key := cache.BootstrapKey("hod", q.BranchID, q.SemesterID)
	if s.cache != nil {
		cached := &models.HODBootstrap{}
		if err := s.cache.Get(ctx, key, cached); err == nil {
			return cached, nil
		}
	}

	payload, err := s.api.HODBootstrap(ctx, q)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
			s.logger.Warn("bootstrap cache write failed", zap.Error(err))
		}
	}
	return payload, nil
}

// Assign validates the form, rejects local conflicts, then runs the
// optimistic create. Conflict checks run against the live local collection
// and never reach the network.
func (s *FacultyAssignmentScreen) Assign(ctx context.Context, req AssignRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "faculty, subject, section and semester are required")
	}

	candidate := models.FacultyAssignment{
		SubjectID:  req.SubjectID,
		SectionID:  req.SectionID,
		SemesterID: req.SemesterID,
	}
	for _, existing := range s.assignments.Items() {
		if !existing.SameTuple(candidate) {
			continue
		}
		if existing.FacultyID == req.FacultyID {
			return appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("%s is already assigned to %s (%s)", existing.FacultyName, existing.SubjectName, existing.SectionName))
		}
		return appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("Duplicate Faculty Assignment: %s (%s) is already held by %s", existing.SubjectName, existing.SectionName, existing.FacultyName))
	}

	placeholder := models.FacultyAssignment{
		ID:          "tmp-" + uuid.NewString(),
		FacultyID:   req.FacultyID,
		FacultyName: s.facultyName(req.FacultyID),
		SubjectID:   req.SubjectID,
		SubjectName: s.subjectName(req.SubjectID),
		SectionID:   req.SectionID,
		SectionName: s.sectionName(req.SectionID),
		SemesterID:  req.SemesterID,
		CreatedAt:   time.Now().UTC(),
	}

	scope := s.currentScope()
	return s.assignments.Run(ctx, omc.Mutation[models.FacultyAssignment]{
		Key: "assign",
		Apply: func(items []models.FacultyAssignment) []models.FacultyAssignment {
			return append(items, placeholder)
		},
		Dispatch: func(ctx context.Context) error {
			return s.api.MutateAssignment(ctx, commands.AssignmentCommand{
				Action:     commands.ActionCreate,
				FacultyID:  req.FacultyID,
				SubjectID:  req.SubjectID,
				SectionID:  req.SectionID,
				SemesterID: req.SemesterID,
			})
		},
		Refetch: func(ctx context.Context) ([]models.FacultyAssignment, error) {
			return s.api.ListAssignments(ctx, rest.AssignmentFilter{
				BranchID:   scope.BranchID,
				SemesterID: scope.SemesterID,
			})
		},
	})
}

// Unassign removes an assignment optimistically.
func (s *FacultyAssignmentScreen) Unassign(ctx context.Context, assignmentID string) error {
	if assignmentID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "assignment id required")
	}

	scope := s.currentScope()
	return s.assignments.Run(ctx, omc.Mutation[models.FacultyAssignment]{
		Key: assignmentID,
		Apply: func(items []models.FacultyAssignment) []models.FacultyAssignment {
			kept := items[:0]
			for _, item := range items {
				if item.ID != assignmentID {
					kept = append(kept, item)
				}
			}
			return kept
		},
		Dispatch: func(ctx context.Context) error {
			return s.api.MutateAssignment(ctx, commands.AssignmentCommand{
				Action:       commands.ActionDelete,
				AssignmentID: assignmentID,
			})
		},
		Refetch: func(ctx context.Context) ([]models.FacultyAssignment, error) {
			return s.api.ListAssignments(ctx, rest.AssignmentFilter{
				BranchID:   scope.BranchID,
				SemesterID: scope.SemesterID,
			})
		},
	})
}

// Assignments returns the current local assignment collection.
func (s *FacultyAssignmentScreen) Assignments() []models.FacultyAssignment {
	return s.assignments.Items()
}

// Assigning reports whether an assignment create is in flight.
func (s *FacultyAssignmentScreen) Assigning() bool {
	return s.assignments.Pending("assign")
}

// Loaded reports whether a bootstrap payload has been applied.
func (s *FacultyAssignmentScreen) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Profile returns the bootstrap profile.
func (s *FacultyAssignmentScreen) Profile() models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Semesters returns the bootstrap semester slice.
func (s *FacultyAssignmentScreen) Semesters() []models.Semester {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Semester(nil), s.semesters...)
}

// Faculty returns the bootstrap faculty roster.
func (s *FacultyAssignmentScreen) Faculty() []models.Faculty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Faculty(nil), s.faculty...)
}

// Close detaches the screen; late completions are ignored.
func (s *FacultyAssignmentScreen) Close() {
	s.assignments.Close()
}

func (s *FacultyAssignmentScreen) currentScope() rest.BootstrapQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

func (s *FacultyAssignmentScreen) facultyName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.faculty {
		if f.ID == id {
			return f.FullName
		}
	}
	return ""
}

func (s *FacultyAssignmentScreen) subjectName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subjects {
		if sub.ID == id {
			return sub.Name
		}
	}
	return ""
}

func (s *FacultyAssignmentScreen) sectionName(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sec := range s.sections {
		if sec.ID == id {
			return sec.Name
		}
	}
	return ""
}
