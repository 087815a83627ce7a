package console

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/NeuroCampus/neuro-console/internal/models"
	"github.com/NeuroCampus/neuro-console/internal/rest"
)

type workspaceAPI interface {
	FacultyBootstrap(ctx context.Context, q rest.BootstrapQuery) (*models.FacultyBootstrap, error)
	ListMarks(ctx context.Context, f rest.AssignmentFilter) ([]models.MarkRecord, error)
	ListFees(ctx context.Context, f models.StudentFilter) ([]models.FeeRecord, error)
	Timetable(ctx context.Context, f rest.AssignmentFilter) ([]models.TimetableSlot, error)
}

// FacultyWorkspace is the read-only faculty landing view: profile, teaching
// assignments and timetable come from one bootstrap call; marks and fees
// are fetched on demand per subject or section.
type FacultyWorkspace struct {
	api    workspaceAPI
	logger *zap.Logger

	mu          sync.Mutex
	profile     models.Profile
	scope       rest.BootstrapQuery
	semesters   []models.Semester
	sections    []models.Section
	subjects    []models.Subject
	assignments []models.FacultyAssignment
	timetable   []models.TimetableSlot
}

// NewFacultyWorkspace creates the workspace controller.
func NewFacultyWorkspace(api workspaceAPI, logger *zap.Logger) *FacultyWorkspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyWorkspace{api: api, logger: logger}
}

// Load seeds all slices from one bootstrap payload, atomically.
func (w *FacultyWorkspace) Load(ctx context.Context, q rest.BootstrapQuery) error {
	payload, err := w.api.FacultyBootstrap(ctx, q)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.profile = payload.Profile
	w.scope = q
	w.semesters = payload.Semesters
	w.sections = payload.Sections
	w.subjects = payload.Subjects
	w.assignments = payload.Assignments
	w.timetable = payload.Timetable
	return nil
}

// Marks fetches the internal assessment marks for one subject/section.
func (w *FacultyWorkspace) Marks(ctx context.Context, subjectID, sectionID string) ([]models.MarkRecord, error) {
	scope := w.Scope()
	return w.api.ListMarks(ctx, rest.AssignmentFilter{
		BranchID:   scope.BranchID,
		SemesterID: scope.SemesterID,
		SectionID:  sectionID,
		SubjectID:  subjectID,
	})
}

// Fees fetches fee records for one section.
func (w *FacultyWorkspace) Fees(ctx context.Context, sectionID string) ([]models.FeeRecord, error) {
	scope := w.Scope()
	return w.api.ListFees(ctx, models.StudentFilter{
		BranchID:   scope.BranchID,
		SemesterID: scope.SemesterID,
		SectionID:  sectionID,
	})
}

// RefreshTimetable re-reads the timetable slots for the current scope.
func (w *FacultyWorkspace) RefreshTimetable(ctx context.Context) error {
	scope := w.Scope()
	slots, err := w.api.Timetable(ctx, rest.AssignmentFilter{
		BranchID:   scope.BranchID,
		SemesterID: scope.SemesterID,
	})
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.timetable = slots
	w.mu.Unlock()
	return nil
}

// Profile returns the bootstrap profile.
func (w *FacultyWorkspace) Profile() models.Profile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.profile
}

// Scope returns the bootstrap query currently loaded.
func (w *FacultyWorkspace) Scope() rest.BootstrapQuery {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scope
}

// Assignments returns the teaching assignments.
func (w *FacultyWorkspace) Assignments() []models.FacultyAssignment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.FacultyAssignment(nil), w.assignments...)
}

// Semesters returns the semesters visible in the current scope.
func (w *FacultyWorkspace) Semesters() []models.Semester {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Semester(nil), w.semesters...)
}

// Subjects returns the subjects visible in the current scope.
func (w *FacultyWorkspace) Subjects() []models.Subject {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Subject(nil), w.subjects...)
}

// Sections returns the sections visible in the current scope.
func (w *FacultyWorkspace) Sections() []models.Section {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Section(nil), w.sections...)
}

// Timetable returns the timetable slots.
func (w *FacultyWorkspace) Timetable() []models.TimetableSlot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.TimetableSlot(nil), w.timetable...)
}
