package rest

import (
	"context"
	"net/url"
	"strconv"

	"github.com/NeuroCampus/neuro-console/internal/commands"
	"github.com/NeuroCampus/neuro-console/internal/models"
	appErrors "github.com/NeuroCampus/neuro-console/pkg/errors"
)

// BootstrapQuery scopes a bootstrap call.
type BootstrapQuery struct {
	BranchID   string
	SemesterID string
}

func (q BootstrapQuery) values() url.Values {
	v := url.Values{}
	if q.BranchID != "" {
		v.Set("branch_id", q.BranchID)
	}
	if q.SemesterID != "" {
		v.Set("semester_id", q.SemesterID)
	}
	return v
}

// AssignmentFilter scopes assignment listings.
type AssignmentFilter struct {
	BranchID   string
	SemesterID string
	SectionID  string
	SubjectID  string
}

func (f AssignmentFilter) values() url.Values {
	v := url.Values{}
	if f.BranchID != "" {
		v.Set("branch_id", f.BranchID)
	}
	if f.SemesterID != "" {
		v.Set("semester_id", f.SemesterID)
	}
	if f.SectionID != "" {
		v.Set("section_id", f.SectionID)
	}
	if f.SubjectID != "" {
		v.Set("subject_id", f.SubjectID)
	}
	return v
}

// LeaveFilter scopes leave listings.
type LeaveFilter struct {
	BranchID string
	Status   models.LeaveStatus
}

func (f LeaveFilter) values() url.Values {
	v := url.Values{}
	if f.BranchID != "" {
		v.Set("branch_id", f.BranchID)
	}
	if f.Status != "" {
		v.Set("status", string(f.Status))
	}
	return v
}

// AttendanceFilter scopes attendance summaries.
type AttendanceFilter struct {
	BranchID   string
	SemesterID string
	SectionID  string
	SubjectID  string
	BelowOnly  bool
}

func (f AttendanceFilter) values() url.Values {
	v := url.Values{}
	if f.BranchID != "" {
		v.Set("branch_id", f.BranchID)
	}
	if f.SemesterID != "" {
		v.Set("semester_id", f.SemesterID)
	}
	if f.SectionID != "" {
		v.Set("section_id", f.SectionID)
	}
	if f.SubjectID != "" {
		v.Set("subject_id", f.SubjectID)
	}
	if f.BelowOnly {
		v.Set("below_cutoff", "true")
	}
	return v
}

// FacultyBootstrap fetches the aggregate payload for faculty screens.
func (c *Client) FacultyBootstrap(ctx context.Context, q BootstrapQuery) (*models.FacultyBootstrap, error) {
	payload := &models.FacultyBootstrap{}
	if _, err := c.get(ctx, "faculty_bootstrap", "faculty-bootstrap/", q.values(), payload); err != nil {
		return nil, err
	}
	if err := validateProfile(payload.Profile); err != nil {
		return nil, err
	}
	return payload, nil
}

// HODBootstrap fetches the aggregate payload for HOD screens.
func (c *Client) HODBootstrap(ctx context.Context, q BootstrapQuery) (*models.HODBootstrap, error) {
	payload := &models.HODBootstrap{}
	if _, err := c.get(ctx, "hod_bootstrap", "hod-bootstrap/", q.values(), payload); err != nil {
		return nil, err
	}
	if err := validateProfile(payload.Profile); err != nil {
		return nil, err
	}
	return payload, nil
}

// validateProfile fails fast when the bootstrap contract is broken instead
// of letting empty fields leak into the screen slices.
func validateProfile(p models.Profile) error {
	if p.UserID == "" || p.BranchID == "" {
		return appErrors.Clone(appErrors.ErrMalformedResponse, "bootstrap payload missing profile or branch")
	}
	return nil
}

// ListAssignments returns the authoritative assignment list for the scope.
func (c *Client) ListAssignments(ctx context.Context, f AssignmentFilter) ([]models.FacultyAssignment, error) {
	var items []models.FacultyAssignment
	if _, err := c.get(ctx, "assignments", "faculty-assignments/", f.values(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MutateAssignment posts an assignment command.
func (c *Client) MutateAssignment(ctx context.Context, cmd commands.AssignmentCommand) error {
	_, err := c.post(ctx, "assignments", cmd.Endpoint(), cmd, nil)
	return err
}

// ListLeaves returns the leave requests for the scope.
func (c *Client) ListLeaves(ctx context.Context, f LeaveFilter) ([]models.LeaveRequest, error) {
	var items []models.LeaveRequest
	if _, err := c.get(ctx, "leaves", "leaves/", f.values(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DecideLeave posts an approve/reject decision.
func (c *Client) DecideLeave(ctx context.Context, cmd commands.LeaveDecisionCommand) error {
	_, err := c.post(ctx, "leaves", cmd.Endpoint(), cmd, nil)
	return err
}

// ListStudents returns one page of students for the scope.
func (c *Client) ListStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	v := url.Values{}
	if f.BranchID != "" {
		v.Set("branch_id", f.BranchID)
	}
	if f.SemesterID != "" {
		v.Set("semester_id", f.SemesterID)
	}
	if f.SectionID != "" {
		v.Set("section_id", f.SectionID)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(f.PageSize))
	}

	var items []models.Student
	env, err := c.get(ctx, "students", "students/", v, &items)
	if err != nil {
		return nil, nil, err
	}
	page := &models.Pagination{
		Page:       f.Page,
		PageSize:   f.PageSize,
		Count:      env.Count,
		TotalPages: env.TotalPages,
	}
	return items, page, nil
}

// MutateStudents posts a promotion/demotion command.
func (c *Client) MutateStudents(ctx context.Context, cmd commands.PromotionCommand) error {
	_, err := c.post(ctx, "students", cmd.Endpoint(), cmd, nil)
	return err
}

// NotifyStudent posts a notification command.
func (c *Client) NotifyStudent(ctx context.Context, cmd commands.NotifyCommand) error {
	_, err := c.post(ctx, "notifications", cmd.Endpoint(), cmd, nil)
	return err
}

// AttendanceSummary fetches per-student attendance aggregates.
func (c *Client) AttendanceSummary(ctx context.Context, f AttendanceFilter) ([]models.AttendanceSummary, error) {
	var items []models.AttendanceSummary
	if _, err := c.get(ctx, "attendance", "attendance-summary/", f.values(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListMarks fetches internal assessment marks for the scope.
func (c *Client) ListMarks(ctx context.Context, f AssignmentFilter) ([]models.MarkRecord, error) {
	var items []models.MarkRecord
	if _, err := c.get(ctx, "marks", "marks/", f.values(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListFees fetches fee records for the scope.
func (c *Client) ListFees(ctx context.Context, f models.StudentFilter) ([]models.FeeRecord, error) {
	v := url.Values{}
	if f.BranchID != "" {
		v.Set("branch_id", f.BranchID)
	}
	if f.SemesterID != "" {
		v.Set("semester_id", f.SemesterID)
	}
	if f.SectionID != "" {
		v.Set("section_id", f.SectionID)
	}
	var items []models.FeeRecord
	if _, err := c.get(ctx, "fees", "fees/", v, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Timetable fetches the timetable slots for the scope.
func (c *Client) Timetable(ctx context.Context, f AssignmentFilter) ([]models.TimetableSlot, error) {
	var items []models.TimetableSlot
	if _, err := c.get(ctx, "timetable", "timetable/", f.values(), &items); err != nil {
		return nil, err
	}
	return items, nil
}
