// Package commands wraps the backend's multiplexed mutation contract. The
// legacy wire shape discriminates on a raw "action" string; internally the
// console dispatches on a closed set of typed commands and only the
// MarshalJSON implementations know the legacy field names.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/NeuroCampus/neuro-console/internal/models"
)

// Action enumerates the legacy wire discriminator values.
type Action string

const (
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionBulkCreate  Action = "bulk_create"
	ActionPromote     Action = "promote"
	ActionDemote      Action = "demote"
	ActionBulkPromote Action = "bulk_promote"
	ActionNotify      Action = "notify"
)

// Command is one backend mutation expressed as a typed value.
type Command interface {
	json.Marshaler
	// Endpoint names the resource path the command is posted to.
	Endpoint() string
}

// AssignmentCommand creates, updates or deletes a faculty assignment.
type AssignmentCommand struct {
	Action       Action
	AssignmentID string
	FacultyID    string
	SubjectID    string
	SectionID    string
	SemesterID   string
}

func (c AssignmentCommand) Endpoint() string { return "faculty-assignments/" }

func (c AssignmentCommand) MarshalJSON() ([]byte, error) {
	switch c.Action {
	case ActionCreate, ActionUpdate, ActionDelete:
	default:
		return nil, fmt.Errorf("assignment command: unsupported action %q", c.Action)
	}
	return json.Marshal(struct {
		Action       Action `json:"action"`
		AssignmentID string `json:"assignment_id,omitempty"`
		FacultyID    string `json:"faculty_id,omitempty"`
		SubjectID    string `json:"subject_id,omitempty"`
		SectionID    string `json:"section_id,omitempty"`
		SemesterID   string `json:"semester_id,omitempty"`
	}{c.Action, c.AssignmentID, c.FacultyID, c.SubjectID, c.SectionID, c.SemesterID})
}

// LeaveDecisionCommand approves or rejects one leave request.
type LeaveDecisionCommand struct {
	LeaveID string
	Status  models.LeaveStatus
	Note    string
}

func (c LeaveDecisionCommand) Endpoint() string { return "leaves/" }

func (c LeaveDecisionCommand) MarshalJSON() ([]byte, error) {
	if c.Status != models.LeaveStatusApproved && c.Status != models.LeaveStatusRejected {
		return nil, fmt.Errorf("leave decision: unsupported status %q", c.Status)
	}
	return json.Marshal(struct {
		Action  Action             `json:"action"`
		LeaveID string             `json:"leave_id"`
		Status  models.LeaveStatus `json:"status"`
		Note    string             `json:"note,omitempty"`
	}{ActionUpdate, c.LeaveID, c.Status, c.Note})
}

// PromotionCommand promotes or demotes students. BulkPromote targets every
// student in the given semester/section scope; Demote targets one student
// and requires a reason.
type PromotionCommand struct {
	Action     Action
	StudentIDs []string
	SemesterID string
	SectionID  string
	Reason     string
}

func (c PromotionCommand) Endpoint() string { return "student-promotions/" }

func (c PromotionCommand) MarshalJSON() ([]byte, error) {
	switch c.Action {
	case ActionPromote, ActionDemote, ActionBulkPromote:
	default:
		return nil, fmt.Errorf("promotion command: unsupported action %q", c.Action)
	}
	return json.Marshal(struct {
		Action     Action   `json:"action"`
		StudentIDs []string `json:"student_ids,omitempty"`
		SemesterID string   `json:"semester_id,omitempty"`
		SectionID  string   `json:"section_id,omitempty"`
		Reason     string   `json:"reason,omitempty"`
	}{c.Action, c.StudentIDs, c.SemesterID, c.SectionID, c.Reason})
}

// NotifyCommand sends a low-attendance (or custom) notice to one student.
type NotifyCommand struct {
	StudentID string
	Kind      string
	Message   string
}

func (c NotifyCommand) Endpoint() string { return "notifications/" }

func (c NotifyCommand) MarshalJSON() ([]byte, error) {
	if c.StudentID == "" {
		return nil, fmt.Errorf("notify command: student id required")
	}
	return json.Marshal(struct {
		Action    Action `json:"action"`
		StudentID string `json:"student_id"`
		Kind      string `json:"kind,omitempty"`
		Message   string `json:"message,omitempty"`
	}{ActionNotify, c.StudentID, c.Kind, c.Message})
}
