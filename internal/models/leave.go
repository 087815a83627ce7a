package models

import "time"

// LeaveStatus captures workflow states for leave requests.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

// LeaveRequest filed by a faculty member or student, reviewed by HOD/admin.
type LeaveRequest struct {
	ID            string      `json:"id"`
	ApplicantID   string      `json:"applicant_id"`
	ApplicantName string      `json:"applicant_name"`
	Role          string      `json:"role"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	Reason        string      `json:"reason"`
	Status        LeaveStatus `json:"status"`
	SubmittedAt   time.Time   `json:"submitted_at"`
}
