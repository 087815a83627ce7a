package models

// Faculty represents a teaching staff member within a branch.
type Faculty struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	BranchID  string `json:"branch_id"`
	IsProctor bool   `json:"is_proctor"`
	Active    bool   `json:"active"`
}

// Student enrolled in a branch/semester/section.
type Student struct {
	ID         string  `json:"id"`
	USN        string  `json:"usn"`
	FullName   string  `json:"full_name"`
	BranchID   string  `json:"branch_id"`
	SemesterID string  `json:"semester_id"`
	SectionID  string  `json:"section_id"`
	ProctorID  string  `json:"proctor_id"`
	Attendance float64 `json:"attendance_pct"`
	Active     bool    `json:"active"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	BranchID   string
	SemesterID string
	SectionID  string
	Search     string
	Page       int
	PageSize   int
}
