package models

import "time"

// FacultyAssignment links a faculty member to a subject/section/semester
// tuple. At most one faculty may hold a given tuple.
type FacultyAssignment struct {
	ID          string    `json:"id"`
	FacultyID   string    `json:"faculty_id"`
	FacultyName string    `json:"faculty_name"`
	SubjectID   string    `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	SectionID   string    `json:"section_id"`
	SectionName string    `json:"section_name"`
	SemesterID  string    `json:"semester_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SameTuple reports whether two assignments target the same
// subject/section/semester slot.
func (a FacultyAssignment) SameTuple(b FacultyAssignment) bool {
	return a.SubjectID == b.SubjectID && a.SectionID == b.SectionID && a.SemesterID == b.SemesterID
}
