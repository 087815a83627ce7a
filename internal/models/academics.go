package models

// AttendanceSummary aggregates a student's attendance for one subject.
type AttendanceSummary struct {
	StudentID     string  `json:"student_id"`
	SubjectID     string  `json:"subject_id"`
	ClassesHeld   int     `json:"classes_held"`
	ClassesTaken  int     `json:"classes_taken"`
	Percentage    float64 `json:"percentage"`
	BelowCutoff   bool    `json:"below_cutoff"`
	CutoffPercent float64 `json:"cutoff_percent"`
}

// MarkRecord holds internal assessment marks for one student/subject.
type MarkRecord struct {
	StudentID  string  `json:"student_id"`
	SubjectID  string  `json:"subject_id"`
	Assessment string  `json:"assessment"`
	Obtained   float64 `json:"obtained"`
	Maximum    float64 `json:"maximum"`
}

// FeeRecord tracks a fee demand raised against a student.
type FeeRecord struct {
	ID        string  `json:"id"`
	StudentID string  `json:"student_id"`
	Head      string  `json:"head"`
	Amount    float64 `json:"amount"`
	Paid      float64 `json:"paid"`
	DueDate   string  `json:"due_date"`
	Status    string  `json:"status"`
}

// TimetableSlot is one scheduled period for a section.
type TimetableSlot struct {
	ID        string `json:"id"`
	SectionID string `json:"section_id"`
	SubjectID string `json:"subject_id"`
	FacultyID string `json:"faculty_id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room"`
}

// Pagination mirrors the backend list metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Count      int `json:"count"`
	TotalPages int `json:"total_pages"`
}
