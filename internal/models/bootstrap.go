package models

// Profile is the authenticated user's identity as reported by bootstrap.
type Profile struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	BranchID string `json:"branch_id"`
}

// FacultyBootstrap is the aggregate payload seeding the faculty-facing
// screens in one round trip. All sub-resources come from a single server
// read and must be consumed together.
type FacultyBootstrap struct {
	Profile     Profile             `json:"profile"`
	Semesters   []Semester          `json:"semesters"`
	Sections    []Section           `json:"sections"`
	Subjects    []Subject           `json:"subjects"`
	Assignments []FacultyAssignment `json:"assignments"`
	Timetable   []TimetableSlot     `json:"timetable"`
}

// HODBootstrap seeds the HOD management screens: everything the faculty
// variant carries plus the faculty roster, pending leaves and the student
// body for the selected scope.
type HODBootstrap struct {
	Profile     Profile             `json:"profile"`
	Semesters   []Semester          `json:"semesters"`
	Sections    []Section           `json:"sections"`
	Subjects    []Subject           `json:"subjects"`
	Faculty     []Faculty           `json:"faculty"`
	Assignments []FacultyAssignment `json:"assignments"`
	Leaves      []LeaveRequest      `json:"leaves"`
	Students    []Student           `json:"students"`
}
