package models

// Branch is an academic department that scopes most queries.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Semester within a branch programme.
type Semester struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// Section groups students inside a semester.
type Section struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subject taught in a given semester.
type Subject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	SemesterID string `json:"semester_id"`
}
