package models

import "time"

// NotificationRecord tracks a low-attendance (or other) notice sent to a
// student, surfaced on the notification screen.
type NotificationRecord struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	NotifiedAt time.Time `json:"notified_at"`
}
