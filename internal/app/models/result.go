package models

import "time"

// Result holds the grade assigned to an enrollment. At most one result
// exists per enrollment; repeated grade assignments overwrite it.
type Result struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	EnrollmentID int64     `json:"enrollmentId" db:"enrollment_id" example:"1"`
	Grade        string    `json:"grade" db:"grade" example:"A"` // Short code, up to 2 characters
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`    // Refreshed on every write

	// Relations (populated when needed)
	Enrollment *Enrollment `json:"enrollment,omitempty"` // Eagerly resolved on reads
}
