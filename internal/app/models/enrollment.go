package models

import "time"

// Enrollment links a student (by email) to a course.
// The (studentEmail, courseId) pair is unique: a student cannot enroll
// twice in the same course. The student side is a denormalized email
// string, not a foreign key to the students table.
type Enrollment struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	StudentEmail string    `json:"studentEmail" db:"student_email" example:"alice@example.com"`
	CourseID     int64     `json:"courseId" db:"course_id" example:"1"`
	EnrolledAt   time.Time `json:"enrolledAt" db:"enrolled_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"` // Eagerly resolved on reads
}
