package models

// DefaultCredit is applied when a course is created without a credit value.
const DefaultCredit = 3

// Course represents a course in the catalog
type Course struct {
	ID           int64   `json:"id" db:"id" example:"1"`                        // Unique identifier for the course
	Code         string  `json:"code" db:"code" example:"CS101"`                // Course code, globally unique
	Title        string  `json:"title" db:"title" example:"Intro to Computing"` // Course title
	Credit       int     `json:"credit" db:"credit" example:"3"`                // Credit value, 1-6
	LecturerName *string `json:"lecturerName,omitempty" db:"lecturer_name"`     // Nullable
}
