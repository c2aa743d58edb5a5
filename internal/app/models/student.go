package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID        int64  `json:"id" db:"id" example:"1"`                       // Unique identifier for the student record
	Name      string `json:"name" db:"name" example:"Alice Doe"`           // Display name
	StudentID string `json:"studentId" db:"student_id" example:"20240001"` // Registrar-issued student number, free text
	Email     string `json:"email" db:"email" example:"alice@example.com"` // Contact email, must be syntactically valid
}
