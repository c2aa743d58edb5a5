package dto

// StudentRequest is the payload for creating or updating a student.
// Updates are full overwrites; omitted fields are wiped to zero values.
type StudentRequest struct {
	Name      string `json:"name" example:"Alice Doe"`
	StudentID string `json:"studentId" example:"20240001"`
	Email     string `json:"email" binding:"required,email" example:"alice@example.com"`
}
