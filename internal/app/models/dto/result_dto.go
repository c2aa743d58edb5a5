package dto

// AssignGradeRequest carries the grade upsert parameters. Accepted from
// query parameters or form fields.
type AssignGradeRequest struct {
	EnrollmentID int64  `form:"enrollmentId" binding:"required,min=1" example:"1"`
	Grade        string `form:"grade" binding:"required,max=2" example:"A"`
}
