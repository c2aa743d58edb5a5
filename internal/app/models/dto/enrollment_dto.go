package dto

// EnrollRequest carries the self-enroll parameters. Accepted from query
// parameters or form fields.
type EnrollRequest struct {
	StudentEmail string `form:"studentEmail" binding:"required,email" example:"alice@example.com"`
	CourseID     int64  `form:"courseId" binding:"required,min=1" example:"1"`
}

// ListEnrollmentsQuery carries the optional enrollment list filters
type ListEnrollmentsQuery struct {
	StudentEmail string `form:"studentEmail" example:"alice@example.com"`
	CourseID     int64  `form:"courseId" example:"1"`
}
