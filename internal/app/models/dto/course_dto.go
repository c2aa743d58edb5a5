package dto

// CourseRequest is the payload for creating or updating a course.
// Updates are full overwrites; omitted fields are wiped to zero values.
type CourseRequest struct {
	Code         string  `json:"code" binding:"required" example:"CS101"`
	Title        string  `json:"title" binding:"required" example:"Intro to Computing"`
	Credit       int     `json:"credit" binding:"omitempty,min=1,max=6" example:"3"`
	LecturerName *string `json:"lecturerName,omitempty" example:"Dr. Kaya"`
}
