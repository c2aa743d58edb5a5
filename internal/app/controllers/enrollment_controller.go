package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/coursehub/internal/app/models/dto"
	"github.com/emre/coursehub/internal/app/services"
	"github.com/emre/coursehub/internal/middleware"
)

// EnrollmentController handles enrollment operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// Enroll handles self-service enrollment
// @Summary Enroll in a course
// @Description Enrolls the given student email in a course. A second enrollment for the same pair is rejected with a conflict.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param studentEmail query string true "Student email"
// @Param courseId query int true "Course ID"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Enrollment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx, req.StudentEmail, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      enrollment,
		Timestamp: time.Now(),
	})
}

// ListEnrollments lists enrollments with optional filters
// @Summary List enrollments
// @Description Lists all enrollments, or one student's enrollments (most recent first) when studentEmail is given, or one course's when courseId is given
// @Tags enrollments
// @Accept json
// @Produce json
// @Param studentEmail query string false "Filter by student email"
// @Param courseId query int false "Filter by course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	var query dto.ListEnrollmentsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	enrollments, err := c.enrollmentService.ListEnrollments(ctx, query.StudentEmail, query.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollments,
		Timestamp: time.Now(),
	})
}

// ListMyEnrollments lists one student's enrollments
// @Summary List my enrollments
// @Description Same view as the filtered enrollment list, but the studentEmail parameter is mandatory
// @Tags enrollments
// @Accept json
// @Produce json
// @Param studentEmail query string true "Student email"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing student email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/enrollments [get]
func (c *EnrollmentController) ListMyEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.ListMyEnrollments(ctx, ctx.Query("studentEmail"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      enrollments,
		Timestamp: time.Now(),
	})
}

// DeleteEnrollment unenrolls a student
// @Summary Delete an enrollment
// @Description Deletes an enrollment by id after an existence check
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID" Format(int64) minimum(1)
// @Success 204 "Enrollment deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) DeleteEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "enrollment")
	if !ok {
		return
	}

	if err := c.enrollmentService.DeleteEnrollment(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
