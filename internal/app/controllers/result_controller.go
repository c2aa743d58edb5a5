package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/coursehub/internal/app/models/dto"
	"github.com/emre/coursehub/internal/app/services"
	"github.com/emre/coursehub/internal/middleware"
)

// ResultController handles grade operations
type ResultController struct {
	resultService services.ResultService
}

// NewResultController creates a new ResultController
func NewResultController(resultService services.ResultService) *ResultController {
	return &ResultController{
		resultService: resultService,
	}
}

// AssignGrade upserts the grade for an enrollment
// @Summary Assign a grade
// @Description Creates the result for an enrollment on first assignment, overwrites it on subsequent ones. Exactly one result survives per enrollment.
// @Tags results
// @Accept json
// @Produce json
// @Param enrollmentId query int true "Enrollment ID"
// @Param grade query string true "Grade code, up to 2 characters"
// @Success 200 {object} dto.APIResponse{data=models.Result} "Existing result overwritten"
// @Success 201 {object} dto.APIResponse{data=models.Result} "Result created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results [post]
func (c *ResultController) AssignGrade(ctx *gin.Context) {
	var req dto.AssignGradeRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, created, err := c.resultService.AssignGrade(ctx, req.EnrollmentID, req.Grade)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	ctx.JSON(status, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// ListResults lists all results
// @Summary List results
// @Tags results
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Result} "Results retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results [get]
func (c *ResultController) ListResults(ctx *gin.Context) {
	results, err := c.resultService.GetAllResults(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      results,
		Timestamp: time.Now(),
	})
}

// ListResultsByStudent lists one student's results
// @Summary List results by student
// @Description Retrieves the results belonging to the given student's enrollments
// @Tags results
// @Accept json
// @Produce json
// @Param studentEmail query string true "Student email"
// @Success 200 {object} dto.APIResponse{data=[]models.Result} "Results retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing student email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results/by-student [get]
func (c *ResultController) ListResultsByStudent(ctx *gin.Context) {
	results, err := c.resultService.GetResultsByStudent(ctx, ctx.Query("studentEmail"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      results,
		Timestamp: time.Now(),
	})
}
