package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emre/coursehub/internal/app/controllers"
	"github.com/emre/coursehub/internal/app/models/dto"
	"github.com/emre/coursehub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	studentController *controllers.StudentController,
	enrollmentController *controllers.EnrollmentController,
	resultController *controllers.ResultController,
	accessMiddleware *middleware.AccessMiddleware,
) {
	// API version group. Every route goes through the access policy;
	// with the default allow-all policy this changes nothing.
	v1 := router.Group("/api/v1")
	v1.Use(accessMiddleware.Enforce())

	// Course catalog (read) and admin CRUD
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourseByID)
	}
	adminCourses := v1.Group("/admin/courses")
	{
		adminCourses.POST("", courseController.CreateCourse)
		adminCourses.PUT("/:id", courseController.UpdateCourse)
		adminCourses.DELETE("/:id", courseController.DeleteCourse)
	}

	// Student roster (read) and admin CRUD
	students := v1.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.GET("/:id", studentController.GetStudentByID)
	}
	adminStudents := v1.Group("/admin/students")
	{
		adminStudents.POST("", studentController.CreateStudent)
		adminStudents.PUT("/:id", studentController.UpdateStudent)
		adminStudents.DELETE("/:id", studentController.DeleteStudent)
	}

	// Self-enroll and enrollment views
	enrollments := v1.Group("/enrollments")
	{
		enrollments.POST("", enrollmentController.Enroll)
		enrollments.GET("", enrollmentController.ListEnrollments)
		enrollments.DELETE("/:id", enrollmentController.DeleteEnrollment)
	}

	// Alias used by the student portal
	v1.GET("/me/enrollments", enrollmentController.ListMyEnrollments)

	// Grades
	results := v1.Group("/results")
	{
		results.POST("", resultController.AssignGrade)
		results.GET("", resultController.ListResults)
		results.GET("/by-student", resultController.ListResultsByStudent)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
