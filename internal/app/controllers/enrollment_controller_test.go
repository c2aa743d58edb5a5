package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/pkg/apperrors"
)

// stubEnrollmentService returns canned answers for handler tests
type stubEnrollmentService struct {
	enrollFn func(ctx context.Context, studentEmail string, courseID int64) (*models.Enrollment, error)
	listFn   func(ctx context.Context, studentEmail string, courseID int64) ([]*models.Enrollment, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubEnrollmentService) Enroll(ctx context.Context, studentEmail string, courseID int64) (*models.Enrollment, error) {
	return s.enrollFn(ctx, studentEmail, courseID)
}

func (s *stubEnrollmentService) ListEnrollments(ctx context.Context, studentEmail string, courseID int64) ([]*models.Enrollment, error) {
	return s.listFn(ctx, studentEmail, courseID)
}

func (s *stubEnrollmentService) ListMyEnrollments(ctx context.Context, studentEmail string) ([]*models.Enrollment, error) {
	return s.listFn(ctx, studentEmail, 0)
}

func (s *stubEnrollmentService) DeleteEnrollment(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func enrollmentRouter(svc *stubEnrollmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewEnrollmentController(svc)
	router.POST("/enrollments", controller.Enroll)
	router.GET("/enrollments", controller.ListEnrollments)
	router.DELETE("/enrollments/:id", controller.DeleteEnrollment)
	return router
}

func TestEnrollEndpointCreated(t *testing.T) {
	svc := &stubEnrollmentService{
		enrollFn: func(_ context.Context, studentEmail string, courseID int64) (*models.Enrollment, error) {
			return &models.Enrollment{ID: 1, StudentEmail: studentEmail, CourseID: courseID, EnrolledAt: time.Now()}, nil
		},
	}
	router := enrollmentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments?studentEmail=ada@example.edu&courseId=1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data models.Enrollment `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Data.StudentEmail != "ada@example.edu" || body.Data.CourseID != 1 {
		t.Fatalf("unexpected body: %+v", body.Data)
	}
}

func TestEnrollEndpointConflict(t *testing.T) {
	svc := &stubEnrollmentService{
		enrollFn: func(context.Context, string, int64) (*models.Enrollment, error) {
			return nil, apperrors.ErrAlreadyEnrolled
		},
	}
	router := enrollmentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments?studentEmail=ada@example.edu&courseId=1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestEnrollEndpointMissingParams(t *testing.T) {
	svc := &stubEnrollmentService{
		enrollFn: func(context.Context, string, int64) (*models.Enrollment, error) {
			t.Fatal("service must not be called when binding fails")
			return nil, nil
		},
	}
	router := enrollmentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestEnrollEndpointCourseNotFound(t *testing.T) {
	svc := &stubEnrollmentService{
		enrollFn: func(context.Context, string, int64) (*models.Enrollment, error) {
			return nil, apperrors.ErrCourseNotFound
		},
	}
	router := enrollmentRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments?studentEmail=ada@example.edu&courseId=999", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteEnrollmentEndpoint(t *testing.T) {
	svc := &stubEnrollmentService{
		deleteFn: func(_ context.Context, id int64) error {
			if id == 1 {
				return nil
			}
			return apperrors.ErrEnrollmentNotFound
		},
	}
	router := enrollmentRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/enrollments/1", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/enrollments/999", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/enrollments/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", w.Code)
	}
}
