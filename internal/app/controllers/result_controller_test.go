package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/pkg/apperrors"
)

// stubResultService returns canned answers for handler tests
type stubResultService struct {
	assignFn func(ctx context.Context, enrollmentID int64, grade string) (*models.Result, bool, error)
	listFn   func(ctx context.Context) ([]*models.Result, error)
}

func (s *stubResultService) AssignGrade(ctx context.Context, enrollmentID int64, grade string) (*models.Result, bool, error) {
	return s.assignFn(ctx, enrollmentID, grade)
}

func (s *stubResultService) GetAllResults(ctx context.Context) ([]*models.Result, error) {
	return s.listFn(ctx)
}

func (s *stubResultService) GetResultsByStudent(ctx context.Context, _ string) ([]*models.Result, error) {
	return s.listFn(ctx)
}

func resultRouter(svc *stubResultService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewResultController(svc)
	router.POST("/results", controller.AssignGrade)
	router.GET("/results", controller.ListResults)
	return router
}

func TestAssignGradeEndpointStatusByOutcome(t *testing.T) {
	created := true
	svc := &stubResultService{
		assignFn: func(_ context.Context, enrollmentID int64, grade string) (*models.Result, bool, error) {
			return &models.Result{ID: 1, EnrollmentID: enrollmentID, Grade: grade, UpdatedAt: time.Now()}, created, nil
		},
	}
	router := resultRouter(svc)

	// First assignment creates the result.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/results?enrollmentId=1&grade=A", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for a new result, got %d", w.Code)
	}

	// Overwrite reports 200.
	created = false
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/results?enrollmentId=1&grade=B%2B", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for an overwrite, got %d", w.Code)
	}
}

func TestAssignGradeEndpointEnrollmentNotFound(t *testing.T) {
	svc := &stubResultService{
		assignFn: func(context.Context, int64, string) (*models.Result, bool, error) {
			return nil, false, apperrors.ErrEnrollmentNotFound
		},
	}
	router := resultRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/results?enrollmentId=999&grade=A", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAssignGradeEndpointMissingParams(t *testing.T) {
	svc := &stubResultService{
		assignFn: func(context.Context, int64, string) (*models.Result, bool, error) {
			t.Fatal("service must not be called when binding fails")
			return nil, false, nil
		},
	}
	router := resultRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/results?grade=A", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
