package services

import (
	"context"
	"fmt"
	"time"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/pkg/apperrors"
	"github.com/emre/coursehub/internal/pkg/validation"
)

// ResultStore defines the repository operations the result service needs
type ResultStore interface {
	Create(ctx context.Context, result *models.Result) (int64, error)
	Update(ctx context.Context, result *models.Result) error
	GetByEnrollmentID(ctx context.Context, enrollmentID int64) (*models.Result, error)
	GetAll(ctx context.Context) ([]*models.Result, error)
	FindByEnrollmentStudentEmail(ctx context.Context, email string) ([]*models.Result, error)
}

// EnrollmentLookup is the read-only enrollment access the result service
// needs
type EnrollmentLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
}

// ResultService defines the interface for grade operations
type ResultService interface {
	// AssignGrade upserts the result for an enrollment. The returned bool
	// is true when a new result was created, false when an existing one
	// was overwritten.
	AssignGrade(ctx context.Context, enrollmentID int64, grade string) (*models.Result, bool, error)
	GetAllResults(ctx context.Context) ([]*models.Result, error)
	GetResultsByStudent(ctx context.Context, studentEmail string) ([]*models.Result, error)
}

// resultServiceImpl implements the ResultService interface
type resultServiceImpl struct {
	resultRepo     ResultStore
	enrollmentRepo EnrollmentLookup
}

// NewResultService creates a new result service instance
func NewResultService(resultRepo ResultStore, enrollmentRepo EnrollmentLookup) ResultService {
	return &resultServiceImpl{
		resultRepo:     resultRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// AssignGrade assigns a grade to an enrollment, overwriting any previous
// grade. Exactly one result row survives per enrollment regardless of how
// many times this runs. A missing enrollment is an ordinary not-found,
// consistent with the other absent-lookup paths.
func (s *resultServiceImpl) AssignGrade(ctx context.Context, enrollmentID int64, grade string) (*models.Result, bool, error) {
	if enrollmentID <= 0 {
		return nil, false, fmt.Errorf("%w: invalid enrollment ID", apperrors.ErrValidationFailed)
	}
	if !validation.IsValidGrade(grade) {
		return nil, false, fmt.Errorf("%w: grade must be 1-%d characters", apperrors.ErrValidationFailed, validation.GradeMaxLength)
	}

	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, false, apperrors.ErrEnrollmentNotFound
		}
		return nil, false, fmt.Errorf("error resolving enrollment: %w", err)
	}

	existing, err := s.resultRepo.GetByEnrollmentID(ctx, enrollmentID)
	switch {
	case err == nil:
		existing.Grade = grade
		existing.UpdatedAt = time.Now()
		if err := s.resultRepo.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("error updating result: %w", err)
		}
		existing.Enrollment = enrollment
		return existing, false, nil

	case apperrors.IsNotFound(err):
		result := &models.Result{
			EnrollmentID: enrollmentID,
			Grade:        grade,
			UpdatedAt:    time.Now(),
			Enrollment:   enrollment,
		}
		id, err := s.resultRepo.Create(ctx, result)
		if err != nil {
			if apperrors.IsConflict(err) {
				// Another writer created the row between the lookup and the
				// insert; fall back to overwriting it, preserving the upsert
				// outcome.
				return s.overwriteExisting(ctx, enrollment, grade)
			}
			return nil, false, fmt.Errorf("error creating result: %w", err)
		}
		result.ID = id
		return result, true, nil

	default:
		return nil, false, fmt.Errorf("error looking up result: %w", err)
	}
}

// overwriteExisting handles the constraint-race path of AssignGrade
func (s *resultServiceImpl) overwriteExisting(ctx context.Context, enrollment *models.Enrollment, grade string) (*models.Result, bool, error) {
	existing, err := s.resultRepo.GetByEnrollmentID(ctx, enrollment.ID)
	if err != nil {
		return nil, false, fmt.Errorf("error looking up result after conflict: %w", err)
	}

	existing.Grade = grade
	existing.UpdatedAt = time.Now()
	if err := s.resultRepo.Update(ctx, existing); err != nil {
		return nil, false, fmt.Errorf("error updating result: %w", err)
	}
	existing.Enrollment = enrollment
	return existing, false, nil
}

// GetAllResults retrieves all results
func (s *resultServiceImpl) GetAllResults(ctx context.Context) ([]*models.Result, error) {
	results, err := s.resultRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving results: %w", err)
	}
	return results, nil
}

// GetResultsByStudent retrieves the results of one student, joined
// through the enrollments the results belong to
func (s *resultServiceImpl) GetResultsByStudent(ctx context.Context, studentEmail string) ([]*models.Result, error) {
	if validation.IsBlank(studentEmail) {
		return nil, fmt.Errorf("%w: studentEmail is required", apperrors.ErrValidationFailed)
	}

	results, err := s.resultRepo.FindByEnrollmentStudentEmail(ctx, studentEmail)
	if err != nil {
		return nil, fmt.Errorf("error retrieving results: %w", err)
	}
	return results, nil
}
