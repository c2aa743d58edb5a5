package services

import (
	"context"
	"fmt"
	"time"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/pkg/apperrors"
	"github.com/emre/coursehub/internal/pkg/validation"
)

// EnrollmentStore defines the repository operations the enrollment
// service needs
type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetAll(ctx context.Context) ([]*models.Enrollment, error)
	FindByStudentEmail(ctx context.Context, email string) ([]*models.Enrollment, error)
	FindByCourseID(ctx context.Context, courseID int64) ([]*models.Enrollment, error)
	ExistsByStudentEmailAndCourseID(ctx context.Context, email string, courseID int64) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// CourseLookup is the read-only course access the enrollment service needs
type CourseLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// EnrollmentService defines the interface for enrollment operations
type EnrollmentService interface {
	Enroll(ctx context.Context, studentEmail string, courseID int64) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, studentEmail string, courseID int64) ([]*models.Enrollment, error)
	ListMyEnrollments(ctx context.Context, studentEmail string) ([]*models.Enrollment, error)
	DeleteEnrollment(ctx context.Context, id int64) error
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	enrollmentRepo EnrollmentStore
	courseRepo     CourseLookup
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(enrollmentRepo EnrollmentStore, courseRepo CourseLookup) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
	}
}

// Enroll enrolls a student (by email) in a course. The existence check is
// a fast path for a friendly conflict error; the unique constraint on
// (student_email, course_id) is the authoritative guard, and a duplicate
// insert that slips past the check comes back as the same conflict.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, studentEmail string, courseID int64) (*models.Enrollment, error) {
	if !validation.IsValidEmail(studentEmail) {
		return nil, fmt.Errorf("%w: studentEmail must be a valid email address", apperrors.ErrInvalidEmail)
	}
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}

	enrolled, err := s.enrollmentRepo.ExistsByStudentEmailAndCourseID(ctx, studentEmail, courseID)
	if err != nil {
		return nil, fmt.Errorf("error checking enrollment: %w", err)
	}
	if enrolled {
		return nil, apperrors.ErrAlreadyEnrolled
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error resolving course: %w", err)
	}

	enrollment := &models.Enrollment{
		StudentEmail: studentEmail,
		CourseID:     course.ID,
		EnrolledAt:   time.Now(),
		Course:       course,
	}

	id, err := s.enrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		if apperrors.IsConflict(err) {
			// Lost the check-then-insert race; same outcome as the fast path.
			return nil, apperrors.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}

	enrollment.ID = id
	return enrollment, nil
}

// ListEnrollments lists enrollments, optionally filtered by student email
// or course id. An unknown email yields an empty list, not an error.
func (s *enrollmentServiceImpl) ListEnrollments(ctx context.Context, studentEmail string, courseID int64) ([]*models.Enrollment, error) {
	var (
		enrollments []*models.Enrollment
		err         error
	)
	switch {
	case !validation.IsBlank(studentEmail):
		enrollments, err = s.enrollmentRepo.FindByStudentEmail(ctx, studentEmail)
	case courseID > 0:
		enrollments, err = s.enrollmentRepo.FindByCourseID(ctx, courseID)
	default:
		enrollments, err = s.enrollmentRepo.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	return enrollments, nil
}

// ListMyEnrollments lists the enrollments of one student. Unlike
// ListEnrollments the email filter is mandatory.
func (s *enrollmentServiceImpl) ListMyEnrollments(ctx context.Context, studentEmail string) ([]*models.Enrollment, error) {
	if validation.IsBlank(studentEmail) {
		return nil, fmt.Errorf("%w: studentEmail is required", apperrors.ErrValidationFailed)
	}

	enrollments, err := s.enrollmentRepo.FindByStudentEmail(ctx, studentEmail)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	return enrollments, nil
}

// DeleteEnrollment deletes an enrollment after an existence pre-check
func (s *enrollmentServiceImpl) DeleteEnrollment(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid enrollment ID", apperrors.ErrValidationFailed)
	}

	exists, err := s.enrollmentRepo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking enrollment: %w", err)
	}
	if !exists {
		return apperrors.ErrEnrollmentNotFound
	}

	if err := s.enrollmentRepo.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.ErrEnrollmentNotFound
		}
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	return nil
}
