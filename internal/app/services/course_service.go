package services

import (
	"context"
	"fmt"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/pkg/apperrors"
	"github.com/emre/coursehub/internal/pkg/validation"
)

// CourseStore defines the repository operations the course service needs
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	Search(ctx context.Context, term string) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseService defines the interface for course-related operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, query string) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo CourseStore
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo CourseStore) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
	}
}

// validateCourse validates course data before database operations
func (s *courseServiceImpl) validateCourse(course *models.Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", apperrors.ErrValidationFailed)
	}

	if validation.IsBlank(course.Code) {
		return fmt.Errorf("%w: code cannot be blank", apperrors.ErrValidationFailed)
	}

	if validation.IsBlank(course.Title) {
		return fmt.Errorf("%w: title cannot be blank", apperrors.ErrValidationFailed)
	}

	if !validation.IsValidCredit(course.Credit) {
		return fmt.Errorf("%w: credit must be between %d and %d", apperrors.ErrValidationFailed, validation.CreditMin, validation.CreditMax)
	}

	return nil
}

// CreateCourse creates a new course. Any id supplied by the caller is
// discarded; the store assigns the surrogate id.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	course.ID = 0
	if course.Credit == 0 {
		course.Credit = models.DefaultCredit
	}

	if err := s.validateCourse(course); err != nil {
		return 0, err
	}

	id, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		if apperrors.IsConflict(err) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating course: %w", err)
	}
	return id, nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// ListCourses retrieves all courses, or those matching the optional
// case-insensitive code/title substring query.
func (s *courseServiceImpl) ListCourses(ctx context.Context, query string) ([]*models.Course, error) {
	var (
		courses []*models.Course
		err     error
	)
	if validation.IsBlank(query) {
		courses, err = s.courseRepo.GetAll(ctx)
	} else {
		courses, err = s.courseRepo.Search(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse overwrites every mutable field of an existing course.
// Partial updates are not supported: fields missing from the payload are
// persisted as their zero values.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course *models.Course) error {
	if err := s.validateCourse(course); err != nil {
		return err
	}

	if course.ID <= 0 {
		return fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}

	err := s.courseRepo.Update(ctx, course)
	if err != nil {
		if apperrors.IsNotFound(err) || apperrors.IsConflict(err) {
			return err
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	return nil
}

// DeleteCourse deletes a course by ID. No dependent-enrollment check is
// performed; the FK constraint on enrollments is the only guard.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	return nil
}
