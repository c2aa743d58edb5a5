package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/coursehub/internal/app/models"
	"github.com/emre/coursehub/internal/pkg/apperrors"
	"github.com/emre/coursehub/internal/pkg/dberrors"
	"github.com/emre/coursehub/internal/pkg/logger"
)

// UniqueEnrollmentConstraint is the schema-level guard on the
// (student_email, course_id) pair. It is the authoritative enforcement of
// the one-enrollment-per-pair invariant; the service-level existence check
// only provides a friendlier error on the fast path.
const UniqueEnrollmentConstraint = "uq_enrollments_student_course"

// enrollmentColumns selects an enrollment row with its course eagerly joined.
var enrollmentColumns = []string{
	"e.id", "e.student_email", "e.course_id", "e.enrolled_at",
	"c.id", "c.code", "c.title", "c.credit", "c.lecturer_name",
}

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new enrollment and returns its assigned id.
// A unique violation on the (student_email, course_id) constraint is
// translated to ErrAlreadyEnrolled so a lost check-then-insert race
// surfaces exactly like the pre-checked duplicate.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("student_email", "course_id", "enrolled_at").
		Values(enrollment.StudentEmail, enrollment.CourseID, enrollment.EnrolledAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create enrollment SQL")
		return 0, fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, UniqueEnrollmentConstraint) {
			return 0, apperrors.ErrAlreadyEnrolled
		}
		logger.Error().Err(err).Str("studentEmail", enrollment.StudentEmail).Int64("courseID", enrollment.CourseID).Msg("Error executing create enrollment query")
		return 0, fmt.Errorf("error creating enrollment: %w", err)
	}

	return id, nil
}

// GetByID retrieves an enrollment by ID with its course resolved
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentColumns...).
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where(squirrel.Eq{"e.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get enrollment by ID SQL")
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error getting enrollment by ID: %w", err)
	}

	return enrollment, nil
}

// GetAll retrieves all enrollments with their courses resolved
func (r *EnrollmentRepository) GetAll(ctx context.Context) ([]*models.Enrollment, error) {
	return r.queryEnrollments(ctx, r.enrollmentSelect())
}

// FindByStudentEmail retrieves a student's enrollments, most recent first
func (r *EnrollmentRepository) FindByStudentEmail(ctx context.Context, email string) ([]*models.Enrollment, error) {
	return r.queryEnrollments(ctx, r.enrollmentSelect().
		Where(squirrel.Eq{"e.student_email": email}).
		OrderBy("e.enrolled_at DESC"))
}

// FindByCourseID retrieves all enrollments for a course
func (r *EnrollmentRepository) FindByCourseID(ctx context.Context, courseID int64) ([]*models.Enrollment, error) {
	return r.queryEnrollments(ctx, r.enrollmentSelect().
		Where(squirrel.Eq{"e.course_id": courseID}).
		OrderBy("e.enrolled_at DESC"))
}

// ExistsByStudentEmailAndCourseID checks the enrollment uniqueness invariant
func (r *EnrollmentRepository) ExistsByStudentEmailAndCourseID(ctx context.Context, email string, courseID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"student_email": email, "course_id": courseID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building enrollment exists SQL")
		return false, fmt.Errorf("failed to build enrollment existence query: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Str("studentEmail", email).Int64("courseID", courseID).Msg("Error checking enrollment existence")
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}

	return exists, nil
}

// ExistsByID checks whether an enrollment exists
func (r *EnrollmentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM enrollments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}

	return exists, nil
}

// Delete deletes an enrollment by ID
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete enrollment SQL")
		return fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("enrollmentID", id).Msg("Error executing delete enrollment query")
		return fmt.Errorf("error deleting enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

func (r *EnrollmentRepository) enrollmentSelect() squirrel.SelectBuilder {
	return r.sb.Select(enrollmentColumns...).
		From("enrollments e").
		Join("courses c ON c.id = e.course_id")
}

func (r *EnrollmentRepository) queryEnrollments(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Enrollment, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building enrollments SQL")
		return nil, fmt.Errorf("failed to build enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing enrollments query")
		return nil, fmt.Errorf("error querying enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning enrollment row")
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating enrollment rows")
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// scanEnrollment scans an enrollment row joined with its course
func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{Course: &models.Course{}}
	err := row.Scan(
		&enrollment.ID,
		&enrollment.StudentEmail,
		&enrollment.CourseID,
		&enrollment.EnrolledAt,
		&enrollment.Course.ID,
		&enrollment.Course.Code,
		&enrollment.Course.Title,
		&enrollment.Course.Credit,
		&enrollment.Course.LecturerName,
	)
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}
