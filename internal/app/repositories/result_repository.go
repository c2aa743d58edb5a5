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

// UniqueResultConstraint is the schema-level guard ensuring at most one
// result row per enrollment. The service-level find-or-create is best
// effort; this constraint catches the concurrent duplicate insert.
const UniqueResultConstraint = "uq_results_enrollment"

// resultColumns selects a result row with its enrollment and course
// eagerly joined.
var resultColumns = []string{
	"r.id", "r.enrollment_id", "r.grade", "r.updated_at",
	"e.id", "e.student_email", "e.course_id", "e.enrolled_at",
	"c.id", "c.code", "c.title", "c.credit", "c.lecturer_name",
}

// ResultRepository handles result database operations
type ResultRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResultRepository creates a new ResultRepository
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new result and returns its assigned id.
// A unique violation on the enrollment_id constraint means another writer
// created the row first; it is translated to ErrConflict.
func (r *ResultRepository) Create(ctx context.Context, result *models.Result) (int64, error) {
	sql, args, err := r.sb.Insert("results").
		Columns("enrollment_id", "grade", "updated_at").
		Values(result.EnrollmentID, result.Grade, result.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create result SQL")
		return 0, fmt.Errorf("failed to build create result query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, UniqueResultConstraint) {
			return 0, apperrors.ErrConflict
		}
		logger.Error().Err(err).Int64("enrollmentID", result.EnrollmentID).Msg("Error executing create result query")
		return 0, fmt.Errorf("error creating result: %w", err)
	}

	return id, nil
}

// Update overwrites the grade and updated_at of an existing result
func (r *ResultRepository) Update(ctx context.Context, result *models.Result) error {
	sql, args, err := r.sb.Update("results").
		SetMap(map[string]interface{}{
			"grade":      result.Grade,
			"updated_at": result.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": result.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update result SQL")
		return fmt.Errorf("failed to build update result query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("resultID", result.ID).Msg("Error executing update result query")
		return fmt.Errorf("error updating result: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResultNotFound
	}

	return nil
}

// GetByEnrollmentID retrieves the result for an enrollment, if any
func (r *ResultRepository) GetByEnrollmentID(ctx context.Context, enrollmentID int64) (*models.Result, error) {
	sql, args, err := r.resultSelect().
		Where(squirrel.Eq{"r.enrollment_id": enrollmentID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get result by enrollment SQL")
		return nil, fmt.Errorf("failed to build get result query: %w", err)
	}

	result, err := scanResult(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResultNotFound
		}
		logger.Error().Err(err).Int64("enrollmentID", enrollmentID).Msg("Error scanning result row")
		return nil, fmt.Errorf("error getting result by enrollment ID: %w", err)
	}

	return result, nil
}

// GetAll retrieves all results with enrollments and courses resolved
func (r *ResultRepository) GetAll(ctx context.Context) ([]*models.Result, error) {
	return r.queryResults(ctx, r.resultSelect().OrderBy("r.updated_at DESC"))
}

// FindByEnrollmentStudentEmail retrieves all results belonging to
// enrollments of the given student email
func (r *ResultRepository) FindByEnrollmentStudentEmail(ctx context.Context, email string) ([]*models.Result, error) {
	return r.queryResults(ctx, r.resultSelect().
		Where(squirrel.Eq{"e.student_email": email}).
		OrderBy("r.updated_at DESC"))
}

func (r *ResultRepository) resultSelect() squirrel.SelectBuilder {
	return r.sb.Select(resultColumns...).
		From("results r").
		Join("enrollments e ON e.id = r.enrollment_id").
		Join("courses c ON c.id = e.course_id")
}

func (r *ResultRepository) queryResults(ctx context.Context, builder squirrel.SelectBuilder) ([]*models.Result, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building results SQL")
		return nil, fmt.Errorf("failed to build results query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing results query")
		return nil, fmt.Errorf("error querying results: %w", err)
	}
	defer rows.Close()

	results := []*models.Result{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning result row")
			return nil, fmt.Errorf("error scanning result row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating result rows")
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}

	return results, nil
}

// scanResult scans a result row joined with its enrollment and course
func scanResult(row pgx.Row) (*models.Result, error) {
	result := &models.Result{Enrollment: &models.Enrollment{Course: &models.Course{}}}
	err := row.Scan(
		&result.ID,
		&result.EnrollmentID,
		&result.Grade,
		&result.UpdatedAt,
		&result.Enrollment.ID,
		&result.Enrollment.StudentEmail,
		&result.Enrollment.CourseID,
		&result.Enrollment.EnrolledAt,
		&result.Enrollment.Course.ID,
		&result.Enrollment.Course.Code,
		&result.Enrollment.Course.Title,
		&result.Enrollment.Course.Credit,
		&result.Enrollment.Course.LecturerName,
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
