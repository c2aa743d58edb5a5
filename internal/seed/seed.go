package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/emre/coursehub/internal/app/models"
	appRepos "github.com/emre/coursehub/internal/app/repositories"
	"github.com/emre/coursehub/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

// defaultCourses is a small starter catalog for fresh databases
var defaultCourses = []*appModels.Course{
	{Code: "CS101", Title: "Introduction to Computing", Credit: 3, LecturerName: strPtr("Dr. Aylin Kaya")},
	{Code: "CS201", Title: "Data Structures", Credit: 4, LecturerName: strPtr("Dr. Mert Aksoy")},
	{Code: "MATH110", Title: "Calculus I", Credit: 5},
	{Code: "HIST100", Title: "History of Science", Credit: 2},
}

// CreateDefaultData creates the default course catalog if it doesn't exist.
// Courses that are already present (by code) are left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	courseRepo := appRepos.NewCourseRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default course catalog...")
	var finalErr error

	for _, course := range defaultCourses {
		if _, err := courseRepo.Create(ctx, course); err != nil {
			if errors.Is(err, apperrors.ErrCourseAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("code", course.Code).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default course catalog is in place.")
	}
	return finalErr
}
