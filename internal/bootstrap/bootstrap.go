package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/emre/coursehub/internal/app/auth"
	appControllers "github.com/emre/coursehub/internal/app/controllers"
	appMigrations "github.com/emre/coursehub/internal/app/migrations"
	appRepos "github.com/emre/coursehub/internal/app/repositories"
	appRoutes "github.com/emre/coursehub/internal/app/routes"
	appServices "github.com/emre/coursehub/internal/app/services"
	"github.com/emre/coursehub/internal/config"
	"github.com/emre/coursehub/internal/db"
	appMiddleware "github.com/emre/coursehub/internal/middleware"
	pkgAuth "github.com/emre/coursehub/internal/pkg/auth"
	"github.com/emre/coursehub/internal/pkg/logger"
	"github.com/emre/coursehub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService        appServices.CourseService
	StudentService       appServices.StudentService
	EnrollmentService    appServices.EnrollmentService
	ResultService        appServices.ResultService
	CourseController     *appControllers.CourseController
	StudentController    *appControllers.StudentController
	EnrollmentController *appControllers.EnrollmentController
	ResultController     *appControllers.ResultController
	AccessMiddleware     *appMiddleware.AccessMiddleware
	Repos                *appRepos.Repositories
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is best effort; the API works against an empty catalog too
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository)
	deps.EnrollmentService = appServices.NewEnrollmentService(deps.Repos.EnrollmentRepository, deps.Repos.CourseRepository)
	deps.ResultService = appServices.NewResultService(deps.Repos.ResultRepository, deps.Repos.EnrollmentRepository)

	policy, err := buildAccessPolicy(cfg)
	if err != nil {
		return nil, err
	}
	deps.AccessMiddleware = appMiddleware.NewAccessMiddleware(policy)

	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.ResultController = appControllers.NewResultController(deps.ResultService)

	return deps, nil
}

// buildAccessPolicy selects the configured access policy. The default is
// the permit-all policy; stricter policies swap in here without touching
// the domain layer.
func buildAccessPolicy(cfg *config.Config) (appAuth.AccessPolicy, error) {
	switch cfg.Access.Mode {
	case config.AccessModeBearer:
		verifier := pkgAuth.NewTokenVerifier(cfg.Access.Secret, cfg.Access.Issuer)
		return appAuth.NewBearerPolicy(verifier), nil
	case config.AccessModeOpen, "":
		return appAuth.NewAllowAll(), nil
	default:
		return nil, fmt.Errorf("unknown access mode: %s", cfg.Access.Mode)
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	router.Use(appMiddleware.RequestID())

	// Cross-origin access is deliberately unrestricted, matching the
	// open access policy
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", appMiddleware.RequestIDHeader)
	router.Use(cors.New(corsConfig))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.StudentController,
		deps.EnrollmentController,
		deps.ResultController,
		deps.AccessMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
