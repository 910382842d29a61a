package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patient-study-api/config"
	deliveryHttp "patient-study-api/internal/delivery/http"
	"patient-study-api/internal/delivery/http/handler"
	"patient-study-api/internal/delivery/http/middleware"
	"patient-study-api/internal/infrastructure/cache"
	"patient-study-api/internal/infrastructure/database"
	"patient-study-api/internal/repository"
	"patient-study-api/internal/service"
	"patient-study-api/internal/usecase"
	"patient-study-api/pkg/jwt"
	"patient-study-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New loads configuration, sets up logging and opens the database.
// The schema is synced when DB_AUTO_MIGRATE is enabled.
func New() (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	app.Log = setupLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, database.GormLogLevel(app.Log.GetLevel()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		app.Log.Info("Database schema is up to date")
	}

	return app, nil
}

// setupLogger configures the shared logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}

// InitServer connects to Redis and wires every layer into the HTTP server
func (app *App) InitServer() error {
	redisClient, err := cache.NewRedisClient(context.Background(), app.Config.Redis, app.Log)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	app.Server = initializeServer(app.Config, app.Log, app.DB, redisClient)
	return nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	tokenStore := service.NewRedisTokenStore(redisClient)

	// Initialize repositories
	membershipRepo := repository.NewStudyDoctorRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	measurementRepo := repository.NewMeasurementRepository()
	patientRepo := repository.NewPatientRepository(assignmentRepo)
	doctorRepo := repository.NewDoctorRepository(assignmentRepo, membershipRepo)
	studyRepo := repository.NewStudyRepository(assignmentRepo, membershipRepo)
	auditLogRepo := repository.NewAuditLogRepository()

	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	pageSize := cfg.Page.DefaultSize
	authUsecase := usecase.NewAuthUsecase(db, log, cfg.Auth, jwtService, tokenStore, auditService)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, auditService, pageSize)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, auditService, pageSize)
	studyUsecase := usecase.NewStudyUsecase(db, log, studyRepo, auditService, pageSize)
	assignmentUsecase := usecase.NewAssignmentUsecase(db, log, patientRepo, doctorRepo, studyRepo, membershipRepo, assignmentRepo, auditService)
	measurementUsecase := usecase.NewMeasurementUsecase(db, log, patientRepo, studyRepo, assignmentRepo, measurementRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, assignmentUsecase, measurementUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, assignmentUsecase, customValidator)
	studyHandler := handler.NewStudyHandler(studyUsecase, assignmentUsecase, measurementUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	router := deliveryHttp.NewRouter(authHandler, patientHandler, doctorHandler, studyHandler, auditLogHandler, authMiddleware, corsMiddleware)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Seed loads the demo data set into the database
func (app *App) Seed(ctx context.Context) (*service.SeedReport, error) {
	membershipRepo := repository.NewStudyDoctorRepository()
	assignmentRepo := repository.NewAssignmentRepository()

	seeder := service.NewSeedService(
		app.DB,
		app.Log,
		repository.NewPatientRepository(assignmentRepo),
		repository.NewDoctorRepository(assignmentRepo, membershipRepo),
		repository.NewStudyRepository(assignmentRepo, membershipRepo),
		membershipRepo,
		assignmentRepo,
		repository.NewMeasurementRepository(),
	)
	return seeder.Seed(ctx)
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
