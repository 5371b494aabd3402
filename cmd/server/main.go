package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-management-backend/internal/config"
	"hospital-management-backend/internal/database"
	"hospital-management-backend/internal/handler"
	"hospital-management-backend/internal/middleware"
	"hospital-management-backend/internal/repository"
	"hospital-management-backend/internal/service"
	"hospital-management-backend/pkg/logger"
	"hospital-management-backend/pkg/monitoring"
	"hospital-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	tokenCleanupInterval  = time.Hour
	tokenCleanupRetention = 24 * time.Hour
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log := logger.New(cfg.Log.Level)
	cfg.LogWarnings(log.WithComponent("config"))
	log.WithComponent("main").Info("Configuration loaded successfully")

	loc, err := cfg.Location()
	if err != nil {
		log.WithError(err).Fatal("Invalid SERVER_TIMEZONE")
	}

	// 2. Initialize database connection
	db := database.Connect(cfg, log)
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	// 3. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	patientRepo := repository.NewPatientRepo(db)
	doctorRepo := repository.NewDoctorRepo(db)
	appointmentRepo := repository.NewAppointmentRepo(db)
	counterRepo := repository.NewCounterRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Align identifier sequences with rows that predate the counters
	ids := service.NewIdentifierService(counterRepo)
	if err := seedSequences(ctx, ids, patientRepo, doctorRepo); err != nil {
		log.WithError(err).Fatal("Failed to seed identifier sequences")
	}

	// 5. Initialize services
	tokens := utils.NewTokenManager(cfg.JWT.AccessSecret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	authService := service.NewAuthService(userRepo, auditRepo, tokens, utils.PasswordHasher{Cost: utils.DefaultBcryptCost}, log)
	patientService := service.NewPatientService(patientRepo, ids, auditRepo, service.DefaultFieldPolicy, log)
	doctorService := service.NewDoctorService(doctorRepo, ids, auditRepo, log)
	appointmentService := service.NewAppointmentService(appointmentRepo, patientRepo, doctorRepo, auditRepo, loc, log)
	cleanupWorker := service.NewTokenCleanupWorker(userRepo, tokenCleanupInterval, tokenCleanupRetention, log)

	// 6. Start background worker in goroutine
	go cleanupWorker.Start(ctx)

	// 7. Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.RequestLogger(log))
	r.Use(monitoring.Middleware())

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.IsProduction()),
		Patient:     handler.NewPatientHandler(patientService, log),
		Doctor:      handler.NewDoctorHandler(doctorService),
		Appointment: handler.NewAppointmentHandler(appointmentService),
	}, authService, !cfg.IsProduction())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 8. Setup graceful shutdown
	go func() {
		log.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server exited")
}

func seedSequences(ctx context.Context, ids *service.IdentifierService, patients *repository.PatientRepository, doctors *repository.DoctorRepository) error {
	patientCount, err := patients.CountPatients(ctx)
	if err != nil {
		return err
	}
	if err := ids.Seed(ctx, service.PatientMRNSequence, patientCount); err != nil {
		return err
	}

	doctorCount, err := doctors.CountDoctors(ctx)
	if err != nil {
		return err
	}
	return ids.Seed(ctx, service.DoctorIDSequence, doctorCount)
}
