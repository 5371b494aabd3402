package database

import (
	"fmt"
	"time"

	"hospital-management-backend/internal/config"
	"hospital-management-backend/internal/models"
	"hospital-management-backend/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSN builds the MySQL data source name. Times are read and written in
// UTC so that CONVERT_TZ from '+00:00' is exact.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
	)
}

// GormConfig returns the gorm settings shared by the server and the CLI
func GormConfig(cfg *config.Config) *gorm.Config {
	gormLogger := gormlogger.Default.LogMode(gormlogger.Info)
	if cfg.Server.GinMode == "release" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Error)
	}

	return &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Connect initializes and returns a GORM database connection
func Connect(cfg *config.Config, log *logger.Logger) *gorm.DB {
	db, err := gorm.Open(mysql.Open(DSN(cfg)), GormConfig(cfg))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("Failed to get database instance")
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		log.WithError(err).Fatal("Failed to ping database")
	}

	log.Info("Successfully connected to database")

	return db
}

// Migrate creates or updates every table the service owns
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.AuditLog{},
		&models.Counter{},
		&models.Patient{},
		&models.Doctor{},
		&models.Appointment{},
	)
}
