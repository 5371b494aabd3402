package service

import (
	"context"
	"time"

	"hospital-management-backend/internal/models"
)

// The stores below are satisfied by the gorm repositories in
// internal/repository and by test doubles.

type PatientStore interface {
	CreatePatient(ctx context.Context, patient *models.Patient) error
	GetPatientByID(ctx context.Context, id string) (*models.Patient, error)
	GetPatientsByIDs(ctx context.Context, ids []string) ([]models.Patient, error)
	GetAllPatients(ctx context.Context) ([]models.Patient, error)
	GetRecentPatients(ctx context.Context, limit int) ([]models.Patient, error)
	SearchPatients(ctx context.Context, query string) ([]models.Patient, error)
	UpdatePatientColumns(ctx context.Context, patient *models.Patient, columns []string) error
	CountPatients(ctx context.Context) (int64, error)
	CountPendingBills(ctx context.Context) (int64, error)
	CountPaidBills(ctx context.Context) (int64, error)
}

type DoctorStore interface {
	CreateDoctor(ctx context.Context, doctor *models.Doctor) error
	GetDoctorByID(ctx context.Context, id string) (*models.Doctor, error)
	GetDoctorsByIDs(ctx context.Context, ids []string) ([]models.Doctor, error)
	GetAllDoctors(ctx context.Context) ([]models.Doctor, error)
	CountDoctors(ctx context.Context) (int64, error)
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	GetAllAppointments(ctx context.Context) ([]models.Appointment, error)
	CountAppointmentsOnDay(ctx context.Context, day, offset string) (int64, error)
}

type UserStore interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	CountActiveUsers(ctx context.Context) (int64, error)
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	RevokeRefreshTokenByHash(ctx context.Context, hash string) error
	DeleteStaleRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}

type AuditStore interface {
	RecordAudit(ctx context.Context, entry *models.AuditLog) error
}
