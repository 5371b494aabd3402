package repository

import (
	"context"

	"hospital-management-backend/internal/models"

	"gorm.io/gorm"
)

// calendarDayFormat is the MySQL DATE_FORMAT pattern for YYYY-MM-DD
const calendarDayFormat = "%Y-%m-%d"

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// CreateAppointment inserts a booked appointment
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Create(appointment).Error)
}

// GetAllAppointments retrieves all appointments, latest date first
func (r *AppointmentRepository) GetAllAppointments(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).Order("appointment_date DESC").Find(&appointments).Error
	return appointments, err
}

// CountAppointmentsOnDay counts appointments whose stored UTC instant, shifted
// to offset ("+05:30") and formatted as YYYY-MM-DD, equals day.
// The predicate is evaluated per row and cannot use the appointment_date index.
func (r *AppointmentRepository) CountAppointmentsOnDay(ctx context.Context, day, offset string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("DATE_FORMAT(CONVERT_TZ(appointment_date, '+00:00', ?), ?) = ?", offset, calendarDayFormat, day).
		Count(&count).Error
	return count, err
}
