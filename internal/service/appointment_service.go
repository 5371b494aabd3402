package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-management-backend/internal/models"
	"hospital-management-backend/internal/repository"
	"hospital-management-backend/pkg/logger"
	"hospital-management-backend/pkg/monitoring"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// BookingRequest references a patient and a doctor by identity
type BookingRequest struct {
	Patient         string `json:"patient"`
	Doctor          string `json:"doctor"`
	AppointmentDate string `json:"appointmentDate"`
	TimeSlot        string `json:"timeSlot"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes"`
}

type AppointmentService struct {
	appointments AppointmentStore
	patients     PatientStore
	doctors      DoctorStore
	audit        AuditStore
	loc          *time.Location
	now          func() time.Time
	log          *logrus.Entry
}

// NewAppointmentService builds the scheduler. loc is the server zone that
// defines calendar days for both booking and the daily count.
func NewAppointmentService(
	appointments AppointmentStore,
	patients PatientStore,
	doctors DoctorStore,
	audit AuditStore,
	loc *time.Location,
	log *logger.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		audit:        audit,
		loc:          loc,
		now:          time.Now,
		log:          log.WithComponent("appointment_service"),
	}
}

// BookAppointment checks, in order, that the required fields are present,
// that the patient exists and that the doctor exists; the first failure is
// returned and nothing is stored. There is no double-booking check.
func (s *AppointmentService) BookAppointment(ctx context.Context, actor Actor, req BookingRequest) (*models.Appointment, error) {
	req.Patient = strings.TrimSpace(req.Patient)
	req.Doctor = strings.TrimSpace(req.Doctor)
	req.AppointmentDate = strings.TrimSpace(req.AppointmentDate)

	if req.Patient == "" || req.Doctor == "" || req.AppointmentDate == "" {
		return nil, validationError("patient, doctor and appointmentDate are required")
	}

	if _, err := s.patients.GetPatientByID(ctx, req.Patient); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, notFoundError("patient")
		}
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}

	if _, err := s.doctors.GetDoctorByID(ctx, req.Doctor); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, notFoundError("doctor")
		}
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}

	date, err := ParseCalendarDate(req.AppointmentDate, s.loc)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		PatientID:       req.Patient,
		DoctorID:        req.Doctor,
		AppointmentDate: date.UTC(),
		TimeSlot:        req.TimeSlot,
		Reason:          req.Reason,
		Notes:           req.Notes,
		Status:          models.AppointmentBooked,
	}

	if err := s.appointments.CreateAppointment(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	monitoring.AppointmentsBooked.Inc()

	recordAudit(ctx, s.audit, s.log, newAuditEntry(actor.UserID, "appointment_create", models.EntityAppointment, appointment.ID,
		fmt.Sprintf("Booked patient %s with doctor %s on %s", appointment.PatientID, appointment.DoctorID, date.Format(CalendarDayLayout))))

	return appointment, nil
}

// GetAllAppointments lists appointments, latest date first, with patient and
// doctor summaries filled in. A reference that no longer resolves is left nil.
func (s *AppointmentService) GetAllAppointments(ctx context.Context) ([]models.AppointmentDetails, error) {
	appointments, err := s.appointments.GetAllAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}

	patientIDs := lo.Uniq(lo.Map(appointments, func(a models.Appointment, _ int) string { return a.PatientID }))
	doctorIDs := lo.Uniq(lo.Map(appointments, func(a models.Appointment, _ int) string { return a.DoctorID }))

	patients, err := s.patients.GetPatientsByIDs(ctx, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment patients: %w", err)
	}
	doctors, err := s.doctors.GetDoctorsByIDs(ctx, doctorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment doctors: %w", err)
	}

	patientsByID := lo.KeyBy(patients, func(p models.Patient) string { return p.ID })
	doctorsByID := lo.KeyBy(doctors, func(d models.Doctor) string { return d.ID })

	details := make([]models.AppointmentDetails, 0, len(appointments))
	for _, a := range appointments {
		d := models.AppointmentDetails{
			ID:              a.ID,
			AppointmentDate: a.AppointmentDate,
			TimeSlot:        a.TimeSlot,
			Reason:          a.Reason,
			Notes:           a.Notes,
			Status:          a.Status,
			CreatedAt:       a.CreatedAt,
			UpdatedAt:       a.UpdatedAt,
		}
		if p, ok := patientsByID[a.PatientID]; ok {
			d.Patient = &models.PatientSummary{ID: p.ID, Name: p.Name, MRN: p.MRN}
		}
		if doc, ok := doctorsByID[a.DoctorID]; ok {
			d.Doctor = &models.DoctorSummary{ID: doc.ID, Name: doc.Name, Specialization: doc.Specialization}
		}
		details = append(details, d)
	}
	return details, nil
}

// CountTodayAppointments counts appointments on the server's current
// calendar day. The day and UTC offset are recomputed from the clock on
// every call.
func (s *AppointmentService) CountTodayAppointments(ctx context.Context) (int64, error) {
	day, offset := DayWindowAt(s.now().In(s.loc))

	count, err := s.appointments.CountAppointmentsOnDay(ctx, day, offset)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments for %s: %w", day, err)
	}
	return count, nil
}
