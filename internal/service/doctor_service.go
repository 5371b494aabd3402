package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hospital-management-backend/internal/models"
	"hospital-management-backend/internal/repository"
	"hospital-management-backend/pkg/logger"
	"hospital-management-backend/pkg/monitoring"

	"github.com/sirupsen/logrus"
)

// DoctorInput is a creation request: every doctor field except doctorId
type DoctorInput struct {
	Name            string                 `json:"name" validate:"required"`
	Specialization  string                 `json:"specialization" validate:"required"`
	Qualification   string                 `json:"qualification"`
	Email           string                 `json:"email"`
	Phone           string                 `json:"phone" validate:"required"`
	ConsultationFee *float64               `json:"consultationFee" validate:"required,gte=0"`
	Schedule        []models.ScheduleEntry `json:"schedule"`
	IsAvailable     *bool                  `json:"isAvailable"`
}

type DoctorService struct {
	doctors DoctorStore
	ids     *IdentifierService
	audit   AuditStore
	log     *logrus.Entry
}

func NewDoctorService(doctors DoctorStore, ids *IdentifierService, audit AuditStore, log *logger.Logger) *DoctorService {
	return &DoctorService{
		doctors: doctors,
		ids:     ids,
		audit:   audit,
		log:     log.WithComponent("doctor_service"),
	}
}

// CreateDoctor validates input, reserves the next DOC identifier and inserts the doctor
func (s *DoctorService) CreateDoctor(ctx context.Context, actor Actor, input DoctorInput) (*models.Doctor, error) {
	if err := RequireRole(actor, DoctorCreatorRoles...); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Specialization = strings.TrimSpace(input.Specialization)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := validateSchedule(input.Schedule); err != nil {
		return nil, err
	}

	doctorID, err := s.ids.Next(ctx, DoctorIDSequence)
	if err != nil {
		return nil, err
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}
	schedule := input.Schedule
	if schedule == nil {
		schedule = []models.ScheduleEntry{}
	}

	doctor := &models.Doctor{
		DoctorID:        doctorID,
		Name:            input.Name,
		Specialization:  input.Specialization,
		Qualification:   input.Qualification,
		Email:           input.Email,
		Phone:           input.Phone,
		ConsultationFee: *input.ConsultationFee,
		Schedule:        schedule,
		IsAvailable:     available,
	}

	if err := s.doctors.CreateDoctor(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: doctor id %s is already taken", ErrConflict, doctorID)
		}
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	monitoring.DoctorsCreated.Inc()

	recordAudit(ctx, s.audit, s.log, newAuditEntry(actor.UserID, "doctor_create", models.EntityDoctor, doctor.ID,
		fmt.Sprintf("Created doctor %s (%s, %s)", doctor.Name, doctor.DoctorID, doctor.Specialization)))

	return doctor, nil
}

// GetAllDoctors lists every doctor
func (s *DoctorService) GetAllDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.doctors.GetAllDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doctors: %w", err)
	}
	return doctors, nil
}

func validateSchedule(schedule []models.ScheduleEntry) error {
	for i, entry := range schedule {
		if err := validate.Var(entry.Day, "required,weekday"); err != nil {
			return validationError("schedule[%d].day must be a weekday name", i)
		}
	}
	return nil
}
