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

	"github.com/sirupsen/logrus"
)

// recentPatientsLimit bounds the sample in the billing summary
const recentPatientsLimit = 10

// PatientInput is a registration request: every patient field except mrn
type PatientInput struct {
	Name             string                  `json:"name" validate:"required"`
	Email            string                  `json:"email"`
	Phone            string                  `json:"phone" validate:"required"`
	DateOfBirth      string                  `json:"dateOfBirth" validate:"required"`
	Gender           string                  `json:"gender" validate:"required,oneof=Male Female Other"`
	BloodGroup       string                  `json:"bloodGroup" validate:"omitempty,bloodgroup"`
	Address          models.Address          `json:"address"`
	EmergencyContact models.EmergencyContact `json:"emergencyContact"`
	MedicalHistory   models.MedicalHistory   `json:"medicalHistory"`
	BillAmount       float64                 `json:"billAmount" validate:"gte=0"`
	BillPaid         bool                    `json:"billPaid"`
}

// PatientPatch is a partial update. A nil field is left unchanged.
type PatientPatch struct {
	Name             *string                  `json:"name"`
	Email            *string                  `json:"email"`
	Phone            *string                  `json:"phone"`
	DateOfBirth      *string                  `json:"dateOfBirth"`
	Gender           *string                  `json:"gender"`
	BloodGroup       *string                  `json:"bloodGroup"`
	Address          *models.Address          `json:"address"`
	EmergencyContact *models.EmergencyContact `json:"emergencyContact"`
	MedicalHistory   *models.MedicalHistory   `json:"medicalHistory"`
	BillAmount       *float64                 `json:"billAmount"`
	BillPaid         *bool                    `json:"billPaid"`
}

// Fields lists the request field names present in the patch
func (p PatientPatch) Fields() []string {
	var fields []string
	add := func(present bool, name string) {
		if present {
			fields = append(fields, name)
		}
	}
	add(p.Name != nil, FieldName)
	add(p.Email != nil, FieldEmail)
	add(p.Phone != nil, FieldPhone)
	add(p.DateOfBirth != nil, FieldDateOfBirth)
	add(p.Gender != nil, FieldGender)
	add(p.BloodGroup != nil, FieldBloodGroup)
	add(p.Address != nil, FieldAddress)
	add(p.EmergencyContact != nil, FieldEmergencyContact)
	add(p.MedicalHistory != nil, FieldMedicalHistory)
	add(p.BillAmount != nil, FieldBillAmount)
	add(p.BillPaid != nil, FieldBillPaid)
	return fields
}

// patientColumns maps request fields to the table columns they occupy
var patientColumns = map[string][]string{
	FieldName:             {"name"},
	FieldEmail:            {"email"},
	FieldPhone:            {"phone"},
	FieldDateOfBirth:      {"date_of_birth"},
	FieldGender:           {"gender"},
	FieldBloodGroup:       {"blood_group"},
	FieldAddress:          {"address_street", "address_city", "address_state", "address_pincode"},
	FieldEmergencyContact: {"emergency_contact_name", "emergency_contact_phone", "emergency_contact_relation"},
	FieldMedicalHistory:   {"medical_history"},
	FieldBillAmount:       {"bill_amount"},
	FieldBillPaid:         {"bill_paid"},
}

type PatientService struct {
	patients PatientStore
	ids      *IdentifierService
	audit    AuditStore
	policy   FieldPolicy
	log      *logrus.Entry
	now      func() time.Time
}

func NewPatientService(
	patients PatientStore,
	ids *IdentifierService,
	audit AuditStore,
	policy FieldPolicy,
	log *logger.Logger,
) *PatientService {
	return &PatientService{
		patients: patients,
		ids:      ids,
		audit:    audit,
		policy:   policy,
		log:      log.WithComponent("patient_service"),
		now:      time.Now,
	}
}

// RegisterPatient validates input, reserves the next MRN and inserts the
// patient. The MRN is assigned before the row becomes visible.
func (s *PatientService) RegisterPatient(ctx context.Context, actor Actor, input PatientInput) (*models.Patient, error) {
	if err := RequireRole(actor, PatientRegistrarRoles...); err != nil {
		return nil, err
	}

	normalizePatientInput(&input)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	dob, err := ParseCalendarDate(input.DateOfBirth, time.UTC)
	if err != nil {
		return nil, err
	}

	mrn, err := s.ids.Next(ctx, PatientMRNSequence)
	if err != nil {
		return nil, err
	}

	patient := &models.Patient{
		MRN:              mrn,
		Name:             input.Name,
		Email:            input.Email,
		Phone:            input.Phone,
		DateOfBirth:      dob,
		Gender:           input.Gender,
		BloodGroup:       input.BloodGroup,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		MedicalHistory:   input.MedicalHistory,
		BillAmount:       input.BillAmount,
		BillPaid:         input.BillPaid,
	}

	if err := s.patients.CreatePatient(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: MRN %s is already taken", ErrConflict, mrn)
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	monitoring.PatientsRegistered.Inc()
	recordAudit(ctx, s.audit, s.log, newAuditEntry(actor.UserID, "patient_register", models.EntityPatient, patient.ID,
		fmt.Sprintf("Registered patient %s (%s)", patient.Name, patient.MRN)))

	return patient, nil
}

// GetPatient retrieves a patient by identity
func (s *PatientService) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	patient, err := s.patients.GetPatientByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, notFoundError("patient")
		}
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	return patient, nil
}

// GetAllPatients lists every patient, newest first
func (s *PatientService) GetAllPatients(ctx context.Context) ([]models.Patient, error) {
	patients, err := s.patients.GetAllPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patients: %w", err)
	}
	return patients, nil
}

// SearchPatients returns patients whose MRN or name contains query,
// ignoring case. Order is whatever the store yields.
func (s *PatientService) SearchPatients(ctx context.Context, query string) ([]models.Patient, error) {
	patients, err := s.patients.SearchPatients(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, nil
}

// UpdatePatient applies a partial update. The field policy is checked before
// anything is read or written; validation runs on the merged record.
func (s *PatientService) UpdatePatient(ctx context.Context, actor Actor, id string, patch PatientPatch) (*models.Patient, error) {
	fields := patch.Fields()
	if err := s.policy.Check(actor.Role, fields); err != nil {
		return nil, err
	}

	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return patient, nil
	}

	if err := applyPatch(patient, patch); err != nil {
		return nil, err
	}
	if err := validateStruct(inputFromPatient(patient)); err != nil {
		return nil, err
	}

	patient.UpdatedAt = s.now().UTC()
	columns := []string{"updated_at"}
	for _, field := range fields {
		columns = append(columns, patientColumns[field]...)
	}

	if err := s.patients.UpdatePatientColumns(ctx, patient, columns); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"patient_id": patient.ID,
		"user_id":    actor.UserID,
		"role":       actor.Role,
		"fields":     fields,
	}).Debug("Patient updated")

	return s.GetPatient(ctx, id)
}

// ToggleBillPaid flips billPaid through the regular update path
func (s *PatientService) ToggleBillPaid(ctx context.Context, actor Actor, id string) (*models.Patient, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	paid := !patient.BillPaid
	return s.UpdatePatient(ctx, actor, id, PatientPatch{BillPaid: &paid})
}

// CountPendingBills counts patients whose billPaid is not exactly true.
// Patients with a zero billAmount are included.
func (s *PatientService) CountPendingBills(ctx context.Context) (int64, error) {
	count, err := s.patients.CountPendingBills(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending bills: %w", err)
	}
	return count, nil
}

// GetBillingSummary reports paid and unpaid totals with a recent sample
func (s *PatientService) GetBillingSummary(ctx context.Context, actor Actor) (*models.BillingSummary, error) {
	if err := RequireRole(actor, BillingAuditorRoles...); err != nil {
		return nil, err
	}

	total, err := s.patients.CountPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	paid, err := s.patients.CountPaidBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count paid bills: %w", err)
	}
	unpaid, err := s.CountPendingBills(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.patients.GetRecentPatients(ctx, recentPatientsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent patients: %w", err)
	}

	return &models.BillingSummary{
		Total:  total,
		Paid:   paid,
		Unpaid: unpaid,
		Recent: recent,
	}, nil
}

func normalizePatientInput(input *PatientInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
}

func applyPatch(patient *models.Patient, patch PatientPatch) error {
	if patch.Name != nil {
		patient.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		patient.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Phone != nil {
		patient.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.DateOfBirth != nil {
		dob, err := ParseCalendarDate(*patch.DateOfBirth, time.UTC)
		if err != nil {
			return err
		}
		patient.DateOfBirth = dob
	}
	if patch.Gender != nil {
		patient.Gender = *patch.Gender
	}
	if patch.BloodGroup != nil {
		patient.BloodGroup = *patch.BloodGroup
	}
	if patch.Address != nil {
		patient.Address = *patch.Address
	}
	if patch.EmergencyContact != nil {
		patient.EmergencyContact = *patch.EmergencyContact
	}
	if patch.MedicalHistory != nil {
		patient.MedicalHistory = *patch.MedicalHistory
	}
	if patch.BillAmount != nil {
		patient.BillAmount = *patch.BillAmount
	}
	if patch.BillPaid != nil {
		patient.BillPaid = *patch.BillPaid
	}
	return nil
}

// inputFromPatient rebuilds the registration view of a stored patient so
// updates are held to the same rules as registration
func inputFromPatient(p *models.Patient) PatientInput {
	return PatientInput{
		Name:             p.Name,
		Email:            p.Email,
		Phone:            p.Phone,
		DateOfBirth:      p.DateOfBirth.Format(CalendarDayLayout),
		Gender:           p.Gender,
		BloodGroup:       p.BloodGroup,
		Address:          p.Address,
		EmergencyContact: p.EmergencyContact,
		MedicalHistory:   p.MedicalHistory,
		BillAmount:       p.BillAmount,
		BillPaid:         p.BillPaid,
	}
}
