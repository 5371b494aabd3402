package repository

import (
	"context"
	"strings"

	"hospital-management-backend/internal/models"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// CreatePatient inserts a patient whose MRN is already assigned
func (r *PatientRepository) CreatePatient(ctx context.Context, patient *models.Patient) error {
	return translate(r.db.WithContext(ctx).Create(patient).Error)
}

// GetPatientByID retrieves a patient by its identity
func (r *PatientRepository) GetPatientByID(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		return nil, translate(err)
	}
	return &patient, nil
}

// GetPatientsByIDs retrieves every patient whose identity is in ids
func (r *PatientRepository) GetPatientsByIDs(ctx context.Context, ids []string) ([]models.Patient, error) {
	var patients []models.Patient
	if len(ids) == 0 {
		return patients, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&patients).Error
	return patients, err
}

// GetAllPatients retrieves all patients, newest first
func (r *PatientRepository) GetAllPatients(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&patients).Error
	return patients, err
}

// GetRecentPatients retrieves the limit most recently registered patients
func (r *PatientRepository) GetRecentPatients(ctx context.Context, limit int) ([]models.Patient, error) {
	var patients []models.Patient
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&patients).Error
	return patients, err
}

// SearchPatients matches query as a case-insensitive substring of MRN or name.
// Each patient appears once even when both columns match.
func (r *PatientRepository) SearchPatients(ctx context.Context, query string) ([]models.Patient, error) {
	var patients []models.Patient
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(mrn) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern).
		Find(&patients).Error
	return patients, err
}

// UpdatePatientColumns writes the listed columns of patient, zero values included
func (r *PatientRepository) UpdatePatientColumns(ctx context.Context, patient *models.Patient, columns []string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Patient{ID: patient.ID}).
		Select(columns).
		Updates(patient)
	return translate(result.Error)
}

// CountPatients returns the total number of patients
func (r *PatientRepository) CountPatients(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).Count(&count).Error
	return count, err
}

// CountPendingBills counts patients whose bill_paid is not exactly true, NULL included
func (r *PatientRepository) CountPendingBills(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("bill_paid IS NOT TRUE").
		Count(&count).Error
	return count, err
}

// CountPaidBills counts patients whose bill_paid is true
func (r *PatientRepository) CountPaidBills(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("bill_paid = ?", true).
		Count(&count).Error
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
