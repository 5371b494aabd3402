package repository

import (
	"context"

	"hospital-management-backend/internal/models"

	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepo(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

// CreateDoctor inserts a doctor whose doctor_id is already assigned
func (r *DoctorRepository) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	return translate(r.db.WithContext(ctx).Create(doctor).Error)
}

// GetDoctorByID retrieves a doctor by its identity
func (r *DoctorRepository) GetDoctorByID(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doctor).Error
	if err != nil {
		return nil, translate(err)
	}
	return &doctor, nil
}

// GetDoctorsByIDs retrieves every doctor whose identity is in ids
func (r *DoctorRepository) GetDoctorsByIDs(ctx context.Context, ids []string) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if len(ids) == 0 {
		return doctors, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&doctors).Error
	return doctors, err
}

// GetAllDoctors retrieves all doctors
func (r *DoctorRepository) GetAllDoctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	err := r.db.WithContext(ctx).Order("doctor_id ASC").Find(&doctors).Error
	return doctors, err
}

// CountDoctors returns the total number of doctors
func (r *DoctorRepository) CountDoctors(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).Count(&count).Error
	return count, err
}
