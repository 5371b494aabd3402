package repository

import (
	"context"

	"hospital-management-backend/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecordAudit appends entry to the audit trail
func (r *AuditRepository) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// AuditTrail returns the entries for one entity, oldest first
func (r *AuditRepository) AuditTrail(ctx context.Context, entity, entityID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
