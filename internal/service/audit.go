package service

import (
	"context"

	"hospital-management-backend/internal/models"

	"github.com/sirupsen/logrus"
)

func newAuditEntry(actorID, action, entity, entityID, details string) *models.AuditLog {
	entry := &models.AuditLog{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	return entry
}

// recordAudit writes entry and only logs a failure; the audited operation
// has already been committed.
func recordAudit(ctx context.Context, store AuditStore, log *logrus.Entry, entry *models.AuditLog) {
	if err := store.RecordAudit(ctx, entry); err != nil {
		log.WithError(err).WithField("action", entry.Action).Warn("Failed to write audit log")
	}
}
