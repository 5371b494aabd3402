package models

import "time"

// Audited entity kinds
const (
	EntityUser        = "user"
	EntityPatient     = "patient"
	EntityDoctor      = "doctor"
	EntityAppointment = "appointment"
)

// AuditLog is one row of the creation trail. Patient field updates are not
// recorded, so there is no billing history.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   *string   `gorm:"size:36;index" json:"actorId"`
	Action    string    `gorm:"size:100;not null" json:"action"`
	Entity    string    `gorm:"size:30;not null;index:idx_audit_entity" json:"entity"`
	EntityID  string    `gorm:"size:36;index:idx_audit_entity" json:"entityId"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
