package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentBooked    = "booked"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment represents the appointments table.
// PatientID and DoctorID are checked for existence when booking only.
type Appointment struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	PatientID       string    `gorm:"size:36;not null;index" json:"patient"`
	DoctorID        string    `gorm:"size:36;not null;index" json:"doctor"`
	AppointmentDate time.Time `gorm:"not null;index" json:"appointmentDate"`
	TimeSlot        string    `gorm:"size:50" json:"timeSlot,omitempty"`
	Reason          string    `gorm:"type:text" json:"reason,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	Status          string    `gorm:"type:enum('booked','completed','cancelled');default:'booked'" json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AppointmentDetails is an appointment with its patient and doctor populated
type AppointmentDetails struct {
	ID              string          `json:"id"`
	Patient         *PatientSummary `json:"patient"`
	Doctor          *DoctorSummary  `json:"doctor"`
	AppointmentDate time.Time       `json:"appointmentDate"`
	TimeSlot        string          `json:"timeSlot,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
