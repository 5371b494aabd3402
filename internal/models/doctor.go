package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Weekdays lists the accepted schedule day values
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ScheduleEntry is one weekly consultation window. Overlaps are not checked.
type ScheduleEntry struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Doctor represents the doctors table
type Doctor struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	DoctorID        string          `gorm:"column:doctor_id;size:20;not null;uniqueIndex" json:"doctorId"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Specialization  string          `gorm:"size:255;not null" json:"specialization"`
	Qualification   string          `gorm:"size:255" json:"qualification,omitempty"`
	Email           string          `gorm:"size:255" json:"email,omitempty"`
	Phone           string          `gorm:"size:50;not null" json:"phone"`
	ConsultationFee float64         `gorm:"not null" json:"consultationFee"`
	Schedule        []ScheduleEntry `gorm:"type:json;serializer:json" json:"schedule"`
	IsAvailable     bool            `gorm:"not null" json:"isAvailable"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for Doctor model
func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// DoctorSummary is the slice of a doctor embedded in appointment listings
type DoctorSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}
