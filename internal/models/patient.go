package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// BloodGroups lists the accepted bloodGroup values
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

type Address struct {
	Street  string `gorm:"size:255" json:"street,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`
	State   string `gorm:"size:100" json:"state,omitempty"`
	Pincode string `gorm:"size:20" json:"pincode,omitempty"`
}

type EmergencyContact struct {
	Name     string `gorm:"size:255" json:"name,omitempty"`
	Phone    string `gorm:"size:50" json:"phone,omitempty"`
	Relation string `gorm:"size:100" json:"relation,omitempty"`
}

// MedicalHistory keeps insertion order and duplicates in each list
type MedicalHistory struct {
	Allergies         []string `json:"allergies"`
	ChronicDiseases   []string `json:"chronicDiseases"`
	PreviousSurgeries []string `json:"previousSurgeries"`
}

// Patient represents the patients table
type Patient struct {
	ID               string           `gorm:"primaryKey;size:36" json:"id"`
	MRN              string           `gorm:"column:mrn;size:20;not null;uniqueIndex" json:"mrn"`
	Name             string           `gorm:"size:255;not null;index" json:"name"`
	Email            string           `gorm:"size:255" json:"email,omitempty"`
	Phone            string           `gorm:"size:50;not null" json:"phone"`
	DateOfBirth      time.Time        `gorm:"type:date;not null" json:"dateOfBirth"`
	Gender           string           `gorm:"type:enum('Male','Female','Other');not null" json:"gender"`
	BloodGroup       string           `gorm:"size:3" json:"bloodGroup,omitempty"`
	Address          Address          `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	EmergencyContact EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_contact_" json:"emergencyContact"`
	MedicalHistory   MedicalHistory   `gorm:"type:json;serializer:json" json:"medicalHistory"`
	BillAmount       float64          `gorm:"default:0" json:"billAmount"`
	BillPaid         bool             `gorm:"default:false" json:"billPaid"`
	CreatedAt        time.Time        `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// TableName specifies the table name for Patient model
func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PatientSummary is the slice of a patient embedded in appointment listings
type PatientSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	MRN  string `json:"mrn"`
}

// BillingSummary aggregates billing state across all patients
type BillingSummary struct {
	Total  int64     `json:"total"`
	Paid   int64     `json:"paid"`
	Unpaid int64     `json:"unpaid"`
	Recent []Patient `json:"recent"`
}
