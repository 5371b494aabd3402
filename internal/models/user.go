package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin         = "Admin"
	RoleReceptionist  = "Receptionist"
	RoleDoctor        = "Doctor"
	RolePharmacist    = "Pharmacist"
	RoleLabTechnician = "Lab Technician"
)

// Roles lists every role a staff account can hold
var Roles = []string{RoleAdmin, RoleReceptionist, RoleDoctor, RolePharmacist, RoleLabTechnician}

// User represents the users table
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	FullName     string    `gorm:"size:255" json:"fullName,omitempty"`
	Email        string    `gorm:"size:255" json:"email,omitempty"`
	Phone        string    `gorm:"size:50" json:"phone,omitempty"`
	Role         string    `gorm:"type:enum('Admin','Receptionist','Doctor','Pharmacist','Lab Technician');default:'Receptionist'" json:"role"`
	IsActive     bool      `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;size:255;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
