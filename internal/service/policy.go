package service

import (
	"fmt"
	"strings"

	"hospital-management-backend/internal/models"

	"github.com/samber/lo"
)

// Patient fields as named in request bodies
const (
	FieldName             = "name"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldDateOfBirth      = "dateOfBirth"
	FieldGender           = "gender"
	FieldBloodGroup       = "bloodGroup"
	FieldAddress          = "address"
	FieldEmergencyContact = "emergencyContact"
	FieldMedicalHistory   = "medicalHistory"
	FieldBillAmount       = "billAmount"
	FieldBillPaid         = "billPaid"
)

// PatientFields lists every mutable patient field. mrn and id are never mutable.
var PatientFields = []string{
	FieldName, FieldEmail, FieldPhone, FieldDateOfBirth, FieldGender, FieldBloodGroup,
	FieldAddress, FieldEmergencyContact, FieldMedicalHistory, FieldBillAmount, FieldBillPaid,
}

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID string
	Role   string
}

// SystemActor is used by operator tooling that runs with Admin capabilities
var SystemActor = Actor{UserID: "", Role: models.RoleAdmin}

// FieldPolicy maps a role to the set of patient fields it may modify
type FieldPolicy map[string][]string

// DefaultFieldPolicy is the capability table applied to patient updates.
// Roles missing from the table may not modify any field.
var DefaultFieldPolicy = FieldPolicy{
	models.RoleAdmin:        PatientFields,
	models.RoleReceptionist: PatientFields,
	models.RoleDoctor:       {FieldMedicalHistory},
}

// Check rejects fields the role may not modify, naming all of them
func (p FieldPolicy) Check(role string, fields []string) error {
	denied := lo.Without(fields, p[role]...)
	if len(denied) == 0 {
		return nil
	}
	return fmt.Errorf("%w: role %q may not modify %s", ErrForbidden, role, strings.Join(denied, ", "))
}

// Roles allowed to perform whole operations
var (
	PatientRegistrarRoles = []string{models.RoleAdmin, models.RoleReceptionist}
	DoctorCreatorRoles    = []string{models.RoleAdmin, models.RoleReceptionist}
	BillingAuditorRoles   = []string{models.RoleAdmin}
	UserCreatorRoles      = []string{models.RoleAdmin}
)

// RequireRole fails unless actor holds one of allowed
func RequireRole(actor Actor, allowed ...string) error {
	if lo.Contains(allowed, actor.Role) {
		return nil
	}
	return fmt.Errorf("%w: requires one of roles %s", ErrForbidden, strings.Join(allowed, ", "))
}
