package service

import (
	"reflect"
	"strings"

	"hospital-management-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// enumTags are validation tags backed by the value lists in models
var enumTags = map[string][]string{
	"staffrole":  models.Roles,
	"bloodgroup": models.BloodGroups,
	"weekday":    models.Weekdays,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	for tag, values := range enumTags {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return lo.Contains(values, fl.Field().String())
		})
	}
	return v
}

func validateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return describeValidation(err)
	}
	return nil
}
