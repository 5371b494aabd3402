package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error categories surfaced to callers. Services wrap them with detail,
// handlers map them to status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(what string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, what)
}

// Message returns the human-readable part of a wrapped service error
func Message(err error) string {
	for _, sentinel := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrForbidden, ErrUnauthorized} {
		if errors.Is(err, sentinel) {
			return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
		}
	}
	return err.Error()
}

// describeValidation turns validator errors into one readable sentence
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return validationError("%v", err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			problems = append(problems, fe.Field()+" is required")
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "staffrole", "bloodgroup", "weekday":
			problems = append(problems, fmt.Sprintf("%s must be one of [%s]", fe.Field(), strings.Join(enumTags[fe.Tag()], ", ")))
		case "gte":
			problems = append(problems, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			problems = append(problems, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return validationError("%s", strings.Join(problems, "; "))
}
