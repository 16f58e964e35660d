package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

const defaultPhoneRegion = "FR"

// ValidationError carries field-keyed messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps the struct validator with the custom rules the lead
// payloads need.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the custom rules and returns a ready validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their wire names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return field.Name
		}
		return tag
	})

	// plausible_phone accepts any string phonenumbers can parse as a
	// possible number, defaulting to the French region for national formats.
	_ = v.RegisterValidation("plausible_phone", func(fl validator.FieldLevel) bool {
		raw := strings.TrimSpace(fl.Field().String())
		if raw == "" {
			return true
		}
		number, err := phonenumbers.Parse(raw, defaultPhoneRegion)
		if err != nil {
			return false
		}
		return phonenumbers.IsPossibleNumber(number)
	})

	return &Validator{validate: v}
}

// Check validates the payload and converts tag failures into a field-keyed
// ValidationError.
func (v *Validator) Check(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validate payload: %w", err)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = ruleMessage(fe)
	}
	return ValidationError{Fields: fields}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "plausible_phone":
		return "must be a plausible phone number"
	case "numeric":
		return "must contain only digits"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
