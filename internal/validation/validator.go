// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// Package validation provides struct validation using go-playground/validator
// v10 through a thread-safe singleton, translating failures into the
// field-keyed error maps the API surfaces next to form fields.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldErrors maps a field name to its user-facing validation message.
// Handlers return it as the details of a 400 response so each message can
// render inline next to its field.
type FieldErrors map[string]string

// Error implements the error interface with a combined message.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(fe))
	for field, msg := range fe {
		messages = append(messages, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a struct against its validate tags. Returns nil
// on success, or FieldErrors keyed by the failing field names.
func ValidateStruct(s interface{}) FieldErrors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return FieldErrors{"_": err.Error()}
	}

	fieldErrors := make(FieldErrors, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fieldErrors[fieldName(fieldErr)] = message(fieldErr)
	}
	return fieldErrors
}

func fieldName(fe validator.FieldError) string {
	// Lower-case the first rune so keys match the JSON field casing used
	// by the form payloads.
	name := fe.Field()
	if name == "" {
		return "_"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "url":
		return "Must be a valid URL"
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("Invalid value (%s)", fe.Tag())
	}
}
