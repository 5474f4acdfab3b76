package services

import (
	"errors"

	"library-api/internal/core/domain"
	"library-api/internal/pkg/dateonly"
	"library-api/internal/pkg/validation"

	"gorm.io/gorm"
)

// validateInput runs struct tag validation and returns a *domain.ValidationError on failure
func validateInput(input any) error {
	if errs := validation.Validate(input); errs != nil {
		return domain.NewValidationError(errs)
	}
	return nil
}

// notFoundAs replaces gorm.ErrRecordNotFound with the given domain error
func notFoundAs(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

// checkNotFuture adds a field error when d is after today
func checkNotFuture(fields map[string]string, field string, d *dateonly.Date, today dateonly.Date) {
	if d != nil && d.After(today) {
		fields[field] = "Date must not be in the future"
	}
}

// pageOffset converts a 1-based page into a row offset
func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// duplicateAs replaces a store duplicate-key error with a more specific conflict
func duplicateAs(err, specific error) error {
	if errors.Is(err, domain.ErrDuplicateKey) {
		return specific
	}
	return err
}
