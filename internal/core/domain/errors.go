package domain

import (
	"errors"
	"sort"
	"strings"
)

// Error kinds. Every domain error matches exactly one of these with errors.Is.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// kindError is a named error that belongs to one error kind
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func notFound(msg string) error { return &kindError{kind: ErrNotFound, msg: msg} }
func conflict(msg string) error { return &kindError{kind: ErrConflict, msg: msg} }

// Not found errors
var (
	ErrBookNotFound     = notFound("book not found")
	ErrAuthorNotFound   = notFound("author not found")
	ErrCategoryNotFound = notFound("category not found")
	ErrMemberNotFound   = notFound("member not found")
	ErrLoanNotFound     = notFound("loan not found")
)

// Loan errors
var (
	ErrBookUnavailable     = conflict("book is not available for loan")
	ErrBookAlreadyLent     = conflict("book is already lent to another member")
	ErrQuotaExceeded       = conflict("member has reached the maximum number of active loans")
	ErrMemberInactive      = conflict("member is not active")
	ErrLoanAlreadyReturned = conflict("loan has already been returned")
	ErrLoanOverdue         = conflict("loan is already overdue and cannot be extended")
)

// Directory and catalog errors
var (
	ErrCategoryInUse         = conflict("category in use: it still has books")
	ErrAuthorInUse           = conflict("author in use: it still has books")
	ErrMemberHasActiveLoans  = conflict("member still has active loans")
	ErrBookHasActiveLoan     = conflict("book is currently lent")
	ErrDuplicateISBN         = conflict("a book with this ISBN already exists")
	ErrDuplicateCategoryName = conflict("a category with this name already exists")
	ErrDuplicateEmail        = conflict("a member with this email already exists")
	ErrDuplicateKey          = conflict("duplicate entry")
)

// ValidationError reports invalid input per field
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a validation error from a field map
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// NewFieldError creates a validation error for a single field
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
