package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrDocumentInvalid = errors.New("document failed validation")
	ErrStorageFailure  = errors.New("storage operation failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeDocumentInvalid = "DOCUMENT_INVALID"
	ErrCodeStorageError    = "STORAGE_ERROR"
	ErrCodeValidationError = "VALIDATION_ERROR"
)

// Wrap common errors with business context
func WrapDocumentInvalid(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeDocumentInvalid,
		detail,
		ErrDocumentInvalid,
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"storage operation failed",
		err,
	)
}

func WrapValidationError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidationError,
		"request validation failed",
		err,
	)
}

// IsStorageError reports whether err is a persistence failure. Callers use
// it to decide whether a computed document can still be served even though
// it was not durably saved.
func IsStorageError(err error) bool {
	var be *BusinessError
	return errors.As(err, &be) && be.Code == ErrCodeStorageError
}
