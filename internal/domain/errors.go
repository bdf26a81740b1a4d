package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Session and scoring specific errors
	CodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
	CodeSessionClosed    ErrorCode = "SESSION_CLOSED"
	CodeStageMismatch    ErrorCode = "STAGE_MISMATCH"
	CodeNoPurchaseFound  ErrorCode = "NO_PURCHASE_FOUND"
	CodeCatalogGap       ErrorCode = "CATALOG_GAP"
	CodeSessionConflict  ErrorCode = "SESSION_CONFLICT"
	CodeQuestionNotFound ErrorCode = "QUESTION_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Helper constructors for the error taxonomy surfaced to the request layer.

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Session not found: %s", sessionID), nil)
}

func NewSessionClosedError(sessionID string) *DomainError {
	return NewError(CodeSessionClosed, fmt.Sprintf("Session already ended: %s", sessionID), nil)
}

func NewStageMismatchError(submitted, current Stage) *DomainError {
	return NewError(CodeStageMismatch,
		fmt.Sprintf("Submitted stage %s does not match session stage %s", submitted, current), nil)
}

func NewNoPurchaseFoundError(subjectID string) *DomainError {
	return NewError(CodeNoPurchaseFound, fmt.Sprintf("No eligible purchase for subject: %s", subjectID), nil)
}

// NewCatalogGapError marks a missing catalog row that would corrupt the
// canonical ordering if silently substituted. Always fatal to the caller.
func NewCatalogGapError(stage Stage) *DomainError {
	return NewError(CodeCatalogGap, fmt.Sprintf("No catalog entry found for stage: %s", stage), nil)
}

func NewSessionConflictError(sessionID string) *DomainError {
	return NewError(CodeSessionConflict,
		fmt.Sprintf("Session %s was modified concurrently, retry the submission", sessionID), nil)
}

func NewQuestionNotFoundError(code string) *DomainError {
	return NewError(CodeQuestionNotFound, fmt.Sprintf("Question not found: %s", code), nil)
}
