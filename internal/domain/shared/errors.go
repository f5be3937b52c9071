package shared

// DomainError represents a domain-level error. Details carries structured
// context (item id, requested vs available quantity, current status) so the
// caller can render an actionable message without the core formatting prose.
type DomainError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code. This lets
// callers match structured errors against the sentinels below with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error with an added detail entry
func (e *DomainError) WithDetail(key, value string) *DomainError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes for the error taxonomy
const (
	CodeNotFound               = "NOT_FOUND"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeExceedsAllocated       = "EXCEEDS_ALLOCATED"
	CodeValidationError        = "VALIDATION_ERROR"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrInvalidStateTransition = NewDomainError(CodeInvalidStateTransition, "Operation not allowed in current state")
	ErrExceedsAllocated       = NewDomainError(CodeExceedsAllocated, "Quantity exceeds remaining allocation")
	ErrValidation             = NewDomainError(CodeValidationError, "Invalid input provided")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrConcurrencyConflict    = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidationError, message)
}
