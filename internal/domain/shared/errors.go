package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across bounded contexts. Context-specific failures
// (over-payment, quality gate refusals) define their own codes next to the
// aggregate that raises them.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeIllegalTransition   = "ILLEGAL_TRANSITION"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeInvalidCurrency     = "INVALID_CURRENCY"
	CodeSequenceExhausted   = "SEQUENCE_EXHAUSTED"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrSequenceExhausted   = NewDomainError(CodeSequenceExhausted, "Document number sequence exhausted for this year")
)
