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

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnauthorized       = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrDuplicateNumber    = NewDomainError("DUPLICATE_NUMBER", "Document number is already in use")
	ErrAlreadyInvoiced    = NewDomainError("ALREADY_INVOICED", "An invoice was already generated from this quotation")
	ErrNoConversionRate   = NewDomainError("NO_CONVERSION_RATE", "No conversion rate defined for currency pair")
	ErrStorageUnavailable = NewDomainError("STORAGE_UNAVAILABLE", "Record store is unavailable")
)
