package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes. The pipeline distinguishes where a failure
// happened so callers can word their messaging accurately: loading the
// source file, talking to the embedding backend, touching the vector store,
// or generating the final answer.
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeLoad          = "LOAD_ERROR"
	ErrCodeEmbedding     = "EMBEDDING_ERROR"
	ErrCodeIndex         = "INDEX_ERROR"
	ErrCodeGeneration    = "GENERATION_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidChunkSize     = NewDomainError(ErrCodeValidation, "chunk size must be positive")
	ErrOverlapTooLarge      = NewDomainError(ErrCodeValidation, "overlap must be smaller than chunk size")
	ErrEmptyQuery           = NewDomainError(ErrCodeValidation, "query cannot be empty")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// IsCode reports whether err is (or wraps) a DomainError with the given code.
func IsCode(err error, code string) bool {
	for err != nil {
		if de, ok := err.(*DomainError); ok {
			return de.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// LoadError tags a publication-loading failure.
func LoadError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeLoad, message, err)
}

// EmbeddingError tags an embedding-backend failure.
func EmbeddingError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeEmbedding, message, err)
}

// IndexError tags a vector-store failure.
func IndexError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeIndex, message, err)
}

// GenerationError tags an LLM completion failure.
func GenerationError(message string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeGeneration, message, err)
}
