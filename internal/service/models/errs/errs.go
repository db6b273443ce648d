package errs

// ValidationError reports input that violates a business precondition.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a new ValidationError.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFound creates a new NotFoundError.
func NewNotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// StorageError wraps an unexpected failure from the persistence layer.
type StorageError struct {
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorage creates a new StorageError wrapping err.
func NewStorage(message string, err error) *StorageError {
	return &StorageError{Message: message, Err: err}
}
