package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrRetrieval is returned when the product store fails during count or fetch
	ErrRetrieval = errors.New("retrieval failed")

	// ErrComputation is returned when normalization, matching or aggregation fails for an item
	ErrComputation = errors.New("computation failed")

	// ErrAttributeNotFound is returned when an attribute name is not a known product attribute
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")
)

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RetrievalError wraps a product store failure with the operation that hit it
type RetrievalError struct {
	Operation string
	Err       error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval error during %s: %v", e.Operation, e.Err)
}

func (e *RetrievalError) Is(target error) bool {
	return target == ErrRetrieval
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// NewRetrievalError creates a new RetrievalError
func NewRetrievalError(operation string, err error) *RetrievalError {
	return &RetrievalError{Operation: operation, Err: err}
}

// ComputationError reports a per-item failure that was skipped
type ComputationError struct {
	Item  string
	Cause string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error for item '%s': %s", e.Item, e.Cause)
}

func (e *ComputationError) Is(target error) bool {
	return target == ErrComputation
}

// NewComputationError creates a new ComputationError from a recovered value
func NewComputationError(item string, recovered any) *ComputationError {
	return &ComputationError{Item: item, Cause: fmt.Sprint(recovered)}
}

// AttributeNotFoundError represents an unknown attribute with context
type AttributeNotFoundError struct {
	Attribute string
}

func (e *AttributeNotFoundError) Error() string {
	return fmt.Sprintf("attribute named '%s' not found", e.Attribute)
}

func (e *AttributeNotFoundError) Is(target error) bool {
	return target == ErrAttributeNotFound
}

// NewAttributeNotFoundError creates a new AttributeNotFoundError
func NewAttributeNotFoundError(attribute string) *AttributeNotFoundError {
	return &AttributeNotFoundError{Attribute: attribute}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}
