package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	// Test with field
	err := NewValidationError("page", "must be >= 1")

	expectedMsg := "validation error for field 'page': must be >= 1"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}

	// Test without field
	err2 := NewValidationError("", "malformed body")
	expectedMsg2 := "validation error: malformed body"
	if err2.Error() != expectedMsg2 {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg2, err2.Error())
	}
}

func TestRetrievalError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRetrievalError("count", cause)

	expectedMsg := "retrieval error during count: connection refused"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrRetrieval) {
		t.Error("Expected error to match ErrRetrieval sentinel")
	}

	// The cause stays reachable through Unwrap
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}

	if errors.Is(err, ErrInvalidInput) {
		t.Error("Error should not match ErrInvalidInput")
	}
}

func TestComputationError(t *testing.T) {
	err := NewComputationError("product 42", "index out of range")

	expectedMsg := "computation error for item 'product 42': index out of range"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrComputation) {
		t.Error("Expected error to match ErrComputation sentinel")
	}
}

func TestAttributeNotFoundError(t *testing.T) {
	err := NewAttributeNotFoundError("产地")

	expectedMsg := "attribute named '产地' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrAttributeNotFound) {
		t.Error("Expected error to match ErrAttributeNotFound sentinel")
	}
}

func TestWrappedErrors(t *testing.T) {
	err := fmt.Errorf("search failed: %w", NewValidationError("page_size", "must be >= 1"))

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected wrapped error to match ErrInvalidInput sentinel")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatal("Expected errors.As to find ValidationError")
	}
	if validationErr.Field != "page_size" {
		t.Errorf("Expected field 'page_size', got '%s'", validationErr.Field)
	}
}

func TestJobNotFoundError(t *testing.T) {
	err := NewJobNotFoundError("job-1")

	expectedMsg := "job with ID 'job-1' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrJobNotFound) {
		t.Error("Expected error to match ErrJobNotFound sentinel")
	}
	if errors.Is(err, ErrAttributeNotFound) {
		t.Error("Expected error not to match ErrAttributeNotFound sentinel")
	}
}
