package routing

import (
	"fmt"
	"net/url"
)

// ValidatorFunc represents a validation function
type ValidatorFunc func() error

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidateRequired checks if a field is not empty
func ValidateRequired(value, fieldName string) error {
	if value == "" {
		return ValidationError{
			Field:   fieldName,
			Message: "is required",
			Value:   value,
		}
	}
	return nil
}

// ValidateInSet checks if a value is in a set of valid values
func ValidateInSet(value string, validValues []string, fieldName string) error {
	if value == "" {
		return nil // Allow empty values unless required
	}

	for _, valid := range validValues {
		if value == valid {
			return nil
		}
	}

	return ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("must be one of: %v", validValues),
		Value:   value,
	}
}

// ValidateConditional validates a field only if a condition is true
func ValidateConditional(condition bool, validator ValidatorFunc) error {
	if condition {
		return validator()
	}
	return nil
}

// RunValidators runs multiple validators and returns the first error
func RunValidators(validators ...ValidatorFunc) error {
	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// CopyValues creates a deep copy of a url.Values mapping
func CopyValues(original url.Values) url.Values {
	values := make(url.Values, len(original))
	for k, v := range original {
		values[k] = append([]string(nil), v...)
	}
	return values
}

// CopyParams creates a shallow copy of a params mapping
func CopyParams(original Params) Params {
	params := make(Params, len(original))
	for k, v := range original {
		params[k] = v
	}
	return params
}

// CopyStringMap creates a deep copy of a string map
func CopyStringMap(original map[string]string) map[string]string {
	if original == nil {
		return nil
	}

	copied := make(map[string]string, len(original))
	for k, v := range original {
		copied[k] = v
	}
	return copied
}

// CopyInt64Map creates a deep copy of an int64 map
func CopyInt64Map(original map[string]int64) map[string]int64 {
	if original == nil {
		return nil
	}

	copied := make(map[string]int64, len(original))
	for k, v := range original {
		copied[k] = v
	}
	return copied
}

// SliceContains checks if a slice contains a value
func SliceContains[T comparable](slice []T, value T) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// WrapErrorf wraps an error with formatted additional context
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	context := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", context, err)
}
