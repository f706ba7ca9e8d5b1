package query

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a record lacks the field a filter or sort
	// stage reads.
	ErrMissingField = errors.New("field missing from record")
	// ErrInvalidPagination is returned for a limit or offset that is not a
	// non-negative integer.
	ErrInvalidPagination = errors.New("invalid pagination parameter")
	// ErrInvalidSort is returned for a sort parameter without a field name.
	ErrInvalidSort = errors.New("invalid sort parameter")
	// ErrInvalidPattern marks a filter pattern that could not be compiled. The
	// filter stage recovers from it by matching nothing.
	ErrInvalidPattern = errors.New("invalid filter pattern")
)

// MissingFieldError reports the first record, by position in the working
// sequence, that lacks Field.
type MissingFieldError struct {
	Stage string
	Field string
	Index int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: record %d has no value for field %q", e.Stage, e.Index, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// InvalidPaginationParamError names the offending parameter.
type InvalidPaginationParamError struct {
	Param string
	Value string
	Err   error
}

func (e *InvalidPaginationParamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s=%q is not a non-negative integer: %v", e.Param, e.Value, e.Err)
	}
	return fmt.Sprintf("%s=%q is not a non-negative integer", e.Param, e.Value)
}

func (e *InvalidPaginationParamError) Is(target error) bool { return target == ErrInvalidPagination }

func (e *InvalidPaginationParamError) Unwrap() error { return e.Err }

// InvalidPatternError wraps the compile failure of a filter pattern.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Is(target error) bool { return target == ErrInvalidPattern }

func (e *InvalidPatternError) Unwrap() error { return e.Err }
