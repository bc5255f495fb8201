package engine

import "fmt"

// ValidationError reports bad caller input. It is always recoverable by the
// caller correcting the offending field and resubmitting.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// UnknownLocationError reports a location that does not resolve in the
// knowledge base.
type UnknownLocationError struct {
	Location string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown location %q", e.Location)
}

// UnknownRoofTypeError reports a roof type outside the recognized set.
type UnknownRoofTypeError struct {
	RoofType string
}

func (e *UnknownRoofTypeError) Error() string {
	return fmt.Sprintf("unknown roof type %q", e.RoofType)
}

// IsValidation reports whether err is caller-correctable input error.
func IsValidation(err error) bool {
	switch err.(type) {
	case *ValidationError, *UnknownLocationError, *UnknownRoofTypeError:
		return true
	}
	return false
}
