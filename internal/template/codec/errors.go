package codec

import (
	"fmt"

	"github.com/tacogips/rcsync/internal/template/model"
)

// MalformedValueError reports a parameter file that cannot be decoded, or a
// JSON-typed value string that is not valid JSON.
type MalformedValueError struct {
	// Path is the file the content came from (set by the caller when known).
	Path string
	// Format is the format the content was decoded with.
	Format model.Format
	// Slot names the value location inside the parameter, if the failure is slot specific.
	Slot string
	// Message is the error message.
	Message string
	// Cause is the underlying parse error.
	Cause error
}

// Error implements the error interface.
func (e *MalformedValueError) Error() string {
	msg := e.Message
	if e.Slot != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Slot)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("malformed %s parameter %s: %v", e.Format, msg, e.Cause)
	}
	return fmt.Sprintf("malformed %s parameter %s", e.Format, msg)
}

// Unwrap returns the underlying cause error.
func (e *MalformedValueError) Unwrap() error {
	return e.Cause
}

// WithPath returns a copy of the error annotated with the file path.
func (e *MalformedValueError) WithPath(path string) *MalformedValueError {
	out := *e
	out.Path = path
	return &out
}

func newMalformedError(format model.Format, message string, cause error) *MalformedValueError {
	return &MalformedValueError{
		Format:  format,
		Message: message,
		Cause:   cause,
	}
}

func newMalformedSlotError(format model.Format, slot Slot, cause error) *MalformedValueError {
	return &MalformedValueError{
		Format:  format,
		Slot:    slot.String(),
		Message: "JSON-typed value is not valid JSON",
		Cause:   cause,
	}
}
