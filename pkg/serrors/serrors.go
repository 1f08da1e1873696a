package serrors

import "fmt"

// Base is a coded error. Code is a stable machine-readable identifier that
// survives serialization to API envelopes; Message is the human-readable
// default text.
type Base struct {
	Code    string
	Message string
}

func (e *Base) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches two coded errors by Code so that sentinel errors compare
// correctly through wrapping.
func (e *Base) Is(target error) bool {
	t, ok := target.(*Base)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func NewError(code, message string) *Base {
	return &Base{Code: code, Message: message}
}

// ValidationErrors maps field names to human-readable problems, suitable for
// rendering next to form fields or returning in a 422 payload.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(v))
}
