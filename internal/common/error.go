package common

// Error is a domain failure with a message that is safe to show to a client.
// It unwraps to its Kind so callers can match on the category.
type Error struct {
	Kind    error
	Message string
}

// NewError builds an Error of the given category.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}
