package gateway

import "errors"

var (
	// ErrUnavailable indicates the gateway host is unreachable.
	ErrUnavailable = errors.New("gateway unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("gateway request timed out")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("gateway retry attempts exhausted")
)

// RejectionError is a business-level refusal: the gateway answered, but
// with success=false. The message is the store's own text and is shown
// to the user verbatim.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return "gateway rejected: " + e.Message
}

// IsTransportFailure reports whether err means the request never completed,
// as opposed to a rejection the store decided on.
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRetryExhausted)
}
