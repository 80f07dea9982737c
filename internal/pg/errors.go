package pg

import (
	"errors"
	"fmt"
)

var (
	// ErrNoGatewayForPartner means no registered provider claims the
	// partner. That is a wiring mistake, not a retryable condition.
	ErrNoGatewayForPartner = errors.New("no payment gateway registered for partner")

	// ErrGatewayTimeout means the provider did not answer within
	// ApproveTimeout. Distinct from an explicit rejection.
	ErrGatewayTimeout = errors.New("payment gateway timed out")
)

// RejectedError is an explicit decline returned by the provider, carrying
// its own error code and a reference id for support correlation.
type RejectedError struct {
	Code        int
	ErrorCode   string
	Message     string
	ReferenceID string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("pg rejected: %s (code=%s ref=%s)", e.Message, e.ErrorCode, e.ReferenceID)
}
