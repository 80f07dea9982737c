package pg

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ApproveTimeout is the hard ceiling on a single approval round-trip.
// A stuck provider must not pin request handlers for longer than this.
const ApproveTimeout = 5 * time.Second

// ApproveRequest carries the card payload forwarded to a provider. The
// settlement flow treats it as opaque; adapters transmit it only inside an
// encrypted envelope and never log or persist the raw fields.
type ApproveRequest struct {
	CardNumber string
	BirthDate  string
	Expiry     string
	Password   string
	Amount     decimal.Decimal
}

// ApproveResult is the provider's answer to a successful approval call.
// Status is either payments status APPROVED or CANCELED as reported by the
// provider; anything else from the wire is normalized to CANCELED.
type ApproveResult struct {
	ApprovalCode string
	ApprovedAt   time.Time
	Status       string
}

const (
	StatusApproved = "APPROVED"
	StatusCanceled = "CANCELED"
)

// Gateway defines a common interface for all payment providers.
type Gateway interface {
	// Supports reports whether this provider authorizes charges for the
	// partner. Pure capability predicate, no side effects.
	Supports(partnerID int64) bool
	Approve(ctx context.Context, req ApproveRequest) (*ApproveResult, error)
}
