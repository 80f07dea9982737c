package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a payment row. PENDING exists only while a deferred approval is
// outstanding; APPROVED and CANCELED are final. Rows are never deleted —
// cancellation is a status change, not a row removal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusCanceled Status = "CANCELED"
)

// StatusFrom parses a wire value into a Status.
func StatusFrom(v string) (Status, bool) {
	switch Status(v) {
	case StatusPending, StatusApproved, StatusCanceled:
		return Status(v), true
	}
	return "", false
}

// Payment is an immutable snapshot of one settlement. The fee fields hold
// the values computed at creation time and are never recomputed from a
// policy later; only the approval fields of a PENDING row may change.
type Payment struct {
	ID             int64           `json:"id"`
	PartnerID      int64           `json:"partner_id"`
	Amount         decimal.Decimal `json:"amount"`
	AppliedFeeRate decimal.Decimal `json:"applied_fee_rate"`
	FeeAmount      decimal.Decimal `json:"fee_amount"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	CardBin        *string         `json:"card_bin,omitempty"`
	CardLast4      *string         `json:"card_last4,omitempty"`
	ApprovalCode   string          `json:"approval_code"`
	ApprovedAt     time.Time       `json:"approved_at"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Filter is the conjunction of optional predicates shared by the page and
// aggregate queries.
type Filter struct {
	PartnerID   *int64
	Status      *Status
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Summary aggregates the whole matching set of a filter, independent of
// pagination.
type Summary struct {
	Count          int64           `json:"count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalNetAmount decimal.Decimal `json:"total_net_amount"`
}

// CursorKey is the composite sort key a page resumes from. createdAt alone
// is not unique under concurrent inserts; id breaks ties for a total order.
type CursorKey struct {
	CreatedAt time.Time
	ID        int64
}
