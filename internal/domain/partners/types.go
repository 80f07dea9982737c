package partners

import (
	"time"

	"github.com/shopspring/decimal"
)

// Partner is a merchant on whose behalf payments are recorded. Only the
// active flag changes after creation.
type Partner struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Active       bool      `json:"active"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FeePolicy is one time-versioned fee configuration for a partner.
// Policies are append-only and never edited in place; the policy effective
// at an instant is the one with the greatest effective_from not after it.
type FeePolicy struct {
	ID            int64            `json:"id"`
	PartnerID     int64            `json:"partner_id"`
	EffectiveFrom time.Time        `json:"effective_from"`
	Percentage    decimal.Decimal  `json:"percentage"`
	FixedFee      *decimal.Decimal `json:"fixed_fee,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
