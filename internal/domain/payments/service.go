package payments

import (
	"context"
	"strings"
	"time"

	"paygate/internal/domain/partners"
	"paygate/internal/fee"
	"paygate/internal/pg"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Ports the settlement service depends on. Wired to the pgx stores and the
// gateway registry in production, to in-memory fakes in tests.
type PartnerStore interface {
	GetByID(ctx context.Context, id int64) (*partners.Partner, error)
}

type FeePolicyStore interface {
	EffectivePolicy(ctx context.Context, partnerID int64, asOf time.Time) (*partners.FeePolicy, error)
}

type PaymentStore interface {
	Insert(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id int64) (*Payment, error)
	CompleteApproval(ctx context.Context, id int64, approvalCode string, approvedAt time.Time, status Status) (bool, error)
}

type GatewayResolver interface {
	ForPartner(partnerID int64) (pg.Gateway, error)
}

// SettleRequest is one settlement order: who to charge on behalf of, how
// much, and the card credentials that are forwarded (encrypted) to the PG.
type SettleRequest struct {
	PartnerID   int64
	Amount      decimal.Decimal
	CardNumber  string
	BirthDate   string
	Expiry      string
	Password    string
	ProductName string
}

// Service orchestrates partner validation, gateway approval, fee
// calculation and persistence for one settlement.
type Service struct {
	partners PartnerStore
	policies FeePolicyStore
	store    PaymentStore
	gateways GatewayResolver
	logger   *zap.SugaredLogger
}

func NewService(partnerStore PartnerStore, policyStore FeePolicyStore, paymentStore PaymentStore, gateways GatewayResolver, logger *zap.SugaredLogger) *Service {
	return &Service{
		partners: partnerStore,
		policies: policyStore,
		store:    paymentStore,
		gateways: gateways,
		logger:   logger,
	}
}

// resolve validates the partner and picks the gateway responsible for it.
func (s *Service) resolve(ctx context.Context, partnerID int64) (*partners.Partner, pg.Gateway, error) {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return nil, nil, err
	}
	if !partner.Active {
		return nil, nil, partners.ErrInactive
	}
	gateway, err := s.gateways.ForPartner(partner.ID)
	if err != nil {
		return nil, nil, err
	}
	return partner, gateway, nil
}

// snapshotFees resolves the policy effective right now and computes the fee
// split. The resolved values are captured once, before any write, so a
// concurrent policy change cannot alter an in-flight settlement.
func (s *Service) snapshotFees(ctx context.Context, partnerID int64, amount decimal.Decimal) (rate, feeAmount, netAmount decimal.Decimal, err error) {
	policy, err := s.policies.EffectivePolicy(ctx, partnerID, time.Now().UTC())
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	rate = decimal.Zero
	var fixed *decimal.Decimal
	if policy != nil {
		rate = policy.Percentage
		fixed = policy.FixedFee
	}
	feeAmount, netAmount = fee.Compute(amount, rate, fixed)
	return rate, feeAmount, netAmount, nil
}

// Settle runs the immediate settlement path: the gateway approval happens
// first and nothing is written unless it succeeds.
func (s *Service) Settle(ctx context.Context, req SettleRequest) (*Payment, error) {
	partner, gateway, err := s.resolve(ctx, req.PartnerID)
	if err != nil {
		return nil, err
	}

	approve, err := gateway.Approve(ctx, pg.ApproveRequest{
		CardNumber: req.CardNumber,
		BirthDate:  req.BirthDate,
		Expiry:     req.Expiry,
		Password:   req.Password,
		Amount:     req.Amount,
	})
	if err != nil {
		return nil, err
	}

	rate, feeAmount, netAmount, err := s.snapshotFees(ctx, partner.ID, req.Amount)
	if err != nil {
		return nil, err
	}

	p := &Payment{
		PartnerID:      partner.ID,
		Amount:         req.Amount,
		AppliedFeeRate: rate,
		FeeAmount:      feeAmount,
		NetAmount:      netAmount,
		CardBin:        cardBin(req.CardNumber),
		CardLast4:      cardLast4(req.CardNumber),
		ApprovalCode:   approve.ApprovalCode,
		ApprovedAt:     approve.ApprovedAt,
		Status:         Status(approve.Status),
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Infow("payment settled",
		"payment_id", p.ID, "partner_id", partner.ID, "status", p.Status)
	return p, nil
}

// SettleDeferred writes a durable PENDING placeholder without calling the
// gateway. The row is real and queryable; CompleteDeferred finishes it.
// The fee snapshot is still taken here, at creation time.
func (s *Service) SettleDeferred(ctx context.Context, req SettleRequest) (*Payment, error) {
	partner, _, err := s.resolve(ctx, req.PartnerID)
	if err != nil {
		return nil, err
	}

	rate, feeAmount, netAmount, err := s.snapshotFees(ctx, partner.ID, req.Amount)
	if err != nil {
		return nil, err
	}

	p := &Payment{
		PartnerID:      partner.ID,
		Amount:         req.Amount,
		AppliedFeeRate: rate,
		FeeAmount:      feeAmount,
		NetAmount:      netAmount,
		CardBin:        cardBin(req.CardNumber),
		CardLast4:      cardLast4(req.CardNumber),
		ApprovalCode:   "",
		ApprovedAt:     time.Now().UTC(),
		Status:         StatusPending,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Infow("payment pending approval", "payment_id", p.ID, "partner_id", partner.ID)
	return p, nil
}

// CompleteDeferred calls the gateway for a PENDING payment and attaches the
// result. The underlying update is guarded by the PENDING status, so
// re-applying a result to an already-final row is a no-op and the stored
// row is returned unchanged. A gateway failure finalizes the row as
// CANCELED rather than leaving it dangling.
func (s *Service) CompleteDeferred(ctx context.Context, paymentID int64, req SettleRequest) (*Payment, error) {
	gateway, err := s.gateways.ForPartner(req.PartnerID)
	if err != nil {
		return nil, err
	}

	approve, err := gateway.Approve(ctx, pg.ApproveRequest{
		CardNumber: req.CardNumber,
		BirthDate:  req.BirthDate,
		Expiry:     req.Expiry,
		Password:   req.Password,
		Amount:     req.Amount,
	})
	if err != nil {
		if _, cancelErr := s.store.CompleteApproval(ctx, paymentID, "", time.Now().UTC(), StatusCanceled); cancelErr != nil {
			s.logger.Errorw("failed to cancel pending payment",
				"payment_id", paymentID, "error", cancelErr)
		}
		return nil, err
	}

	updated, err := s.store.CompleteApproval(ctx, paymentID, approve.ApprovalCode, approve.ApprovedAt, Status(approve.Status))
	if err != nil {
		return nil, err
	}
	if !updated {
		s.logger.Infow("approval already applied", "payment_id", paymentID)
	}
	return s.store.GetByID(ctx, paymentID)
}

func digitsOf(cardNumber string) string {
	var b strings.Builder
	for _, r := range cardNumber {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cardBin keeps the first six digits only; the full PAN is never stored.
func cardBin(cardNumber string) *string {
	digits := digitsOf(cardNumber)
	if len(digits) < 6 {
		return nil
	}
	bin := digits[:6]
	return &bin
}

func cardLast4(cardNumber string) *string {
	digits := digitsOf(cardNumber)
	if len(digits) < 4 {
		return nil
	}
	last4 := digits[len(digits)-4:]
	return &last4
}
