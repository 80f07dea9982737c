package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"paygate/internal/domain/partners"
	"paygate/internal/pg"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memPartnerStore struct {
	partners map[int64]*partners.Partner
}

func (m *memPartnerStore) GetByID(_ context.Context, id int64) (*partners.Partner, error) {
	p, ok := m.partners[id]
	if !ok {
		return nil, partners.ErrNotFound
	}
	return p, nil
}

// memPolicyStore resolves the effective policy with the same temporal rule
// as the SQL store: greatest effectiveFrom <= asOf, larger id wins ties.
type memPolicyStore struct {
	policies []*partners.FeePolicy
}

func (m *memPolicyStore) EffectivePolicy(_ context.Context, partnerID int64, asOf time.Time) (*partners.FeePolicy, error) {
	var best *partners.FeePolicy
	for _, fp := range m.policies {
		if fp.PartnerID != partnerID || fp.EffectiveFrom.After(asOf) {
			continue
		}
		if best == nil ||
			fp.EffectiveFrom.After(best.EffectiveFrom) ||
			(fp.EffectiveFrom.Equal(best.EffectiveFrom) && fp.ID > best.ID) {
			best = fp
		}
	}
	return best, nil
}

type memPaymentStore struct {
	nextID int64
	rows   map[int64]*Payment
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{nextID: 1, rows: map[int64]*Payment{}}
}

func (m *memPaymentStore) Insert(_ context.Context, p *Payment) error {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memPaymentStore) GetByID(_ context.Context, id int64) (*Payment, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentStore) CompleteApproval(_ context.Context, id int64, approvalCode string, approvedAt time.Time, status Status) (bool, error) {
	p, ok := m.rows[id]
	if !ok || p.Status != StatusPending {
		return false, nil
	}
	p.ApprovalCode = approvalCode
	p.ApprovedAt = approvedAt
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

type fakeGateway struct {
	partnerID int64
	result    *pg.ApproveResult
	err       error
	calls     int
}

func (g *fakeGateway) Supports(partnerID int64) bool { return partnerID == g.partnerID }

func (g *fakeGateway) Approve(_ context.Context, _ pg.ApproveRequest) (*pg.ApproveResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func approvedAt() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	service  *Service
	store    *memPaymentStore
	gateway  *fakeGateway
	policies *memPolicyStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fixed := decimal.NewFromInt(100)
	f := &fixture{
		store: newMemPaymentStore(),
		gateway: &fakeGateway{
			partnerID: 1,
			result: &pg.ApproveResult{
				ApprovalCode: "APPROVAL-123",
				ApprovedAt:   approvedAt(),
				Status:       pg.StatusApproved,
			},
		},
		policies: &memPolicyStore{policies: []*partners.FeePolicy{{
			ID:            10,
			PartnerID:     1,
			EffectiveFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			Percentage:    decimal.RequireFromString("0.0300"),
			FixedFee:      &fixed,
		}}},
	}
	partnerStore := &memPartnerStore{partners: map[int64]*partners.Partner{
		1: {ID: 1, Code: "PARTNER-A", Name: "Partner A", Active: true},
		3: {ID: 3, Code: "PARTNER-C", Name: "Partner C", Active: false},
	}}
	registry := pg.NewRegistry()
	registry.Register(f.gateway)
	f.service = NewService(partnerStore, f.policies, f.store, registry, zap.NewNop().Sugar())
	return f
}

func settleReq(partnerID int64, amount string) SettleRequest {
	return SettleRequest{
		PartnerID:  partnerID,
		Amount:     decimal.RequireFromString(amount),
		CardNumber: "1111-2222-3333-4444",
		BirthDate:  "19900101",
		Expiry:     "1227",
		Password:   "12",
	}
}

func TestSettleAppliesEffectivePolicy(t *testing.T) {
	f := newFixture(t)

	p, err := f.service.Settle(context.Background(), settleReq(1, "10000"))
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, p.Status)
	assert.Equal(t, "APPROVAL-123", p.ApprovalCode)
	assert.True(t, p.AppliedFeeRate.Equal(decimal.RequireFromString("0.0300")))
	assert.True(t, p.FeeAmount.Equal(decimal.NewFromInt(400)), "fee = %s", p.FeeAmount)
	assert.True(t, p.NetAmount.Equal(decimal.NewFromInt(9600)), "net = %s", p.NetAmount)
	require.NotNil(t, p.CardBin)
	assert.Equal(t, "111122", *p.CardBin)
	require.NotNil(t, p.CardLast4)
	assert.Equal(t, "4444", *p.CardLast4)
}

func TestSettleWithoutPolicyDefaultsToNoFee(t *testing.T) {
	f := newFixture(t)
	f.policies.policies = nil

	p, err := f.service.Settle(context.Background(), settleReq(1, "5000"))
	require.NoError(t, err)

	assert.True(t, p.AppliedFeeRate.IsZero())
	assert.True(t, p.FeeAmount.IsZero())
	assert.True(t, p.NetAmount.Equal(decimal.NewFromInt(5000)))
}

func TestSettlePicksLatestEffectivePolicy(t *testing.T) {
	f := newFixture(t)
	// newer policy at 5%, effective in the past, should win over the 3% one
	f.policies.policies = append(f.policies.policies, &partners.FeePolicy{
		ID:            11,
		PartnerID:     1,
		EffectiveFrom: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Percentage:    decimal.RequireFromString("0.0500"),
	})
	// and one that only takes effect in the future, which must be ignored
	f.policies.policies = append(f.policies.policies, &partners.FeePolicy{
		ID:            12,
		PartnerID:     1,
		EffectiveFrom: time.Now().UTC().Add(24 * time.Hour),
		Percentage:    decimal.RequireFromString("0.0900"),
	})

	p, err := f.service.Settle(context.Background(), settleReq(1, "20000"))
	require.NoError(t, err)

	assert.True(t, p.AppliedFeeRate.Equal(decimal.RequireFromString("0.0500")))
	assert.True(t, p.FeeAmount.Equal(decimal.NewFromInt(1000)), "fee = %s", p.FeeAmount)
	assert.True(t, p.NetAmount.Equal(decimal.NewFromInt(19000)))
}

func TestSettlePartnerNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Settle(context.Background(), settleReq(99, "1000"))
	assert.ErrorIs(t, err, partners.ErrNotFound)
	assert.Empty(t, f.store.rows)
}

func TestSettlePartnerInactive(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Settle(context.Background(), settleReq(3, "1000"))
	assert.ErrorIs(t, err, partners.ErrInactive)
	assert.Empty(t, f.store.rows)
	assert.Zero(t, f.gateway.calls)
}

func TestSettleNoGatewayForPartner(t *testing.T) {
	f := newFixture(t)
	f.gateway.partnerID = 42 // stop claiming partner 1

	_, err := f.service.Settle(context.Background(), settleReq(1, "1000"))
	assert.ErrorIs(t, err, pg.ErrNoGatewayForPartner)
	assert.Empty(t, f.store.rows)
}

func TestSettleGatewayFailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.gateway.err = &pg.RejectedError{Code: 400, ErrorCode: "BAD_REQUEST", Message: "declined"}

	_, err := f.service.Settle(context.Background(), settleReq(1, "1000"))

	var rejected *pg.RejectedError
	assert.ErrorAs(t, err, &rejected)
	assert.Empty(t, f.store.rows, "no row may exist for a failed approval")
}

func TestSettleGatewayTimeoutWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.gateway.err = pg.ErrGatewayTimeout

	_, err := f.service.Settle(context.Background(), settleReq(1, "1000"))
	assert.ErrorIs(t, err, pg.ErrGatewayTimeout)
	assert.Empty(t, f.store.rows)
}

func TestDeferredSettlementCompletes(t *testing.T) {
	f := newFixture(t)
	req := settleReq(1, "10000")

	pending, err := f.service.SettleDeferred(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, pending.Status)
	assert.Empty(t, pending.ApprovalCode)
	// fee snapshot is taken at creation, not at completion
	assert.True(t, pending.FeeAmount.Equal(decimal.NewFromInt(400)))

	// the placeholder is a real row, visible to readers
	stored, err := f.store.GetByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)

	done, err := f.service.CompleteDeferred(context.Background(), pending.ID, req)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, done.Status)
	assert.Equal(t, "APPROVAL-123", done.ApprovalCode)
	assert.True(t, done.ApprovedAt.Equal(approvedAt()))
}

func TestDeferredCompletionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	req := settleReq(1, "10000")

	pending, err := f.service.SettleDeferred(context.Background(), req)
	require.NoError(t, err)

	first, err := f.service.CompleteDeferred(context.Background(), pending.ID, req)
	require.NoError(t, err)
	firstUpdated := first.UpdatedAt

	second, err := f.service.CompleteDeferred(context.Background(), pending.ID, req)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, second.Status)
	assert.Equal(t, first.ApprovalCode, second.ApprovalCode)
	assert.True(t, firstUpdated.Equal(second.UpdatedAt), "second application must be a no-op")
}

func TestDeferredGatewayFailureCancelsRow(t *testing.T) {
	f := newFixture(t)
	req := settleReq(1, "10000")

	pending, err := f.service.SettleDeferred(context.Background(), req)
	require.NoError(t, err)

	f.gateway.err = pg.ErrGatewayTimeout
	_, err = f.service.CompleteDeferred(context.Background(), pending.ID, req)
	assert.ErrorIs(t, err, pg.ErrGatewayTimeout)

	stored, err := f.store.GetByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, stored.Status)
}

func TestDeferredCompletionUnknownPayment(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CompleteDeferred(context.Background(), 404, settleReq(1, "1000"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettleNormalizesProviderCancel(t *testing.T) {
	f := newFixture(t)
	f.gateway.result.Status = pg.StatusCanceled

	p, err := f.service.Settle(context.Background(), settleReq(1, "1000"))
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, p.Status)
}

var errBoom = errors.New("boom")

func TestSettlePropagatesStoreErrors(t *testing.T) {
	f := newFixture(t)
	broken := &brokenStore{memPaymentStore: f.store}
	f.service.store = broken

	_, err := f.service.Settle(context.Background(), settleReq(1, "1000"))
	assert.ErrorIs(t, err, errBoom)
}

type brokenStore struct{ *memPaymentStore }

func (b *brokenStore) Insert(context.Context, *Payment) error { return errBoom }
