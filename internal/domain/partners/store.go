package partners

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paygate/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound means the partner id does not exist.
	ErrNotFound = errors.New("partner not found")
	// ErrInactive means the partner exists but has been deactivated.
	ErrInactive = errors.New("partner is inactive")
	// ErrDuplicateCode means another partner already uses the code.
	ErrDuplicateCode = errors.New("partner code already exists")
)

type Store struct{ q dbx.Querier }

func NewStore(q dbx.Querier) *Store { return &Store{q: q} }

func (s *Store) Create(ctx context.Context, p *Partner) (*Partner, error) {
	err := s.q.QueryRow(ctx, `
		INSERT INTO partners (code, name, active, contact_email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.Code, p.Name, p.Active, p.ContactEmail).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("create partner: %w", err)
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Partner, error) {
	var p Partner
	err := s.q.QueryRow(ctx, `
		SELECT id, code, name, active, COALESCE(contact_email, ''), created_at, updated_at
		FROM partners WHERE id=$1
	`, id).Scan(&p.ID, &p.Code, &p.Name, &p.Active, &p.ContactEmail, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return &p, nil
}

func (s *Store) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE partners SET active=$2, updated_at=now() WHERE id=$1
	`, id, active)
	if err != nil {
		return fmt.Errorf("set partner active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateFeePolicy(ctx context.Context, fp *FeePolicy) (*FeePolicy, error) {
	err := s.q.QueryRow(ctx, `
		INSERT INTO fee_policies (partner_id, effective_from, percentage, fixed_fee)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, fp.PartnerID, fp.EffectiveFrom, fp.Percentage, fp.FixedFee).
		Scan(&fp.ID, &fp.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("create fee policy: %w", err)
	}
	return fp, nil
}

// EffectivePolicy returns the fee policy in force for the partner at asOf:
// the greatest effective_from not after asOf, ties broken by the larger id
// (most recently inserted). A partner with no policy in force yet resolves
// to (nil, nil) — callers fall back to zero rate, no fixed fee.
func (s *Store) EffectivePolicy(ctx context.Context, partnerID int64, asOf time.Time) (*FeePolicy, error) {
	var (
		fp    FeePolicy
		fixed decimal.NullDecimal
	)
	err := s.q.QueryRow(ctx, `
		SELECT id, partner_id, effective_from, percentage, fixed_fee, created_at
		FROM fee_policies
		WHERE partner_id=$1 AND effective_from <= $2
		ORDER BY effective_from DESC, id DESC
		LIMIT 1
	`, partnerID, asOf).
		Scan(&fp.ID, &fp.PartnerID, &fp.EffectiveFrom, &fp.Percentage, &fixed, &fp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("effective fee policy: %w", err)
	}
	if fixed.Valid {
		fp.FixedFee = &fixed.Decimal
	}
	return &fp, nil
}

// ListFeePolicies returns every policy version for a partner, newest first.
func (s *Store) ListFeePolicies(ctx context.Context, partnerID int64) ([]*FeePolicy, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, partner_id, effective_from, percentage, fixed_fee, created_at
		FROM fee_policies
		WHERE partner_id=$1
		ORDER BY effective_from DESC, id DESC
	`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("list fee policies: %w", err)
	}
	defer rows.Close()

	var out []*FeePolicy
	for rows.Next() {
		var (
			fp    FeePolicy
			fixed decimal.NullDecimal
		)
		if err := rows.Scan(&fp.ID, &fp.PartnerID, &fp.EffectiveFrom, &fp.Percentage, &fixed, &fp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fee policy: %w", err)
		}
		if fixed.Valid {
			fp.FixedFee = &fixed.Decimal
		}
		out = append(out, &fp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
