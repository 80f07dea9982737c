package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paygate/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound means the payment id does not exist.
var ErrNotFound = errors.New("payment not found")

type Store struct{ q dbx.Querier }

func NewStore(q dbx.Querier) *Store { return &Store{q: q} }

const paymentColumns = `id, partner_id, amount, applied_fee_rate, fee_amount, net_amount,
	       card_bin, card_last4, approval_code, approved_at, status, created_at, updated_at`

func (s *Store) Insert(ctx context.Context, p *Payment) error {
	err := s.q.QueryRow(ctx, `
		INSERT INTO payments (partner_id, amount, applied_fee_rate, fee_amount, net_amount,
		                      card_bin, card_last4, approval_code, approved_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, p.PartnerID, p.Amount, p.AppliedFeeRate, p.FeeAmount, p.NetAmount,
		p.CardBin, p.CardLast4, p.ApprovalCode, p.ApprovedAt, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Payment, error) {
	var p Payment
	err := s.q.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments WHERE id=$1
	`, id).Scan(
		&p.ID, &p.PartnerID, &p.Amount, &p.AppliedFeeRate, &p.FeeAmount, &p.NetAmount,
		&p.CardBin, &p.CardLast4, &p.ApprovalCode, &p.ApprovedAt, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// CompleteApproval attaches a gateway result to a row still in PENDING.
// The status predicate makes re-application a no-op: a duplicate retry
// matches zero rows instead of clobbering an already-final payment.
// Returns whether a row transitioned.
func (s *Store) CompleteApproval(ctx context.Context, id int64, approvalCode string, approvedAt time.Time, status Status) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE payments
		   SET approval_code=$2, approved_at=$3, status=$4, updated_at=now()
		 WHERE id=$1 AND status='PENDING'
	`, id, approvalCode, approvedAt, status)
	if err != nil {
		return false, fmt.Errorf("complete approval: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// filterPredicates renders the conjunctive WHERE conditions for a filter.
// The page and aggregate queries both build on this, so the two can never
// drift apart under a shared filter.
func filterPredicates(f Filter) (conds []string, args []any) {
	if f.PartnerID != nil {
		args = append(args, *f.PartnerID)
		conds = append(conds, fmt.Sprintf("partner_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.CreatedTo != nil {
		args = append(args, *f.CreatedTo)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return conds, args
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}

// PageByFilter returns up to limit rows in (created_at DESC, id DESC)
// order, resuming strictly after the cursor key when one is given. Callers
// pass limit+1 to detect a following page.
func (s *Store) PageByFilter(ctx context.Context, f Filter, cursor *CursorKey, limit int) ([]*Payment, error) {
	conds, args := filterPredicates(f)
	if cursor != nil {
		args = append(args, cursor.CreatedAt, cursor.ID)
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT `+paymentColumns+`
		FROM payments
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d
	`, whereClause(conds), len(args))

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("page payments: %w", err)
	}
	defer rows.Close()

	var out []*Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID, &p.PartnerID, &p.Amount, &p.AppliedFeeRate, &p.FeeAmount, &p.NetAmount,
			&p.CardBin, &p.CardLast4, &p.ApprovalCode, &p.ApprovedAt, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AggregateByFilter computes the summary over the whole matching set,
// independent of any cursor or limit.
func (s *Store) AggregateByFilter(ctx context.Context, f Filter) (*Summary, error) {
	conds, args := filterPredicates(f)

	query := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(net_amount), 0)
		FROM payments
		%s
	`, whereClause(conds))

	var sum Summary
	err := s.q.QueryRow(ctx, query, args...).
		Scan(&sum.Count, &sum.TotalAmount, &sum.TotalNetAmount)
	if err != nil {
		return nil, fmt.Errorf("aggregate payments: %w", err)
	}
	return &sum, nil
}
