package payments

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPageStore implements PageStore over a slice with the same keyset
// semantics as the SQL store.
type memPageStore struct {
	rows []*Payment
}

func (m *memPageStore) matches(f Filter, p *Payment) bool {
	if f.PartnerID != nil && p.PartnerID != *f.PartnerID {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	if f.CreatedFrom != nil && p.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && p.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func (m *memPageStore) PageByFilter(_ context.Context, f Filter, cursor *CursorKey, limit int) ([]*Payment, error) {
	var out []*Payment
	for _, p := range m.rows {
		if !m.matches(f, p) {
			continue
		}
		if cursor != nil {
			after := p.CreatedAt.After(cursor.CreatedAt) ||
				(p.CreatedAt.Equal(cursor.CreatedAt) && p.ID >= cursor.ID)
			if after {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPageStore) AggregateByFilter(_ context.Context, f Filter) (*Summary, error) {
	sum := &Summary{TotalAmount: decimal.Zero, TotalNetAmount: decimal.Zero}
	for _, p := range m.rows {
		if !m.matches(f, p) {
			continue
		}
		sum.Count++
		sum.TotalAmount = sum.TotalAmount.Add(p.Amount)
		sum.TotalNetAmount = sum.TotalNetAmount.Add(p.NetAmount)
	}
	return sum, nil
}

func seedStore(n int) *memPageStore {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := &memPageStore{}
	for i := 0; i < n; i++ {
		store.rows = append(store.rows, &Payment{
			ID:             int64(i + 1),
			PartnerID:      1,
			Amount:         decimal.NewFromInt(1000),
			AppliedFeeRate: decimal.RequireFromString("0.0300"),
			FeeAmount:      decimal.NewFromInt(30),
			NetAmount:      decimal.NewFromInt(970),
			Status:         StatusApproved,
			// duplicate createdAt every other row to force id tie-breaks
			CreatedAt: base.Add(time.Duration(i/2) * time.Second),
			UpdatedAt: base,
		})
	}
	return store
}

func newEngine(t *testing.T, store PageStore) *QueryEngine {
	t.Helper()
	codec, err := NewCursorCodec("test-salt")
	require.NoError(t, err)
	return NewQueryEngine(store, codec)
}

func TestQueryCoversAllRowsExactlyOnce(t *testing.T) {
	const total, limit = 35, 10
	engine := newEngine(t, seedStore(total))

	seen := map[int64]bool{}
	var (
		cursor string
		pages  int
		prev   *Payment
	)
	for {
		res, err := engine.Query(context.Background(), QueryRequest{Cursor: cursor, Limit: limit})
		require.NoError(t, err)
		pages++

		for _, p := range res.Items {
			assert.False(t, seen[p.ID], "payment %d returned twice", p.ID)
			seen[p.ID] = true
			if prev != nil {
				descending := p.CreatedAt.Before(prev.CreatedAt) ||
					(p.CreatedAt.Equal(prev.CreatedAt) && p.ID < prev.ID)
				assert.True(t, descending, "order broken between %d and %d", prev.ID, p.ID)
			}
			prev = p
		}

		if !res.HasNext {
			assert.Empty(t, res.NextCursor)
			break
		}
		require.NotEmpty(t, res.NextCursor)
		cursor = res.NextCursor
	}

	assert.Len(t, seen, total)
	assert.Equal(t, 4, pages)
}

func TestQueryLastPageSignal(t *testing.T) {
	engine := newEngine(t, seedStore(15))

	res, err := engine.Query(context.Background(), QueryRequest{Limit: 20})
	require.NoError(t, err)

	assert.Len(t, res.Items, 15)
	assert.False(t, res.HasNext)
	assert.Empty(t, res.NextCursor)
}

func TestQueryExactMultipleOfLimit(t *testing.T) {
	engine := newEngine(t, seedStore(20))

	first, err := engine.Query(context.Background(), QueryRequest{Limit: 10})
	require.NoError(t, err)
	require.True(t, first.HasNext)

	second, err := engine.Query(context.Background(), QueryRequest{Cursor: first.NextCursor, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, second.Items, 10)
	assert.False(t, second.HasNext)
}

func TestQuerySummaryConsistentAcrossPages(t *testing.T) {
	const total, limit = 35, 10
	engine := newEngine(t, seedStore(total))

	var (
		cursor      string
		count       int64
		totalAmount = decimal.Zero
		totalNet    = decimal.Zero
		summary     *Summary
	)
	for {
		res, err := engine.Query(context.Background(), QueryRequest{Cursor: cursor, Limit: limit})
		require.NoError(t, err)
		summary = res.Summary

		for _, p := range res.Items {
			count++
			totalAmount = totalAmount.Add(p.Amount)
			totalNet = totalNet.Add(p.NetAmount)
		}
		if !res.HasNext {
			break
		}
		cursor = res.NextCursor
	}

	// the summary reflects the whole matching set on every page
	assert.Equal(t, summary.Count, count)
	assert.True(t, summary.TotalAmount.Equal(totalAmount), "totalAmount = %s", summary.TotalAmount)
	assert.True(t, summary.TotalNetAmount.Equal(totalNet), "totalNetAmount = %s", summary.TotalNetAmount)
}

func TestQueryFilterAppliesToPageAndSummary(t *testing.T) {
	store := seedStore(10)
	// flip a few rows to another partner
	for i := 0; i < 4; i++ {
		store.rows[i].PartnerID = 2
	}
	engine := newEngine(t, store)

	partnerID := int64(2)
	res, err := engine.Query(context.Background(), QueryRequest{
		Filter: Filter{PartnerID: &partnerID},
		Limit:  50,
	})
	require.NoError(t, err)

	assert.Len(t, res.Items, 4)
	assert.EqualValues(t, 4, res.Summary.Count)
	for _, p := range res.Items {
		assert.EqualValues(t, 2, p.PartnerID)
	}
}

func TestQueryRejectsMalformedCursor(t *testing.T) {
	engine := newEngine(t, seedStore(5))

	_, err := engine.Query(context.Background(), QueryRequest{Cursor: "not-a-cursor", Limit: 10})
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestQueryEmptyResult(t *testing.T) {
	engine := newEngine(t, &memPageStore{})

	res, err := engine.Query(context.Background(), QueryRequest{Limit: 10})
	require.NoError(t, err)

	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.False(t, res.HasNext)
	assert.EqualValues(t, 0, res.Summary.Count)
}
