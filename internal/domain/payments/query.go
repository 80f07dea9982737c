package payments

import "context"

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageStore is the read surface the query engine needs. Both methods must
// interpret the filter identically; the pgx store guarantees that by
// sharing one predicate builder.
type PageStore interface {
	PageByFilter(ctx context.Context, f Filter, cursor *CursorKey, limit int) ([]*Payment, error)
	AggregateByFilter(ctx context.Context, f Filter) (*Summary, error)
}

type QueryRequest struct {
	Filter Filter
	Cursor string
	Limit  int
}

type QueryResult struct {
	Items      []*Payment `json:"items"`
	Summary    *Summary   `json:"summary"`
	NextCursor string     `json:"next_cursor,omitempty"`
	HasNext    bool       `json:"has_next"`
}

// QueryEngine serves one filtered page plus the unbounded summary over the
// same predicate.
type QueryEngine struct {
	store PageStore
	codec *CursorCodec
}

func NewQueryEngine(store PageStore, codec *CursorCodec) *QueryEngine {
	return &QueryEngine{store: store, codec: codec}
}

// Query fetches limit+1 rows to detect a following page: the extra row is
// dropped from the returned items, hasNext flips on, and the next cursor is
// taken from the last item actually returned.
func (e *QueryEngine) Query(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	var cursor *CursorKey
	if req.Cursor != "" {
		key, err := e.codec.Decode(req.Cursor)
		if err != nil {
			return nil, err
		}
		cursor = &key
	}

	rows, err := e.store.PageByFilter(ctx, req.Filter, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	hasNext := len(rows) > limit
	items := rows
	if hasNext {
		items = rows[:limit]
	}

	var nextCursor string
	if hasNext {
		last := items[len(items)-1]
		nextCursor, err = e.codec.Encode(CursorKey{CreatedAt: last.CreatedAt, ID: last.ID})
		if err != nil {
			return nil, err
		}
	}

	summary, err := e.store.AggregateByFilter(ctx, req.Filter)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []*Payment{}
	}
	return &QueryResult{
		Items:      items,
		Summary:    summary,
		NextCursor: nextCursor,
		HasNext:    hasNext,
	}, nil
}
