package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"paygate/internal/domain/payments"
)

// paymentListQuery carries the parsed query-string filter for the list
// endpoint. Everything is optional; absent fields leave the filter open.
type paymentListQuery struct {
	Filter payments.Filter
	Cursor string
	Limit  int
}

func (q paymentListQuery) Parse(r *http.Request) (paymentListQuery, error) {
	qs := r.URL.Query()

	if v := qs.Get("partner_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return q, errors.New("partner_id must be a positive integer")
		}
		q.Filter.PartnerID = &id
	}

	if v := qs.Get("status"); v != "" {
		status, ok := payments.StatusFrom(v)
		if !ok {
			return q, errors.New("status must be PENDING, APPROVED or CANCELED")
		}
		q.Filter.Status = &status
	}

	if v := qs.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return q, errors.New("from must be an RFC3339 timestamp")
		}
		q.Filter.CreatedFrom = &t
	}

	if v := qs.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return q, errors.New("to must be an RFC3339 timestamp")
		}
		q.Filter.CreatedTo = &t
	}

	if q.Filter.CreatedFrom != nil && q.Filter.CreatedTo != nil && q.Filter.CreatedTo.Before(*q.Filter.CreatedFrom) {
		return q, errors.New("to must not be earlier than from")
	}

	q.Cursor = qs.Get("cursor")

	if v := qs.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return q, errors.New("limit must be a positive integer")
		}
		q.Limit = limit
	}

	return q, nil
}

// ListPayments godoc
//
//	@Summary		List payments
//	@Description	Returns one page of payments, newest first, with a summary over the entire filtered set
//	@Tags			Payments
//	@Produce		json
//	@Param			partner_id	query		int		false	"Filter by partner"
//	@Param			status		query		string	false	"PENDING | APPROVED | CANCELED"
//	@Param			from		query		string	false	"Created at or after (RFC3339)"
//	@Param			to			query		string	false	"Created at or before (RFC3339)"
//	@Param			cursor		query		string	false	"Opaque cursor from a previous page"
//	@Param			limit		query		int		false	"Page size (default 20, max 100)"
//	@Success		200			{object}	payments.QueryResult
//	@Failure		400			{object}	error	"Malformed filter or cursor"
//	@Router			/payments [get]
func (app *application) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	q, err := paymentListQuery{}.Parse(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.queries.Query(r.Context(), payments.QueryRequest{
		Filter: q.Filter,
		Cursor: q.Cursor,
		Limit:  q.Limit,
	})
	if err != nil {
		app.settlementErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, result)
}
