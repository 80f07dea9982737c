package main

import (
	"errors"
	"net/http"

	"paygate/internal/domain/partners"
	"paygate/internal/domain/payments"
	"paygate/internal/pg"
)

var errAmountTooSmall = errors.New("amount must be at least one whole unit")

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, err.Error())
}

func (app *application) unprocessableEntityResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unprocessable", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// settlementErrorResponse maps the settlement/query error taxonomy onto
// HTTP statuses. Gateway faults surface the provider's own code, message
// and reference id so callers can correlate with PG support.
func (app *application) settlementErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var rejected *pg.RejectedError

	switch {
	case errors.Is(err, partners.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, partners.ErrInactive):
		app.unprocessableEntityResponse(w, r, err)
	case errors.Is(err, pg.ErrNoGatewayForPartner):
		app.unprocessableEntityResponse(w, r, err)
	case errors.Is(err, payments.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, payments.ErrInvalidCursor):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, pg.ErrGatewayTimeout):
		app.logger.Warnw("gateway timeout", "method", r.Method, "path", r.URL.Path)
		writeJSONError(w, http.StatusGatewayTimeout, "payment gateway timed out")
	case errors.As(err, &rejected):
		app.logger.Warnw("gateway rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"error_code", rejected.ErrorCode,
			"reference_id", rejected.ReferenceID)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success":      false,
			"message":      rejected.Message,
			"error_code":   rejected.ErrorCode,
			"reference_id": rejected.ReferenceID,
		})
	default:
		app.internalServerError(w, r, err)
	}
}
