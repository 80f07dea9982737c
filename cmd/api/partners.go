package main

import (
	"net/http"
	"strconv"
	"time"

	"paygate/internal/domain/partners"
	"paygate/internal/infra/dbx"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createPartnerRequest struct {
	Code         string `json:"code" validate:"required,min=2,max=32,alphanum"`
	Name         string `json:"name" validate:"required,max=128"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

type setPartnerActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type createFeePolicyRequest struct {
	EffectiveFrom string `json:"effective_from" validate:"required"`
	Percentage    string `json:"percentage" validate:"required"`
	FixedFee      string `json:"fixed_fee"`
}

// CreatePartner godoc
//
//	@Summary	Register a partner
//	@Tags		Partners
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	partners.Partner
//	@Failure	400	{object}	error
//	@Failure	409	{object}	error	"Duplicate partner code"
//	@Security	ApiKeyAuth
//	@Router		/partners [post]
func (app *application) createPartnerHandler(w http.ResponseWriter, r *http.Request) {
	var payload createPartnerRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	partner, err := app.partners.Create(r.Context(), &partners.Partner{
		Code:         payload.Code,
		Name:         payload.Name,
		Active:       true,
		ContactEmail: payload.ContactEmail,
	})
	if err != nil {
		if err == partners.ErrDuplicateCode || dbx.IsUniqueViolation(err) {
			app.conflictResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, partner)
}

// GetPartner godoc
//
//	@Summary	Get one partner
//	@Tags		Partners
//	@Produce	json
//	@Param		partnerID	path		int	true	"Partner ID"
//	@Success	200			{object}	partners.Partner
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/partners/{partnerID} [get]
func (app *application) getPartnerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.partnerIDParam(w, r)
	if !ok {
		return
	}

	partner, err := app.partners.GetByID(r.Context(), id)
	if err != nil {
		app.settlementErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, partner)
}

// SetPartnerActive godoc
//
//	@Summary		Activate or deactivate a partner
//	@Description	Inactive partners are refused at settlement time; their recorded payments stay queryable
//	@Tags			Partners
//	@Accept			json
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/partners/{partnerID}/active [patch]
func (app *application) setPartnerActiveHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.partnerIDParam(w, r)
	if !ok {
		return
	}

	var payload setPartnerActiveRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.partners.SetActive(r.Context(), id, *payload.Active); err != nil {
		app.settlementErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateFeePolicy godoc
//
//	@Summary		Add a fee policy
//	@Description	Appends a time-versioned fee policy; existing policies are never edited
//	@Tags			Partners
//	@Accept			json
//	@Produce		json
//	@Param			partnerID	path		int	true	"Partner ID"
//	@Success		201			{object}	partners.FeePolicy
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/partners/{partnerID}/fee-policies [post]
func (app *application) createFeePolicyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.partnerIDParam(w, r)
	if !ok {
		return
	}

	var payload createFeePolicyRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	fp, err := payload.toFeePolicy(id)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	created, err := app.partners.CreateFeePolicy(r.Context(), fp)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			app.notFoundResponse(w, r, partners.ErrNotFound)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, created)
}

// ListFeePolicies godoc
//
//	@Summary	List a partner's fee policies
//	@Tags		Partners
//	@Produce	json
//	@Param		partnerID	path	int	true	"Partner ID"
//	@Success	200			{array}	partners.FeePolicy
//	@Failure	404			{object}	error
//	@Security	ApiKeyAuth
//	@Router		/partners/{partnerID}/fee-policies [get]
func (app *application) listFeePoliciesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := app.partnerIDParam(w, r)
	if !ok {
		return
	}

	// confirm existence so an unknown partner is a 404, not an empty list
	if _, err := app.partners.GetByID(r.Context(), id); err != nil {
		app.settlementErrorResponse(w, r, err)
		return
	}

	policies, err := app.partners.ListFeePolicies(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, policies)
}

func (app *application) partnerIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "partnerID"), 10, 64)
	if err != nil || id <= 0 {
		app.badRequestResponse(w, r, err)
		return 0, false
	}
	return id, true
}

func (p createFeePolicyRequest) toFeePolicy(partnerID int64) (*partners.FeePolicy, error) {
	effectiveFrom, err := time.Parse(time.RFC3339, p.EffectiveFrom)
	if err != nil {
		return nil, err
	}
	percentage, err := decimal.NewFromString(p.Percentage)
	if err != nil {
		return nil, err
	}
	fp := &partners.FeePolicy{
		PartnerID:     partnerID,
		EffectiveFrom: effectiveFrom,
		Percentage:    percentage,
	}
	if p.FixedFee != "" {
		fixed, err := decimal.NewFromString(p.FixedFee)
		if err != nil {
			return nil, err
		}
		fp.FixedFee = &fixed
	}
	return fp, nil
}
