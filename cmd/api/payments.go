package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"paygate/internal/domain/payments"
	"paygate/internal/mailer"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createPaymentRequest struct {
	PartnerID   int64  `json:"partner_id" validate:"required,gt=0"`
	Amount      string `json:"amount" validate:"required"`
	CardNumber  string `json:"card_number" validate:"required,min=12"`
	BirthDate   string `json:"birth_date" validate:"required,len=8,numeric"`
	Expiry      string `json:"expiry" validate:"required,len=4,numeric"`
	Password    string `json:"password" validate:"required,len=2,numeric"`
	ProductName string `json:"product_name"`
}

func (p createPaymentRequest) toSettleRequest() (payments.SettleRequest, error) {
	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return payments.SettleRequest{}, err
	}
	return payments.SettleRequest{
		PartnerID:   p.PartnerID,
		Amount:      amount,
		CardNumber:  p.CardNumber,
		BirthDate:   p.BirthDate,
		Expiry:      p.Expiry,
		Password:    p.Password,
		ProductName: p.ProductName,
	}, nil
}

func validAmount(amount decimal.Decimal) bool {
	// at least one whole currency unit
	return amount.GreaterThanOrEqual(decimal.New(1, 0))
}

// CreatePayment godoc
//
//	@Summary		Settle a card payment
//	@Description	Approves the charge with the partner's payment gateway, applies the effective fee policy and records the payment
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	payments.Payment
//	@Failure		400	{object}	error	"Malformed request"
//	@Failure		404	{object}	error	"Unknown partner"
//	@Failure		422	{object}	error	"Inactive partner or no gateway"
//	@Failure		502	{object}	error	"Gateway rejected the charge"
//	@Failure		504	{object}	error	"Gateway timed out"
//	@Router			/payments [post]
func (app *application) createPaymentHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := app.readSettleRequest(w, r)
	if !ok {
		return
	}

	payment, err := app.settlement.Settle(r.Context(), req)
	if err != nil {
		app.settlementErrorResponse(w, r, err)
		return
	}

	app.sendReceipt(payment)

	app.jsonResponse(w, http.StatusCreated, payment)
}

// CreateDeferredPayment godoc
//
//	@Summary		Settle a card payment asynchronously
//	@Description	Records a PENDING payment immediately and completes the gateway approval in the background
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Success		202	{object}	payments.Payment
//	@Failure		400	{object}	error
//	@Failure		404	{object}	error
//	@Failure		422	{object}	error
//	@Router			/payments/deferred [post]
func (app *application) createDeferredPaymentHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := app.readSettleRequest(w, r)
	if !ok {
		return
	}

	pending, err := app.settlement.SettleDeferred(r.Context(), req)
	if err != nil {
		app.settlementErrorResponse(w, r, err)
		return
	}

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		payment, err := app.settlement.CompleteDeferred(ctx, pending.ID, req)
		if err != nil {
			app.logger.Errorw("deferred approval failed", "payment_id", pending.ID, "error", err)
			return
		}
		app.sendReceipt(payment)
	})

	app.jsonResponse(w, http.StatusAccepted, pending)
}

// GetPayment godoc
//
//	@Summary	Get one payment
//	@Tags		Payments
//	@Produce	json
//	@Param		paymentID	path		int	true	"Payment ID"
//	@Success	200			{object}	payments.Payment
//	@Failure	404			{object}	error
//	@Router		/payments/{paymentID} [get]
func (app *application) getPaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "paymentID"), 10, 64)
	if err != nil || id <= 0 {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	payment, err := app.payments.GetByID(ctx, id)
	if err != nil {
		app.settlementErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, payment)
}

func (app *application) readSettleRequest(w http.ResponseWriter, r *http.Request) (payments.SettleRequest, bool) {
	var payload createPaymentRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return payments.SettleRequest{}, false
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return payments.SettleRequest{}, false
	}

	req, err := payload.toSettleRequest()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return payments.SettleRequest{}, false
	}
	if !validAmount(req.Amount) {
		app.badRequestResponse(w, r, errAmountTooSmall)
		return payments.SettleRequest{}, false
	}
	return req, true
}

// sendReceipt mails the partner a settlement receipt when mailing is
// configured and the partner has a contact address. Failures are logged,
// never surfaced to the payer.
func (app *application) sendReceipt(payment *payments.Payment) {
	if app.mailer == nil || payment.Status != payments.StatusApproved {
		return
	}

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		partner, err := app.partners.GetByID(ctx, payment.PartnerID)
		if err != nil || partner.ContactEmail == "" {
			return
		}

		data := map[string]any{
			"PartnerName":  partner.Name,
			"PaymentID":    payment.ID,
			"Amount":       payment.Amount.String(),
			"FeeAmount":    payment.FeeAmount.String(),
			"NetAmount":    payment.NetAmount.String(),
			"ApprovalCode": payment.ApprovalCode,
			"ApprovedAt":   payment.ApprovedAt.Format(time.RFC3339),
		}
		if _, err := app.mailer.Send(mailer.PaymentReceiptTemplate, partner.Name, partner.ContactEmail, data); err != nil {
			app.logger.Errorw("failed to send receipt", "payment_id", payment.ID, "error", err)
		}
	})
}
