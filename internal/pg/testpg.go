package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"paygate/internal/cardenc"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	testPGApprovePath = "/api/v1/pay/credit-card"
	apiKeyHeader      = "API-KEY"
)

// TestPGAdapter talks to the sandbox PG over HTTP. Card payloads go out
// only as an AES-GCM envelope; the raw payload is never logged.
type TestPGAdapter struct {
	baseURL  string
	apiKey   string
	iv       string
	partners map[int64]struct{}
	client   *http.Client
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

func NewTestPGAdapter(baseURL, apiKey, iv string, partnerIDs []int64, logger *zap.SugaredLogger) *TestPGAdapter {
	supported := make(map[int64]struct{}, len(partnerIDs))
	for _, id := range partnerIDs {
		supported[id] = struct{}{}
	}
	return &TestPGAdapter{
		baseURL:  baseURL,
		apiKey:   apiKey,
		iv:       iv,
		partners: supported,
		client:   &http.Client{},
		timeout:  ApproveTimeout,
		logger:   logger,
	}
}

func (a *TestPGAdapter) Supports(partnerID int64) bool {
	_, ok := a.partners[partnerID]
	return ok
}

type testPGApproveBody struct {
	Enc string `json:"enc"`
}

type testPGApproveResponse struct {
	ApprovalCode    string          `json:"approvalCode"`
	ApprovedAt      string          `json:"approvedAt"`
	MaskedCardLast4 string          `json:"maskedCardLast4"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
}

type testPGErrorResponse struct {
	Code        int    `json:"code"`
	ErrorCode   string `json:"errorCode"`
	Message     string `json:"message"`
	ReferenceID string `json:"referenceId"`
}

func (a *TestPGAdapter) Approve(ctx context.Context, req ApproveRequest) (*ApproveResult, error) {
	enc, err := cardenc.Encrypt(cardenc.CardInfo{
		CardNumber: req.CardNumber,
		BirthDate:  req.BirthDate,
		Expiry:     req.Expiry,
		Password:   req.Password,
		Amount:     req.Amount,
	}, a.apiKey, a.iv)
	if err != nil {
		return nil, fmt.Errorf("encrypt card payload: %w", err)
	}

	body, err := json.Marshal(testPGApproveBody{Enc: enc})
	if err != nil {
		return nil, fmt.Errorf("marshal approve body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+testPGApprovePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build approve request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, a.apiKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			a.logger.Warnw("pg approval timed out", "base_url", a.baseURL)
			return nil, ErrGatewayTimeout
		}
		return nil, fmt.Errorf("pg approve call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody testPGErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
			// no parseable body; mint a reference id so support can still
			// correlate the decline against our logs
			rejected := &RejectedError{
				Code:        resp.StatusCode,
				Message:     "unreadable error response from pg",
				ReferenceID: uuid.NewString(),
			}
			a.logger.Warnw("pg rejected approval with unreadable body",
				"status", resp.StatusCode, "reference_id", rejected.ReferenceID)
			return nil, rejected
		}
		a.logger.Warnw("pg rejected approval",
			"status", resp.StatusCode,
			"error_code", errBody.ErrorCode,
			"reference_id", errBody.ReferenceID)
		return nil, &RejectedError{
			Code:        errBody.Code,
			ErrorCode:   errBody.ErrorCode,
			Message:     errBody.Message,
			ReferenceID: errBody.ReferenceID,
		}
	}

	var out testPGApproveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode approve response: %w", err)
	}

	approvedAt, err := parseApprovedAt(out.ApprovedAt)
	if err != nil {
		return nil, fmt.Errorf("parse approvedAt %q: %w", out.ApprovedAt, err)
	}

	status := StatusCanceled
	if out.Status == StatusApproved {
		status = StatusApproved
	}

	a.logger.Infow("pg approved payment", "approval_code", out.ApprovalCode, "status", status)

	return &ApproveResult{
		ApprovalCode: out.ApprovalCode,
		ApprovedAt:   approvedAt,
		Status:       status,
	}, nil
}

// the sandbox serializes timestamps as local ISO without zone; newer
// deployments send RFC3339
func parseApprovedAt(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
