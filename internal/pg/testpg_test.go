package pg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paygate/internal/cardenc"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testAPIKey = "11111111-1111-4111-8111-111111111111"
	testIV     = "AAAAAAAAAAAAAAAA"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func approveReq() ApproveRequest {
	return ApproveRequest{
		CardNumber: "1111-1111-1111-1111",
		BirthDate:  "19900101",
		Expiry:     "1227",
		Password:   "12",
		Amount:     decimal.NewFromInt(10000),
	}
}

func TestTestPGAdapterSupports(t *testing.T) {
	a := NewTestPGAdapter("http://pg", testAPIKey, testIV, []int64{2, 5}, testLogger())

	assert.True(t, a.Supports(2))
	assert.True(t, a.Supports(5))
	assert.False(t, a.Supports(1))
}

func TestTestPGAdapterApprove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, testPGApprovePath, r.URL.Path)
		require.Equal(t, testAPIKey, r.Header.Get(apiKeyHeader))

		var body testPGApproveBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// the envelope must round-trip to the original card payload
		plain, err := cardenc.Decrypt(body.Enc, testAPIKey, testIV)
		require.NoError(t, err)
		var info cardenc.CardInfo
		require.NoError(t, json.Unmarshal(plain, &info))
		assert.Equal(t, "1111-1111-1111-1111", info.CardNumber)

		writeJSON(t, w, http.StatusOK, testPGApproveResponse{
			ApprovalCode:    "APPROVAL-123",
			ApprovedAt:      "2024-01-01T00:00:00",
			MaskedCardLast4: "1111",
			Amount:          decimal.NewFromInt(10000),
			Status:          StatusApproved,
		})
	}))
	defer srv.Close()

	a := NewTestPGAdapter(srv.URL, testAPIKey, testIV, []int64{2}, testLogger())

	res, err := a.Approve(context.Background(), approveReq())
	require.NoError(t, err)
	assert.Equal(t, "APPROVAL-123", res.ApprovalCode)
	assert.Equal(t, StatusApproved, res.Status)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), res.ApprovedAt)
}

func TestTestPGAdapterMapsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, testPGErrorResponse{
			Code:        400,
			ErrorCode:   "BAD_REQUEST",
			Message:     "invalid card data",
			ReferenceID: "b48c79bd-e1b3-416a-a583-efe90d1ee438",
		})
	}))
	defer srv.Close()

	a := NewTestPGAdapter(srv.URL, testAPIKey, testIV, []int64{2}, testLogger())

	_, err := a.Approve(context.Background(), approveReq())

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "BAD_REQUEST", rejected.ErrorCode)
	assert.Equal(t, "invalid card data", rejected.Message)
	assert.Equal(t, "b48c79bd-e1b3-416a-a583-efe90d1ee438", rejected.ReferenceID)
}

func TestTestPGAdapterTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	a := NewTestPGAdapter(srv.URL, testAPIKey, testIV, []int64{2}, testLogger())
	a.timeout = 50 * time.Millisecond

	_, err := a.Approve(context.Background(), approveReq())
	assert.ErrorIs(t, err, ErrGatewayTimeout)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}
