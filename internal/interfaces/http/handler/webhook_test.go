package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	syncapp "github.com/printsync/backend/internal/application/sync"
	"github.com/printsync/backend/internal/domain/sync"
)

const testShop = "acme.myshopify.com"

type webhookFixture struct {
	reconciler *stubReconciler
	merchants  *fakeMerchantRepo
	mappings   *fakeMappingRepo
	activities *fakeActivityRepo
	deliveries *fakeDeliveryStore
	router     *gin.Engine
}

func newWebhookFixture(outcome syncapp.Outcome) *webhookFixture {
	gin.SetMode(gin.TestMode)

	f := &webhookFixture{
		reconciler: &stubReconciler{outcome: outcome},
		merchants:  newFakeMerchantRepo(),
		mappings:   &fakeMappingRepo{},
		activities: &fakeActivityRepo{},
		deliveries: newFakeDeliveryStore(),
	}

	h := NewWebhookHandler(
		f.reconciler, f.merchants, f.mappings, f.activities,
		f.deliveries, time.Hour, zap.NewNop(),
	)

	f.router = gin.New()
	h.RegisterRoutes(f.router.Group("/webhooks"))
	return f
}

func (f *webhookFixture) post(t *testing.T, path, shop, deliveryID string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if shop != "" {
		req.Header.Set("X-Shopify-Shop-Domain", shop)
	}
	if deliveryID != "" {
		req.Header.Set("X-Shopify-Webhook-Id", deliveryID)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeWebhookResponse(t *testing.T, w *httptest.ResponseRecorder) WebhookResponse {
	t.Helper()
	var resp WebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func orderPayload(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":    900123,
		"name":  "#1042",
		"email": "buyer@example.com",
	})
	require.NoError(t, err)
	return raw
}

func TestWebhookHandler_HandleOrderCreate(t *testing.T) {
	t.Run("successful sync returns outcome in 200", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{
			Success: true,
			Message: "Order synced successfully. New customer created. Quote ID: Q-100",
			QuoteID: "Q-100",
			Status:  sync.ActivityStatusSynced,
		})

		w := f.post(t, "/webhooks/orders/create", testShop, "dlv-1", orderPayload(t))

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeWebhookResponse(t, w)
		assert.True(t, resp.Received)
		assert.True(t, resp.Synced)
		assert.Equal(t, "Q-100", resp.QuoteID)
		assert.Equal(t, "synced", resp.Status)

		require.Equal(t, 1, f.reconciler.calls)
		assert.Equal(t, testShop, f.reconciler.shops[0])
		assert.Equal(t, int64(900123), f.reconciler.orders[0].ID)
		assert.Equal(t, "#1042", f.reconciler.orders[0].Name)
	})

	t.Run("sync failure still returns 200", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{
			Success: false,
			Message: "Printavo API key not configured",
			Status:  sync.ActivityStatusFailed,
		})

		w := f.post(t, "/webhooks/orders/create", testShop, "", orderPayload(t))

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeWebhookResponse(t, w)
		assert.True(t, resp.Received)
		assert.False(t, resp.Synced)
		assert.Equal(t, "failed", resp.Status)
		assert.Contains(t, resp.Message, "not configured")
	})

	t.Run("missing shop header", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{})

		w := f.post(t, "/webhooks/orders/create", "", "", orderPayload(t))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, f.reconciler.calls)
	})

	t.Run("malformed payload", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{})

		w := f.post(t, "/webhooks/orders/create", testShop, "", []byte(`{not json`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, f.reconciler.calls)
	})

	t.Run("duplicate delivery short-circuits", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{Success: true, QuoteID: "Q-100", Status: sync.ActivityStatusSynced})

		first := f.post(t, "/webhooks/orders/create", testShop, "dlv-7", orderPayload(t))
		assert.Equal(t, http.StatusOK, first.Code)

		second := f.post(t, "/webhooks/orders/create", testShop, "dlv-7", orderPayload(t))
		assert.Equal(t, http.StatusOK, second.Code)
		resp := decodeWebhookResponse(t, second)
		assert.True(t, resp.Received)
		assert.False(t, resp.Synced)
		assert.Equal(t, "Duplicate delivery ignored", resp.Message)

		assert.Equal(t, 1, f.reconciler.calls, "second delivery must not reach the pipeline")
	})

	t.Run("dedup store failure does not block the order", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{Success: true, QuoteID: "Q-100", Status: sync.ActivityStatusSynced})
		f.deliveries.err = errors.New("connection refused")

		w := f.post(t, "/webhooks/orders/create", testShop, "dlv-9", orderPayload(t))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, f.reconciler.calls)
	})

	t.Run("distinct deliveries both processed", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{Success: true, QuoteID: "Q-100", Status: sync.ActivityStatusSynced})

		f.post(t, "/webhooks/orders/create", testShop, "dlv-a", orderPayload(t))
		f.post(t, "/webhooks/orders/create", testShop, "dlv-b", orderPayload(t))

		assert.Equal(t, 2, f.reconciler.calls)
	})
}

func TestWebhookHandler_HandleAppUninstalled(t *testing.T) {
	t.Run("erases policy, ledger, and activity", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{})
		f.merchants.policies[testShop] = sync.NewMerchantPolicy(testShop)

		w := f.post(t, "/webhooks/app/uninstalled", testShop, "", []byte(`{}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{testShop}, f.merchants.deleted)
		assert.Equal(t, []string{testShop}, f.mappings.deleted)
		assert.Equal(t, []string{testShop}, f.activities.deleted)

		_, err := f.merchants.FindByShop(context.Background(), testShop)
		assert.ErrorIs(t, err, sync.ErrMerchantNotFound)
	})

	t.Run("missing shop header", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{})

		w := f.post(t, "/webhooks/app/uninstalled", "", "", []byte(`{}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("partial failure returns 500 for redelivery", func(t *testing.T) {
		f := newWebhookFixture(syncapp.Outcome{})
		f.mappings.deleteErr = errors.New("db unavailable")

		w := f.post(t, "/webhooks/app/uninstalled", testShop, "", []byte(`{}`))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
