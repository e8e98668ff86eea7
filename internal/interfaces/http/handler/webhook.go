package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/printsync/backend/internal/application/sync"
	"github.com/printsync/backend/internal/domain/sync"
)

// Reconciler processes one inbound order-creation event for a shop
type Reconciler interface {
	Reconcile(ctx context.Context, shop string, order *sync.Order) syncapp.Outcome
}

// WebhookHandler handles Shopify webhook endpoints. Signature verification
// happens in middleware before these handlers run; from here on every
// request is authenticated.
type WebhookHandler struct {
	BaseHandler
	reconciler Reconciler
	merchants  sync.MerchantRepository
	mappings   sync.OrderMappingRepository
	activities sync.ActivityRepository

	// deliveries drops Shopify's retried deliveries up front. Optional:
	// when nil every delivery goes through, and the ledger still keeps
	// the sync exactly-once.
	deliveries  sync.DeliveryStore
	dedupWindow time.Duration

	logger *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(
	reconciler Reconciler,
	merchants sync.MerchantRepository,
	mappings sync.OrderMappingRepository,
	activities sync.ActivityRepository,
	deliveries sync.DeliveryStore,
	dedupWindow time.Duration,
	logger *zap.Logger,
) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		reconciler:  reconciler,
		merchants:   merchants,
		mappings:    mappings,
		activities:  activities,
		deliveries:  deliveries,
		dedupWindow: dedupWindow,
		logger:      logger,
	}
}

// RegisterRoutes registers webhook routes on the given group
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/create", h.HandleOrderCreate)
	rg.POST("/app/uninstalled", h.HandleAppUninstalled)
}

// WebhookResponse is the body returned to Shopify for every verified
// delivery. Sync failures are reported inside a 200: the outcome lives in
// the activity log, and a non-2xx would only make Shopify redeliver an
// order the ledger already guards.
type WebhookResponse struct {
	Received bool   `json:"received"`
	Synced   bool   `json:"synced"`
	Status   string `json:"status,omitempty"`
	QuoteID  string `json:"quote_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// HandleOrderCreate processes an orders/create delivery
func (h *WebhookHandler) HandleOrderCreate(c *gin.Context) {
	shop := c.GetHeader("X-Shopify-Shop-Domain")
	if shop == "" {
		h.BadRequest(c, "Missing X-Shopify-Shop-Domain header")
		return
	}

	if h.duplicateDelivery(c, shop) {
		c.JSON(http.StatusOK, WebhookResponse{
			Received: true,
			Message:  "Duplicate delivery ignored",
		})
		return
	}

	var order sync.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		h.BadRequest(c, "Invalid order payload")
		return
	}

	outcome := h.reconciler.Reconcile(c.Request.Context(), shop, &order)

	c.JSON(http.StatusOK, WebhookResponse{
		Received: true,
		Synced:   outcome.Success,
		Status:   string(outcome.Status),
		QuoteID:  outcome.QuoteID,
		Message:  outcome.Message,
	})
}

// duplicateDelivery records the delivery ID and reports whether it was
// already seen. Store failures count as unseen: a redundant reconciliation
// attempt is harmless, a dropped order is not.
func (h *WebhookHandler) duplicateDelivery(c *gin.Context, shop string) bool {
	if h.deliveries == nil {
		return false
	}
	deliveryID := c.GetHeader("X-Shopify-Webhook-Id")
	if deliveryID == "" {
		return false
	}

	isNew, err := h.deliveries.MarkDelivered(c.Request.Context(), deliveryID, h.dedupWindow)
	if err != nil {
		h.logger.Warn("delivery dedup store unavailable",
			zap.String("shop", shop),
			zap.String("delivery_id", deliveryID),
			zap.Error(err))
		return false
	}
	return !isNew
}

// HandleAppUninstalled erases all data held for a shop: policy, ledger
// rows, and activity history. Returns 500 on partial failure so Shopify
// redelivers and the erasure completes.
func (h *WebhookHandler) HandleAppUninstalled(c *gin.Context) {
	shop := c.GetHeader("X-Shopify-Shop-Domain")
	if shop == "" {
		h.BadRequest(c, "Missing X-Shopify-Shop-Domain header")
		return
	}

	ctx := c.Request.Context()

	for _, erase := range []struct {
		name string
		fn   func(context.Context, string) error
	}{
		{"activity_logs", h.activities.DeleteByShop},
		{"order_mappings", h.mappings.DeleteByShop},
		{"merchants", h.merchants.DeleteByShop},
	} {
		if err := erase.fn(ctx, shop); err != nil {
			h.logger.Error("uninstall data erasure failed",
				zap.String("shop", shop),
				zap.String("store", erase.name),
				zap.Error(err))
			h.InternalError(c, "Data erasure failed")
			return
		}
	}

	h.logger.Info("shop data erased on uninstall", zap.String("shop", shop))
	c.JSON(http.StatusOK, WebhookResponse{Received: true, Message: "Shop data removed"})
}
