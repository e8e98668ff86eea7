package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/printsync/backend/internal/domain/sync"
)

// SettingsHandler handles merchant sync settings. The reconciliation path
// only reads policies; all mutation goes through here.
type SettingsHandler struct {
	BaseHandler
	merchants sync.MerchantRepository
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(merchants sync.MerchantRepository) *SettingsHandler {
	return &SettingsHandler{merchants: merchants}
}

// RegisterRoutes registers settings routes on the given group
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	settings.GET("", h.GetSettings)
	settings.PUT("", h.UpdateSettings)
}

// GetSettings returns the policy for a shop
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	shop := getShop(c)
	if shop == "" {
		h.BadRequest(c, "shop is required")
		return
	}

	policy, err := h.merchants.FindByShop(c.Request.Context(), shop)
	if err != nil {
		if errors.Is(err, sync.ErrMerchantNotFound) {
			h.NotFound(c, "Merchant not found")
			return
		}
		h.InternalError(c, "Failed to load settings")
		return
	}

	h.Success(c, NewSettingsResponse(policy))
}

// UpdateSettings applies a partial policy update, creating the merchant
// with install defaults on first save
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	shop := getShop(c)
	if shop == "" {
		h.BadRequest(c, "shop is required")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid settings payload")
		return
	}

	if req.SyncMode != nil && !sync.SyncMode(*req.SyncMode).IsValid() {
		h.BadRequest(c, "sync_mode must be \"all\" or \"tagged\"")
		return
	}

	ctx := c.Request.Context()

	policy, err := h.merchants.FindByShop(ctx, shop)
	if err != nil {
		if !errors.Is(err, sync.ErrMerchantNotFound) {
			h.InternalError(c, "Failed to load settings")
			return
		}
		policy = sync.NewMerchantPolicy(shop)
	}

	req.Apply(policy)

	if err := h.merchants.Save(ctx, policy); err != nil {
		h.InternalError(c, "Failed to save settings")
		return
	}

	h.Success(c, NewSettingsResponse(policy))
}
