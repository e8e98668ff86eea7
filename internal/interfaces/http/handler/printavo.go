package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/printsync/backend/internal/domain/sync"
)

// PrintavoHandler exposes the Printavo connection test used by the
// settings screen to validate an API key before saving it
type PrintavoHandler struct {
	BaseHandler
	merchants     sync.MerchantRepository
	platform      sync.ProductionPlatform
	defaultAPIKey string
}

// NewPrintavoHandler creates a new PrintavoHandler
func NewPrintavoHandler(merchants sync.MerchantRepository, platform sync.ProductionPlatform, defaultAPIKey string) *PrintavoHandler {
	return &PrintavoHandler{
		merchants:     merchants,
		platform:      platform,
		defaultAPIKey: defaultAPIKey,
	}
}

// RegisterRoutes registers Printavo routes on the given group
func (h *PrintavoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/printavo/test", h.TestConnection)
}

// TestConnectionRequest optionally carries an unsaved API key to probe.
// Without one, the shop's stored key (or the process default) is used.
type TestConnectionRequest struct {
	APIKey string `json:"api_key"`
}

// TestConnectionResponse reports the probe result
type TestConnectionResponse struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
}

// TestConnection verifies a Printavo API key with a minimal query
func (h *PrintavoHandler) TestConnection(c *gin.Context) {
	var req TestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request payload")
		return
	}

	ctx := c.Request.Context()

	apiKey := req.APIKey
	if apiKey == "" {
		shop := getShop(c)
		if shop == "" {
			h.BadRequest(c, "shop or api_key is required")
			return
		}

		policy, err := h.merchants.FindByShop(ctx, shop)
		if err != nil {
			if errors.Is(err, sync.ErrMerchantNotFound) {
				h.NotFound(c, "Merchant not found")
				return
			}
			h.InternalError(c, "Failed to load settings")
			return
		}

		apiKey = policy.PrintavoAPIKey
		if apiKey == "" {
			apiKey = h.defaultAPIKey
		}
		if apiKey == "" {
			h.Success(c, TestConnectionResponse{
				Connected: false,
				Message:   "Printavo API key not configured",
			})
			return
		}
	}

	if err := h.platform.TestConnection(ctx, apiKey); err != nil {
		h.Success(c, TestConnectionResponse{
			Connected: false,
			Message:   "Connection failed: " + err.Error(),
		})
		return
	}

	h.Success(c, TestConnectionResponse{
		Connected: true,
		Message:   "Connection successful",
	})
}
