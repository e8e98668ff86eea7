package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printsync/backend/internal/domain/sync"
	"github.com/printsync/backend/internal/interfaces/http/dto"
)

// ActivityHandler serves the merchant-facing sync activity feed
type ActivityHandler struct {
	BaseHandler
	activities sync.ActivityRepository
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activities sync.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// RegisterRoutes registers activity routes on the given group
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity", h.ListActivity)
}

// ActivityResponse is one activity feed entry. The message is shown to the
// merchant verbatim.
type ActivityResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	OrderName string    `json:"order_name"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ListActivity returns a page of activity records for a shop, newest first
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	shop := getShop(c)
	if shop == "" {
		h.BadRequest(c, "shop is required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}
	req.Normalize()

	records, total, err := h.activities.List(c.Request.Context(), shop, req.Page, req.PageSize)
	if err != nil {
		h.InternalError(c, "Failed to load activity")
		return
	}

	items := make([]ActivityResponse, 0, len(records))
	for _, r := range records {
		items = append(items, ActivityResponse{
			ID:        r.ID.String(),
			OrderID:   r.OrderID,
			OrderName: r.OrderName,
			Status:    string(r.Status),
			Message:   r.Message,
			CreatedAt: r.CreatedAt,
		})
	}

	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}
