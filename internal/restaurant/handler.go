package restaurant

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// GET /admin/restaurants
// --------------------------------------------------
func (h *Handler) ListApproved(c *gin.Context) {
	restaurants, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
}

// --------------------------------------------------
// PATCH /admin/restaurants/:id/commission
// --------------------------------------------------
func (h *Handler) SetCommission(c *gin.Context) {
	var req struct {
		CommissionRate float64 `json:"commission_rate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commission_rate is required"})
		return
	}

	err := h.service.SetCommissionRate(c.Request.Context(), c.Param("id"), req.CommissionRate)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "updated"})
	}
}
