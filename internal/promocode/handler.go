package promocode

import (
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
// POST /promo-codes/validate
// --------------------------------------------------
func (h *Handler) Validate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code          string `json:"code" binding:"required"`
			SubtotalPence int64  `json:"subtotal_pence" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code and subtotal_pence are required"})
			return
		}

		result, err := h.service.Validate(c.Request.Context(), req.Code, req.SubtotalPence)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "promo code validation unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"valid":          result.Valid,
			"discount_pence": result.DiscountPence,
			"reason":         result.Reason,
		})
	}
}

// --------------------------------------------------
// POST /admin/promo-codes
// --------------------------------------------------
func (h *Handler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var code PromoCode
		if err := c.ShouldBindJSON(&code); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid promo code payload"})
			return
		}

		created, err := h.service.Create(c.Request.Context(), &code)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}
