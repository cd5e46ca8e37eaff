package order

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftfood/internal/pricing"
	"swiftfood/internal/promotion"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func userID(c *gin.Context) (string, bool) {
	id, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return id.(string), true
}

func writeError(c *gin.Context, err error) {
	var (
		notFound  *pricing.LineItemNotFoundError
		invalid   *pricing.InvalidSelectionError
		changed   *pricing.PriceChangedError
		badConfig *promotion.ConfigError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &changed):
		c.JSON(http.StatusConflict, gin.H{
			"error":            "price changed, please re-quote",
			"quoted_pence":     changed.QuotedPence,
			"recomputed_pence": changed.RecomputedPence,
		})
	case errors.As(err, &badConfig):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": badConfig.Reason})
	case errors.Is(err, pricing.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// --------------------------------------------------
// POST /orders/quote
// --------------------------------------------------
func (h *Handler) Quote() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote payload"})
			return
		}

		breakdown, err := h.service.Quote(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, breakdown)
	}
}

// --------------------------------------------------
// POST /orders
// --------------------------------------------------
func (h *Handler) Commit() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		var req CommitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload"})
			return
		}

		created, err := h.service.Commit(c.Request.Context(), uid, &req)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

// --------------------------------------------------
// GET /orders/:id
// --------------------------------------------------
func (h *Handler) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		o, err := h.service.GetForCustomer(c.Request.Context(), uid, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, o)
	}
}

// --------------------------------------------------
// GET /orders
// --------------------------------------------------
func (h *Handler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		orders, err := h.service.ListForCustomer(c.Request.Context(), uid)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}
