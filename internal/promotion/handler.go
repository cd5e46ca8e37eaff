package promotion

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

func userID(c *gin.Context) (string, bool) {
	id, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return id.(string), true
}

func writeError(c *gin.Context, err error) {
	var cfgErr *ConfigError
	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": cfgErr.Reason})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "promotion not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// --------------------------------------------------
// POST /restaurants/:id/promotions
// --------------------------------------------------
func (h *Handler) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		var p Promotion
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid promotion payload"})
			return
		}
		p.RestaurantID = c.Param("id")

		created, err := h.service.Create(c.Request.Context(), uid, &p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// --------------------------------------------------
// GET /restaurants/:id/promotions
// --------------------------------------------------
func (h *Handler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		promos, err := h.service.List(c.Request.Context(), uid, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"promotions": promos})
	}
}

// --------------------------------------------------
// PUT /restaurants/:id/promotions/:promoID
// --------------------------------------------------
func (h *Handler) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		var p Promotion
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid promotion payload"})
			return
		}
		p.RestaurantID = c.Param("id")
		p.ID = c.Param("promoID")

		updated, err := h.service.Update(c.Request.Context(), uid, &p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// --------------------------------------------------
// DELETE /restaurants/:id/promotions/:promoID
// --------------------------------------------------
func (h *Handler) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		err := h.service.Delete(c.Request.Context(), uid, c.Param("id"), c.Param("promoID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
