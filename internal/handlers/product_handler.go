package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/apperr"
	"storefront-backend/internal/catalog"
)

type ProductHandler struct {
	store *catalog.Store
	log   *slog.Logger
}

func NewProductHandler(store *catalog.Store, log *slog.Logger) *ProductHandler {
	return &ProductHandler{store: store, log: log}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, apperr.Internal("failed to fetch products", err))
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.log, apperr.NotFound("Product not found"))
		return
	}
	p, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, apperr.Internal("failed to fetch product", err))
		return
	}
	if !p.Available() {
		respondError(c, h.log, apperr.NotFound("Product not found"))
		return
	}
	c.JSON(http.StatusOK, p)
}
