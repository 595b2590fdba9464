package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/apperr"
	"storefront-backend/internal/auth"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/validation"
)

type CartHandler struct {
	svc *cart.Service
	v   *validatorv10.Validate
	log *slog.Logger
}

func NewCartHandler(svc *cart.Service, v *validatorv10.Validate, log *slog.Logger) *CartHandler {
	return &CartHandler{svc: svc, v: v, log: log}
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	crt, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, crt)
}

func (h *CartHandler) Add(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	var req validation.AddToCartRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)

	crt, err := h.svc.AddItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart successfully", "cart": crt})
}

func (h *CartHandler) Update(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	var req validation.UpdateCartRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)

	crt, err := h.svc.UpdateQuantity(c.Request.Context(), userID, productID, *req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully", "cart": crt})
}

func (h *CartHandler) Remove(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		respondError(c, h.log, apperr.NotFound("Product not found"))
		return
	}

	crt, err := h.svc.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart successfully", "cart": crt})
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	crt, err := h.svc.Clear(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully", "cart": crt})
}
