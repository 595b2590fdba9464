package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/apperr"
	"storefront-backend/internal/auth"
	"storefront-backend/internal/checkout"
	"storefront-backend/internal/order"
	"storefront-backend/internal/validation"
)

type OrderHandler struct {
	checkout *checkout.Service
	orders   *order.Service
	v        *validatorv10.Validate
	log      *slog.Logger
}

func NewOrderHandler(co *checkout.Service, orders *order.Service, v *validatorv10.Validate, log *slog.Logger) *OrderHandler {
	return &OrderHandler{checkout: co, orders: orders, v: v, log: log}
}

// Create handles POST /api/orders: the checkout operation.
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	var req validation.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	ord, err := h.checkout.Checkout(c.Request.Context(), userID, checkout.Input{
		ShippingAddress: order.ShippingAddress{
			FullName:   strings.TrimSpace(req.ShippingAddress.FullName),
			Address:    strings.TrimSpace(req.ShippingAddress.Address),
			City:       strings.TrimSpace(req.ShippingAddress.City),
			PostalCode: strings.TrimSpace(req.ShippingAddress.PostalCode),
			Country:    strings.TrimSpace(req.ShippingAddress.Country),
			Phone:      strings.TrimSpace(req.ShippingAddress.Phone),
		},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": ord})
}

func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	page, limit := pageParams(c)

	orders, pagination, err := h.orders.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "pagination": pagination})
}

func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.log, apperr.NotFound("Order not found"))
		return
	}

	ord, err := h.orders.Get(c.Request.Context(), orderID, userID, c.GetBool("isAdmin"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.log, apperr.NotFound("Order not found"))
		return
	}

	ord, err := h.orders.Cancel(c.Request.Context(), orderID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": ord})
}

func (h *OrderHandler) Pay(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		respondError(c, h.log, apperr.Forbidden("Invalid user identity"))
		return
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.log, apperr.NotFound("Order not found"))
		return
	}
	var req validation.PayOrderRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	ord, err := h.orders.MarkPaid(c.Request.Context(), orderID, userID, order.PaymentResult{
		ID:           req.PaymentResult.ID,
		Status:       req.PaymentResult.Status,
		UpdateTime:   req.PaymentResult.UpdateTime,
		EmailAddress: req.PaymentResult.EmailAddress,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment updated successfully", "order": ord})
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}
