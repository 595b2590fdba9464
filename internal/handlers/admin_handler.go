package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/internal/apperr"
	"storefront-backend/internal/catalog"
	"storefront-backend/internal/order"
	"storefront-backend/internal/validation"
)

// AdminHandler serves the admin-only order and catalog routes. Role
// enforcement happens in the router via auth.AdminOnly.
type AdminHandler struct {
	orders  *order.Service
	catalog *catalog.Store
	v       *validatorv10.Validate
	log     *slog.Logger
}

func NewAdminHandler(orders *order.Service, cat *catalog.Store, v *validatorv10.Validate, log *slog.Logger) *AdminHandler {
	return &AdminHandler{orders: orders, catalog: cat, v: v, log: log}
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, limit := pageParams(c)
	orders, pagination, err := h.orders.AdminList(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "pagination": pagination})
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.log, apperr.NotFound("Order not found"))
		return
	}
	var req validation.UpdateOrderStatusRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	ord, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": ord})
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req validation.CreateProductRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	p := &catalog.Product{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       *req.Stock,
		IsActive:    true,
	}
	if err := h.catalog.Create(c.Request.Context(), p); err != nil {
		respondError(c, h.log, apperr.Internal("failed to create product", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": p})
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.log, apperr.NotFound("Product not found"))
		return
	}
	var req validation.UpdateProductRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		fields["isActive"] = *req.IsActive
	}
	if len(fields) == 0 {
		respondError(c, h.log, apperr.New(apperr.KindValidation, "No fields to update"))
		return
	}

	p, err := h.catalog.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, h.log, apperr.Internal("failed to update product", err))
		return
	}
	if p == nil {
		respondError(c, h.log, apperr.NotFound("Product not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": p})
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondError(c, h.log, apperr.NotFound("Product not found"))
		return
	}
	found, err := h.catalog.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, apperr.Internal("failed to delete product", err))
		return
	}
	if !found {
		respondError(c, h.log, apperr.NotFound("Product not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
