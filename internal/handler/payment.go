package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oskarn/go-storefront/internal/dto"
	"github.com/oskarn/go-storefront/internal/middleware"
	"github.com/oskarn/go-storefront/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent, err := h.paymentService.CreateIntent(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCoupon):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon code"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, intent)
}

func (h *PaymentHandler) NewCoupon(c *gin.Context) {
	var req dto.NewCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.paymentService.CreateCoupon(c.Request.Context(), req.Code, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrCouponExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "coupon code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, dto.CouponResponse{ID: coupon.ID, Code: coupon.Code, Amount: coupon.Amount})
}

func (h *PaymentHandler) ApplyDiscount(c *gin.Context) {
	var req dto.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := h.paymentService.ApplyDiscount(c.Request.Context(), req.Coupon)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoupon) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"discount": amount})
}

func (h *PaymentHandler) Coupons(c *gin.Context) {
	coupons, err := h.paymentService.ListCoupons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resp := make([]dto.CouponResponse, 0, len(coupons))
	for _, cp := range coupons {
		resp = append(resp, dto.CouponResponse{ID: cp.ID, Code: cp.Code, Amount: cp.Amount})
	}
	c.JSON(http.StatusOK, gin.H{"coupons": resp})
}

func (h *PaymentHandler) GetCoupon(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon ID"})
		return
	}

	coupon, err := h.paymentService.GetCoupon(c.Request.Context(), couponID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoupon) {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.CouponResponse{ID: coupon.ID, Code: coupon.Code, Amount: coupon.Amount})
}

func (h *PaymentHandler) UpdateCoupon(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon ID"})
		return
	}

	var req dto.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.paymentService.UpdateCoupon(c.Request.Context(), couponID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCoupon):
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
		case errors.Is(err, service.ErrCouponExists):
			c.JSON(http.StatusConflict, gin.H{"error": "coupon code already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.CouponResponse{ID: coupon.ID, Code: coupon.Code, Amount: coupon.Amount})
}

func (h *PaymentHandler) DeleteCoupon(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon ID"})
		return
	}

	coupon, err := h.paymentService.DeleteCoupon(c.Request.Context(), couponID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoupon) {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.CouponResponse{ID: coupon.ID, Code: coupon.Code, Amount: coupon.Amount})
}
