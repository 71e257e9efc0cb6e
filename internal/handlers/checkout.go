package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vastusite/internal/service"
)

type createOrderRequest struct {
	PlanID   string `json:"planId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder issues a local order reference. No payment provider is contacted.
func (h HandlerSet) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	order, err := h.checkoutService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		PlanID:   req.PlanID,
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

type verifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (h HandlerSet) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c)
		return
	}

	err := h.checkoutService.VerifyPayment(c.Request.Context(), service.VerifyPaymentInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"paymentId": req.PaymentID,
	})
}
