package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/payments"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// OrdersClient creates payable orders with the payment gateway.
type OrdersClient interface {
	CreateOrder(ctx context.Context, order payments.CreateOrderRequest) (*payments.Order, error)
}

type PaymentHandler struct {
	orders   OrdersClient
	service  booking.BookingUseCase
	testMode bool
}

type createOrderRequest struct {
	Amount   float64           `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

func NewPaymentHandler(orders OrdersClient, service booking.BookingUseCase, testMode bool) *PaymentHandler {
	return &PaymentHandler{orders: orders, service: service, testMode: testMode}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/create-order", h.createOrder)
	router.POST("/verify-payment", h.verifyPayment)
}

func (h *PaymentHandler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 || req.Receipt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Amount and receipt are required"})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	amount := int64(req.Amount * 100)
	if h.testMode {
		// Charge 1 INR regardless of the booking total; the real amount stays
		// in the receipt and notes.
		amount = 100
		currency = "INR"
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), payments.CreateOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *PaymentHandler) verifyPayment(c *gin.Context) {
	var req booking.PaymentConfirmation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "missing required payment verification parameters or bookingId"})
		return
	}

	confirmed, err := h.service.ConfirmPayment(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Payment verified successfully",
		"orderId":       req.OrderID,
		"paymentId":     req.PaymentID,
		"bookingId":     confirmed.ID,
		"paymentStatus": string(confirmed.PaymentStatus),
	})
}
