package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/payments"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrdersClient struct {
	mock.Mock
}

func (m *MockOrdersClient) CreateOrder(ctx context.Context, order payments.CreateOrderRequest) (*payments.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Order), args.Error(1)
}

func newPaymentsRouter(orders OrdersClient, service booking.BookingUseCase, testMode bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/payments", func(c *gin.Context) {
		c.Set(auth.UserIDKey, int64(7))
	})
	NewPaymentHandler(orders, service, testMode).Register(group)
	return router
}

func TestPaymentHandler_CreateOrder(t *testing.T) {
	mockOrders := &MockOrdersClient{}
	router := newPaymentsRouter(mockOrders, &MockBookingUseCase{}, false)

	mockOrders.On("CreateOrder", mock.Anything, payments.CreateOrderRequest{
		Amount:   50000,
		Currency: "USD",
		Receipt:  "booking_42",
	}).Return(&payments.Order{ID: "order_abc", Status: "created", Amount: 50000, Currency: "USD"}, nil).Once()

	body := `{"amount": 500, "currency": "USD", "receipt": "booking_42"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-order", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "order_abc")

	mockOrders.AssertExpectations(t)
}

func TestPaymentHandler_CreateOrder_TestModePinsAmount(t *testing.T) {
	mockOrders := &MockOrdersClient{}
	router := newPaymentsRouter(mockOrders, &MockBookingUseCase{}, true)

	mockOrders.On("CreateOrder", mock.Anything, payments.CreateOrderRequest{
		Amount:   100,
		Currency: "INR",
		Receipt:  "booking_42",
	}).Return(&payments.Order{ID: "order_abc", Status: "created", Amount: 100, Currency: "INR"}, nil).Once()

	body := `{"amount": 500, "currency": "USD", "receipt": "booking_42"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-order", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	mockOrders.AssertExpectations(t)
}

func TestPaymentHandler_CreateOrder_MissingFields(t *testing.T) {
	mockOrders := &MockOrdersClient{}
	router := newPaymentsRouter(mockOrders, &MockBookingUseCase{}, false)

	testCases := []string{
		`{"currency": "USD", "receipt": "booking_42"}`,
		`{"amount": 500, "currency": "USD"}`,
		`{"amount": 0, "receipt": "booking_42"}`,
		`not json`,
	}

	for _, body := range testCases {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-order", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Amount and receipt are required")
	}

	mockOrders.AssertNotCalled(t, "CreateOrder")
}

func TestPaymentHandler_CreateOrder_UpstreamError(t *testing.T) {
	mockOrders := &MockOrdersClient{}
	router := newPaymentsRouter(mockOrders, &MockBookingUseCase{}, false)

	mockOrders.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, domain.ErrUpstream).Once()

	body := `{"amount": 500, "receipt": "booking_42"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/create-order", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPaymentHandler_VerifyPayment(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newPaymentsRouter(&MockOrdersClient{}, mockService, false)

	paid := sampleBooking()
	paid.PaymentStatus = domain.PaymentStatusCompleted
	mockService.On("ConfirmPayment", mock.Anything, booking.PaymentConfirmation{
		OrderID:   "order_abc",
		PaymentID: "pay_xyz",
		Signature: "sig",
		BookingID: 42,
	}).Return(paid, nil).Once()

	body := `{"razorpay_order_id": "order_abc", "razorpay_payment_id": "pay_xyz", "razorpay_signature": "sig", "bookingId": 42}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/verify-payment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Payment verified successfully")
	assert.Contains(t, w.Body.String(), `"paymentStatus":"COMPLETED"`)

	mockService.AssertExpectations(t)
}

func TestPaymentHandler_VerifyPayment_InvalidSignature(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newPaymentsRouter(&MockOrdersClient{}, mockService, false)

	mockService.On("ConfirmPayment", mock.Anything, mock.Anything).
		Return(nil, domain.ErrInvalidSignature).Once()

	body := `{"razorpay_order_id": "order_abc", "razorpay_payment_id": "pay_xyz", "razorpay_signature": "bad", "bookingId": 42}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/verify-payment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid signature")
}

func TestPaymentHandler_VerifyPayment_BookingNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newPaymentsRouter(&MockOrdersClient{}, mockService, false)

	mockService.On("ConfirmPayment", mock.Anything, mock.Anything).
		Return(nil, domain.ErrNotFound).Once()

	body := `{"razorpay_order_id": "order_abc", "razorpay_payment_id": "pay_xyz", "razorpay_signature": "sig", "bookingId": 999}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/verify-payment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
