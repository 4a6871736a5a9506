package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/stretchr/testify/assert"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestClient_VerifySignature(t *testing.T) {
	client := NewClient(config.RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "secret123"})

	signature := signPayload("secret123", "order_abc", "pay_xyz")

	assert.True(t, client.VerifySignature("order_abc", "pay_xyz", signature))
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", signature+"00"))
	assert.False(t, client.VerifySignature("order_other", "pay_xyz", signature))
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", ""))
}

func TestClient_VerifySignature_DifferentSecret(t *testing.T) {
	client := NewClient(config.RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "secret123"})
	forged := signPayload("another-secret", "order_abc", "pay_xyz")
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", forged))
}

func TestClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret123", pass)

		var req CreateOrderRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(50000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "receipt_42", req.Receipt)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(Order{
			ID:       "order_abc",
			Entity:   "order",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := NewClient(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "secret123",
		BaseURL:   server.URL,
	})

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		Amount:   50000,
		Currency: "INR",
		Receipt:  "receipt_42",
	})

	assert.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, "created", order.Status)
}

func TestClient_CreateOrder_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"description": "Authentication failed"}}`))
	}))
	defer server.Close()

	client := NewClient(config.RazorpayConfig{KeyID: "bad", KeySecret: "bad", BaseURL: server.URL})

	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100, Currency: "INR", Receipt: "r"})

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.Contains(t, err.Error(), "401")
}
