package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
)

const defaultBaseURL = "https://api.razorpay.com"

// Order is the provider order document, returned to the client verbatim so the
// checkout flow can open it.
type Order struct {
	ID        string            `json:"id"`
	Entity    string            `json:"entity"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Receipt   string            `json:"receipt"`
	Status    string            `json:"status"`
	Notes     map[string]string `json:"notes,omitempty"`
	CreatedAt int64             `json:"created_at"`
}

type CreateOrderRequest struct {
	Amount   int64             `json:"amount"` // smallest currency unit (paise)
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.RazorpayConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) CreateOrder(ctx context.Context, order CreateOrderRequest) (*Order, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: razorpay order create: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: razorpay order create returned %d: %s", domain.ErrUpstream, resp.StatusCode, string(b))
	}

	var created Order
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: decode razorpay order: %v", domain.ErrUpstream, err)
	}
	return &created, nil
}

// VerifySignature checks the checkout callback signature: an HMAC-SHA256 over
// "orderID|paymentID" keyed with the account secret, hex encoded.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
