package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client stripe相容wire格式的HTTP實作
// form-encoded request + bearer secret key
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// toMinorUnit 轉成最小幣值單位 (e.g. 12.34 -> 1234)
func toMinorUnit(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (c *Client) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, orderID string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", toMinorUnit(amount)))
	form.Set("currency", strings.ToLower(currency))
	form.Set("metadata[order_id]", orderID)

	var intent Intent
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	var intent Intent
	err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(intentID), nil, &intent)
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) CreateRefund(ctx context.Context, intentID string, amount decimal.Decimal) (*Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", intentID)
	form.Set("amount", fmt.Sprintf("%d", toMinorUnit(amount)))

	var refund Refund
	if err := c.do(ctx, http.MethodPost, "/v1/refunds", form, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrIntentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrProviderRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding provider response: %w", err)
	}
	return nil
}

var _ IProvider = (*Client)(nil)
