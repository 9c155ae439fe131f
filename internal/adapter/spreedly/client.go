package spreedly

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"spreedly-bot/internal/domain/model"
	"spreedly-bot/internal/domain/ports"
)

const (
	DefaultBaseURL = "https://core.spreedly.com"
	apiVersionPath = "/v1"
	maxBodyBytes   = 1 << 20
	maxErrorText   = 512
)

// Client implements ports.PaymentGateway against the Spreedly REST+XML API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	environmentKey string
	accessSecret   string
	logger         ports.Logger
}

var _ ports.PaymentGateway = (*Client)(nil)

// New creates a Spreedly client. An empty baseURL uses DefaultBaseURL.
func New(baseURL, environmentKey, accessSecret string, timeout time.Duration, logger ports.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(baseURL, "/"),
		environmentKey: environmentKey,
		accessSecret:   accessSecret,
		logger:         logger,
	}
}

// ShowGateway retrieves a gateway.
func (c *Client) ShowGateway(ctx context.Context, token string) (*model.Record, error) {
	return c.record(ctx, http.MethodGet, "gateways/"+url.PathEscape(token)+".xml", nil)
}

// ListGateways retrieves every gateway on the environment.
func (c *Client) ListGateways(ctx context.Context) ([]*model.Record, error) {
	body, err := c.do(ctx, http.MethodGet, "gateways.xml", nil)
	if err != nil {
		return nil, err
	}

	gateways, err := DecodeList(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode gateways: %w", err)
	}
	return gateways, nil
}

// RedactGateway removes a gateway's stored credentials and returns the transaction.
func (c *Client) RedactGateway(ctx context.Context, token string) (*model.Record, error) {
	return c.record(ctx, http.MethodPut, "gateways/"+url.PathEscape(token)+"/redact.xml", nil)
}

// ShowPaymentMethod retrieves a payment method.
func (c *Client) ShowPaymentMethod(ctx context.Context, token string) (*model.Record, error) {
	return c.record(ctx, http.MethodGet, "payment_methods/"+url.PathEscape(token)+".xml", nil)
}

// RetainPaymentMethod marks a payment method as retained and returns the transaction.
func (c *Client) RetainPaymentMethod(ctx context.Context, token string) (*model.Record, error) {
	return c.record(ctx, http.MethodPut, "payment_methods/"+url.PathEscape(token)+"/retain.xml", nil)
}

// RedactPaymentMethod removes a payment method's sensitive data and returns the transaction.
func (c *Client) RedactPaymentMethod(ctx context.Context, token string) (*model.Record, error) {
	return c.record(ctx, http.MethodPut, "payment_methods/"+url.PathEscape(token)+"/redact.xml", nil)
}

// TokenizeCreditCard stores a credit card and returns the resulting transaction.
func (c *Client) TokenizeCreditCard(ctx context.Context, card model.CreditCard) (*model.Record, error) {
	body, err := xml.Marshal(newPaymentMethodRequest(card))
	if err != nil {
		return nil, fmt.Errorf("marshal payment method: %w", err)
	}
	return c.record(ctx, http.MethodPost, "payment_methods.xml", body)
}

// ShowTransaction retrieves a transaction.
func (c *Client) ShowTransaction(ctx context.Context, token string) (*model.Record, error) {
	return c.record(ctx, http.MethodGet, "transactions/"+url.PathEscape(token)+".xml", nil)
}

func (c *Client) record(ctx context.Context, method, path string, payload []byte) (*model.Record, error) {
	body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	record, err := DecodeRecord(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return record, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	endpoint := c.baseURL + apiVersionPath + "/" + path

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(append([]byte(xml.Header), payload...))
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.environmentKey, c.accessSecret)
	req.Header.Set("Accept", "application/xml")
	if payload != nil {
		req.Header.Set("Content-Type", "application/xml")
	}

	if c.logger != nil {
		c.logger.Debug(ctx, "calling spreedly", "method", method, "path", path)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newGatewayError(resp.StatusCode, data)
	}

	return data, nil
}

// newGatewayError extracts <errors><error key="...">message</error></errors>
// from a failed response. A failed transaction body contributes its <message>.
// Anything else is reported verbatim, trimmed.
func newGatewayError(status int, body []byte) *model.GatewayError {
	var payload struct {
		Errors []struct {
			Key     string `xml:"key,attr"`
			Message string `xml:",chardata"`
		} `xml:"error"`
	}

	gwErr := &model.GatewayError{StatusCode: status}
	if err := xml.Unmarshal(body, &payload); err == nil {
		for _, e := range payload.Errors {
			if msg := strings.TrimSpace(e.Message); msg != "" {
				gwErr.Messages = append(gwErr.Messages, msg)
			}
		}
	}

	if len(gwErr.Messages) == 0 {
		if msg := recordMessage(body); msg != "" {
			gwErr.Messages = append(gwErr.Messages, msg)
		}
	}

	if len(gwErr.Messages) == 0 {
		if text := strings.TrimSpace(string(body)); text != "" {
			gwErr.Messages = append(gwErr.Messages, truncateRunes(text, maxErrorText))
		}
	}
	return gwErr
}

// recordMessage returns the <message> of a record-shaped body such as a
// failed <transaction>.
func recordMessage(body []byte) string {
	record, err := DecodeRecord(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	v, ok := record.Get("message")
	if !ok || v.Kind() != model.KindScalar {
		return ""
	}
	msg, _ := v.Scalar().(string)
	return strings.TrimSpace(msg)
}

func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}
