package stripe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amara-dev/stripe-sync-gateway/internal/config"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
)

// Client is the port for the remote payment API.
type Client interface {
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
	CreateCustomer(ctx context.Context, params *CustomerParams) (*Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, params *CustomerParams) (*Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]Customer, error)

	ListPaymentMethods(ctx context.Context, customerID string, methodType domain.MethodType, limit int) ([]PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, paymentMethodID string) (*PaymentMethod, error)
	AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*PaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) (*PaymentMethod, error)
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	SetDefaultSource(ctx context.Context, customerID, sourceID string) error

	GetPaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
	CapturePaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
}

type HTTPClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(cfg config.StripeConfig) Client {
	return &HTTPClient{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

func (c *HTTPClient) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	endpoint := fmt.Sprintf("%s/v1/customers/%s", c.baseURL, customerID)
	return sendRequest[any, Customer](c, ctx, http.MethodGet, endpoint, nil)
}

func (c *HTTPClient) CreateCustomer(ctx context.Context, params *CustomerParams) (*Customer, error) {
	endpoint := fmt.Sprintf("%s/v1/customers", c.baseURL)
	return sendRequest[CustomerParams, Customer](c, ctx, http.MethodPost, endpoint, params)
}

func (c *HTTPClient) UpdateCustomer(ctx context.Context, customerID string, params *CustomerParams) (*Customer, error) {
	endpoint := fmt.Sprintf("%s/v1/customers/%s", c.baseURL, customerID)
	return sendRequest[CustomerParams, Customer](c, ctx, http.MethodPost, endpoint, params)
}

func (c *HTTPClient) SearchCustomers(ctx context.Context, query string) ([]Customer, error) {
	q := url.Values{}
	q.Set("query", query)
	endpoint := fmt.Sprintf("%s/v1/customers/search?%s", c.baseURL, q.Encode())

	result, err := sendRequest[any, list[Customer]](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *HTTPClient) ListPaymentMethods(ctx context.Context, customerID string, methodType domain.MethodType, limit int) ([]PaymentMethod, error) {
	q := url.Values{}
	q.Set("customer", customerID)
	q.Set("type", string(methodType))
	q.Set("limit", strconv.Itoa(limit))
	if methodType == domain.MethodSEPADebit {
		// Wrapped APMs need provenance expanded to recover their true type.
		q.Add("expand[]", "data.sepa_debit.generated_from.charge")
		q.Add("expand[]", "data.sepa_debit.generated_from.setup_attempt")
	}
	endpoint := fmt.Sprintf("%s/v1/payment_methods?%s", c.baseURL, q.Encode())

	result, err := sendRequest[any, list[PaymentMethod]](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *HTTPClient) GetPaymentMethod(ctx context.Context, paymentMethodID string) (*PaymentMethod, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_methods/%s", c.baseURL, paymentMethodID)
	return sendRequest[any, PaymentMethod](c, ctx, http.MethodGet, endpoint, nil)
}

func (c *HTTPClient) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*PaymentMethod, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_methods/%s/attach", c.baseURL, paymentMethodID)
	body := map[string]string{"customer": customerID}
	return sendRequest[map[string]string, PaymentMethod](c, ctx, http.MethodPost, endpoint, &body)
}

func (c *HTTPClient) DetachPaymentMethod(ctx context.Context, paymentMethodID string) (*PaymentMethod, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_methods/%s/detach", c.baseURL, paymentMethodID)
	return sendRequest[any, PaymentMethod](c, ctx, http.MethodPost, endpoint, nil)
}

func (c *HTTPClient) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	endpoint := fmt.Sprintf("%s/v1/customers/%s", c.baseURL, customerID)
	body := map[string]any{
		"invoice_settings": map[string]string{
			"default_payment_method": paymentMethodID,
		},
	}
	_, err := sendRequest[map[string]any, Customer](c, ctx, http.MethodPost, endpoint, &body)
	return err
}

func (c *HTTPClient) SetDefaultSource(ctx context.Context, customerID, sourceID string) error {
	endpoint := fmt.Sprintf("%s/v1/customers/%s", c.baseURL, customerID)
	body := map[string]any{"default_source": sourceID}
	_, err := sendRequest[map[string]any, Customer](c, ctx, http.MethodPost, endpoint, &body)
	return err
}

func (c *HTTPClient) GetPaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_intents/%s", c.baseURL, intentID)
	return sendRequest[any, PaymentIntent](c, ctx, http.MethodGet, endpoint, nil)
}

func (c *HTTPClient) CapturePaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_intents/%s/capture", c.baseURL, intentID)
	return sendRequest[any, PaymentIntent](c, ctx, http.MethodPost, endpoint, nil)
}

func sendRequest[Req any, Resp any](c *HTTPClient, ctx context.Context, method, endpoint string, reqBody *Req) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == nil {
			return nil, fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, string(body))
		}
		errResp.Error.StatusCode = resp.StatusCode
		return nil, errResp.Error
	}

	var apiResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &apiResp, nil
}
