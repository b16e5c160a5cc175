package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент реестров: клиенты, грумеры, тарифы
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента реестров
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCustomer получает клиента по ID
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	var customer Customer
	url := fmt.Sprintf("%s/internal/customers/%d", c.baseURL, customerID)
	if err := c.getJSON(ctx, url, ErrCustomerNotFound, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetGroomer получает грумера по ID
func (c *Client) GetGroomer(ctx context.Context, groomerID int64) (*Groomer, error) {
	var groomer Groomer
	url := fmt.Sprintf("%s/internal/groomers/%d", c.baseURL, groomerID)
	if err := c.getJSON(ctx, url, ErrGroomerNotFound, &groomer); err != nil {
		return nil, err
	}
	return &groomer, nil
}

// GetPricing получает тариф по ID
func (c *Client) GetPricing(ctx context.Context, pricingID int64) (*Pricing, error) {
	var pricing Pricing
	url := fmt.Sprintf("%s/internal/pricing/%d", c.baseURL, pricingID)
	if err := c.getJSON(ctx, url, ErrPricingNotFound, &pricing); err != nil {
		return nil, err
	}

	c.log.Info("Fetched pricing id=%d service=%s price=%s", pricing.ID, pricing.ServiceName, pricing.Price)
	return &pricing, nil
}

func (c *Client) getJSON(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Directory request failed url=%s: %v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
