// Package openbanking talks to the upstream open-banking gateway that
// publishes institution, product, fee and FX data.
package openbanking

import (
	"context"
	"encoding/json"
	"fmt"

	"fincompare/pkg/config"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type Client struct {
	client      *resty.Client
	financialID string
}

func NewClient(cfg *config.OpenBankingConfig) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Accept", "application/json")

	return &Client{
		client:      client,
		financialID: cfg.FinancialID,
	}
}

// Institution is the gateway's view of a financial institution.
type Institution struct {
	Name         string `json:"name"`
	WebsiteURL   string `json:"websiteUrl"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Type         string `json:"institutionType"`
	BICCode      string `json:"bicCode"`
}

type Product struct {
	ProductCode    string          `json:"productCode"`
	CommercialName string          `json:"commercialName"`
	Type           string          `json:"productType"`
	Description    string          `json:"description"`
	Details        json.RawMessage `json:"details"`
}

type Fee struct {
	FeeCode        string `json:"feeCode"`
	ServiceChannel string `json:"serviceChannel"`
	Service        string `json:"service"`
	Category       string `json:"category"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	AdditionalInfo string `json:"additionalInfo"`
	FeeType        string `json:"feeType"`
}

type FXRate struct {
	SourceCurrency         string `json:"sourceCurrency"`
	TargetCurrency         string `json:"targetCurrency"`
	ConversionValue        string `json:"conversionValue"`
	InverseConversionValue string `json:"inverseConversionValue"`
	EffectiveDate          string `json:"effectiveDate"`
	MinConversionValue     string `json:"minConversionValue"`
	MaxConversionValue     string `json:"maxConversionValue"`
}

func (c *Client) Institution(ctx context.Context) (*Institution, error) {
	var out struct {
		Data Institution `json:"data"`
	}
	if err := c.get(ctx, "/institution", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out struct {
		Data []Product `json:"data"`
	}
	if err := c.get(ctx, "/products", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Fees(ctx context.Context, productCode string) ([]Fee, error) {
	var out struct {
		Data []Fee `json:"data"`
	}
	path := fmt.Sprintf("/products/%s/ssts", productCode)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) FXRates(ctx context.Context) ([]FXRate, error) {
	var out struct {
		Data []FXRate `json:"data"`
	}
	if err := c.get(ctx, "/fxs", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FXQuote asks the gateway for a quote on a single pair.
func (c *Client) FXQuote(ctx context.Context, source, target string) (*FXRate, error) {
	var out struct {
		Data FXRate `json:"data"`
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-financial-id", c.financialID).
		SetHeader("x-interactions-id", uuid.New().String()).
		SetHeader("x-idempotency-key", uuid.New().String()).
		SetQueryParams(map[string]string{
			"sourceCurrency": source,
			"targetCurrency": target,
		}).
		SetResult(&out).
		Get("/fxs/quote")
	if err != nil {
		return nil, fmt.Errorf("fx quote request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode(), resp.String())
	}
	return &out.Data, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-financial-id", c.financialID).
		SetHeader("x-interactions-id", uuid.New().String()).
		SetResult(result).
		Get(path)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("gateway error %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
