package openbanking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fincompare/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.OpenBankingConfig{
		BaseURL:     server.URL,
		FinancialID: "BANK01",
		Timeout:     5 * time.Second,
	})
}

func TestFXRates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fxs", r.URL.Path)
		assert.Equal(t, "BANK01", r.Header.Get("x-financial-id"))
		assert.NotEmpty(t, r.Header.Get("x-interactions-id"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{
			"sourceCurrency":"USD","targetCurrency":"JOD",
			"conversionValue":"0.709","inverseConversionValue":"1.410437",
			"effectiveDate":"2026-08-27T08:00:00Z"
		}]}`)
	})

	rates, err := client.FXRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "USD", rates[0].SourceCurrency)
	assert.Equal(t, "JOD", rates[0].TargetCurrency)
	assert.Equal(t, "0.709", rates[0].ConversionValue)
}

func TestFXQuoteSendsIdempotencyKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fxs/quote", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("sourceCurrency"))
		assert.Equal(t, "EUR", r.URL.Query().Get("targetCurrency"))
		assert.NotEmpty(t, r.Header.Get("x-idempotency-key"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"sourceCurrency":"USD","targetCurrency":"EUR","conversionValue":"0.85"}}`)
	})

	quote, err := client.FXQuote(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "0.85", quote.ConversionValue)
}

func TestInstitution(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/institution", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"name":"Arab Bank","institutionType":"Bank","bicCode":"ARABJOAX"}}`)
	})

	inst, err := client.Institution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Arab Bank", inst.Name)
	assert.Equal(t, "ARABJOAX", inst.BICCode)
}

func TestGatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	_, err := client.FXRates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
