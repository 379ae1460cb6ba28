package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fincompare/internal/models"
	"fincompare/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRateStore keeps rates newest-first per pair, matching storage order.
type fakeRateStore struct {
	rates     map[string][]*models.FXRate
	latestErr error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{rates: make(map[string][]*models.FXRate)}
}

func (f *fakeRateStore) add(source, target, value, inverse, institution string, age time.Duration) {
	rate := &models.FXRate{
		ID:                     uuid.New(),
		InstitutionID:          uuid.New(),
		SourceCurrency:         source,
		TargetCurrency:         target,
		ConversionValue:        decimal.RequireFromString(value),
		InverseConversionValue: decimal.RequireFromString(inverse),
		EffectiveDate:          time.Now().Add(-age),
		InstitutionName:        institution,
	}
	key := source + "/" + target
	f.rates[key] = append(f.rates[key], rate)
}

func (f *fakeRateStore) ListByPair(_ context.Context, source, target string, limit uint64) ([]*models.FXRate, error) {
	rates := f.rates[source+"/"+target]
	if limit > 0 && uint64(len(rates)) > limit {
		rates = rates[:limit]
	}
	return rates, nil
}

func (f *fakeRateStore) LatestByPair(ctx context.Context, source, target string) (*models.FXRate, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	rates, _ := f.ListByPair(ctx, source, target, 1)
	if len(rates) == 0 {
		return nil, repository.ErrNoRows
	}
	return rates[0], nil
}

func (f *fakeRateStore) ListByInstitution(_ context.Context, institutionID uuid.UUID, source, target string) ([]*models.FXRate, error) {
	var out []*models.FXRate
	for _, rates := range f.rates {
		for _, rate := range rates {
			if rate.InstitutionID != institutionID {
				continue
			}
			if source != "" && rate.SourceCurrency != source {
				continue
			}
			if target != "" && rate.TargetCurrency != target {
				continue
			}
			out = append(out, rate)
		}
	}
	return out, nil
}

func (f *fakeRateStore) Currencies(_ context.Context) ([]string, error) {
	return []string{"EUR", "GBP", "JOD", "USD"}, nil
}

func TestConvert(t *testing.T) {
	store := newFakeRateStore()
	store.add("USD", "JOD", "0.709", "1.4104", "Arab Bank", 0)
	svc := NewFXService(store, zap.NewNop())

	resp, err := svc.Convert(context.Background(), decimal.NewFromInt(1000), "USD", "JOD")
	require.NoError(t, err)
	assert.Equal(t, "709.00", resp.TargetAmount)
	assert.Equal(t, "0.709", resp.Rate)
	assert.Equal(t, "Arab Bank", resp.Institution)
	assert.Equal(t, "USD", resp.SourceCurrency)
	assert.Equal(t, "JOD", resp.TargetCurrency)
}

func TestConvertRoundsHalfUp(t *testing.T) {
	store := newFakeRateStore()
	store.add("USD", "EUR", "0.8555", "1.1689", "Arab Bank", 0)
	svc := NewFXService(store, zap.NewNop())

	// 10 * 0.8555 = 8.555 -> 8.56
	resp, err := svc.Convert(context.Background(), decimal.NewFromInt(10), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "8.56", resp.TargetAmount)
}

func TestConvertInvalidAmount(t *testing.T) {
	svc := NewFXService(newFakeRateStore(), zap.NewNop())

	_, err := svc.Convert(context.Background(), decimal.Zero, "USD", "JOD")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Convert(context.Background(), decimal.NewFromInt(-5), "USD", "JOD")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestConvertUnknownPair(t *testing.T) {
	svc := NewFXService(newFakeRateStore(), zap.NewNop())

	_, err := svc.Convert(context.Background(), decimal.NewFromInt(100), "USD", "XYZ")
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestConvertLowercaseCurrencies(t *testing.T) {
	store := newFakeRateStore()
	store.add("USD", "JOD", "0.709", "1.4104", "Arab Bank", 0)
	svc := NewFXService(store, zap.NewNop())

	resp, err := svc.Convert(context.Background(), decimal.NewFromInt(100), "usd", "jod")
	require.NoError(t, err)
	assert.Equal(t, "70.90", resp.TargetAmount)
	assert.Equal(t, "USD", resp.SourceCurrency)
	assert.Equal(t, "JOD", resp.TargetCurrency)
}

func TestConvertStoreFailure(t *testing.T) {
	store := newFakeRateStore()
	store.latestErr = errors.New("connection refused")
	svc := NewFXService(store, zap.NewNop())

	_, err := svc.Convert(context.Background(), decimal.NewFromInt(100), "USD", "JOD")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateNotFound, "storage failures must not read as a missing pair")
}

func TestPairRateStats(t *testing.T) {
	store := newFakeRateStore()
	store.add("USD", "EUR", "0.86", "1.1628", "Arab Bank", 0)
	store.add("USD", "EUR", "0.84", "1.1905", "Housing Bank", time.Hour)
	store.add("USD", "EUR", "0.85", "1.1765", "Jordan Kuwait Bank", 2*time.Hour)
	svc := NewFXService(store, zap.NewNop())

	resp, err := svc.PairRate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "0.86", resp.CurrentRate)
	assert.Equal(t, "Arab Bank", resp.Institution)
	assert.Equal(t, "0.84", resp.MinRate)
	assert.Equal(t, "0.86", resp.MaxRate)
	assert.Equal(t, "0.85", resp.AvgRate)
	assert.Len(t, resp.AllRates, 3)
}

func TestPairRateNotFound(t *testing.T) {
	svc := NewFXService(newFakeRateStore(), zap.NewNop())

	_, err := svc.PairRate(context.Background(), "USD", "XYZ")
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestPairRateLowercaseCurrencies(t *testing.T) {
	store := newFakeRateStore()
	store.add("USD", "EUR", "0.86", "1.1628", "Arab Bank", 0)
	svc := NewFXService(store, zap.NewNop())

	resp, err := svc.PairRate(context.Background(), "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, "0.86", resp.CurrentRate)
	assert.Equal(t, "USD", resp.SourceCurrency)
	assert.Equal(t, "EUR", resp.TargetCurrency)
}

func TestPopularRatesChangePercent(t *testing.T) {
	store := newFakeRateStore()
	// Latest 0.86, previous 0.80: change = 7.5%.
	store.add("USD", "EUR", "0.86", "1.1628", "Arab Bank", 0)
	store.add("USD", "EUR", "0.80", "1.25", "Arab Bank", time.Hour)
	// Single data point: change stays 0.
	store.add("USD", "JOD", "0.709", "1.4104", "Central Bank of Jordan", 0)
	svc := NewFXService(store, zap.NewNop())

	out, err := svc.PopularRates(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2, "pairs without data are skipped")

	assert.Equal(t, "USD/EUR", out[0].Pair)
	assert.InDelta(t, 7.5, out[0].ChangePercent, 0.0001)

	assert.Equal(t, "USD/JOD", out[1].Pair)
	assert.Zero(t, out[1].ChangePercent)
}

func TestCurrencies(t *testing.T) {
	svc := NewFXService(newFakeRateStore(), zap.NewNop())

	currencies, err := svc.Currencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"EUR", "GBP", "JOD", "USD"}, currencies)
}
