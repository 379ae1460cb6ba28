package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fincompare/internal/dto"
	"fincompare/internal/models"
	"fincompare/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrRateNotFound  = errors.New("rate not found for this currency pair")
	ErrInvalidAmount = errors.New("invalid amount")
)

// popularPairs mirrors the pairs highlighted on the FX dashboard.
var popularPairs = [][2]string{
	{"USD", "EUR"},
	{"USD", "GBP"},
	{"EUR", "GBP"},
	{"USD", "JPY"},
	{"USD", "JOD"},
}

type rateStore interface {
	ListByPair(ctx context.Context, source, target string, limit uint64) ([]*models.FXRate, error)
	LatestByPair(ctx context.Context, source, target string) (*models.FXRate, error)
	ListByInstitution(ctx context.Context, institutionID uuid.UUID, source, target string) ([]*models.FXRate, error)
	Currencies(ctx context.Context) ([]string, error)
}

type FXService struct {
	rates  rateStore
	logger *zap.Logger
}

func NewFXService(rates rateStore, logger *zap.Logger) *FXService {
	return &FXService{
		rates:  rates,
		logger: logger,
	}
}

// PairRate returns the latest rate for a currency pair together with
// per-institution rates and min/max/avg statistics across them.
// Currency codes are matched case-insensitively.
func (s *FXService) PairRate(ctx context.Context, source, target string) (*dto.PairRateResponse, error) {
	source, target = strings.ToUpper(source), strings.ToUpper(target)

	all, err := s.rates.ListByPair(ctx, source, target, 0)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrRateNotFound
	}

	latest := all[0]

	minRate := all[0].ConversionValue
	maxRate := all[0].ConversionValue
	sum := decimal.Zero
	allRates := make([]dto.RateResponse, 0, len(all))

	for _, rate := range all {
		if rate.ConversionValue.LessThan(minRate) {
			minRate = rate.ConversionValue
		}
		if rate.ConversionValue.GreaterThan(maxRate) {
			maxRate = rate.ConversionValue
		}
		sum = sum.Add(rate.ConversionValue)
		allRates = append(allRates, rateResponse(rate))
	}

	avg := sum.Div(decimal.NewFromInt(int64(len(all)))).Round(6)

	return &dto.PairRateResponse{
		SourceCurrency: source,
		TargetCurrency: target,
		CurrentRate:    latest.ConversionValue.String(),
		InverseRate:    latest.InverseConversionValue.String(),
		MinRate:        minRate.String(),
		MaxRate:        maxRate.String(),
		AvgRate:        avg.String(),
		Institution:    latest.InstitutionName,
		EffectiveDate:  latest.EffectiveDate.Format(time.RFC3339),
		AllRates:       allRates,
	}, nil
}

// Convert converts an amount using the latest rate for the pair, rounded
// half-up to 2 decimal places.
func (s *FXService) Convert(ctx context.Context, amount decimal.Decimal, source, target string) (*dto.ConversionResponse, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	source, target = strings.ToUpper(source), strings.ToUpper(target)

	rate, err := s.rates.LatestByPair(ctx, source, target)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrRateNotFound
		}
		return nil, err
	}

	converted := amount.Mul(rate.ConversionValue).Round(2)

	return &dto.ConversionResponse{
		SourceAmount:   amount.String(),
		SourceCurrency: source,
		TargetAmount:   converted.StringFixed(2),
		TargetCurrency: target,
		Rate:           rate.ConversionValue.String(),
		Institution:    rate.InstitutionName,
	}, nil
}

// PopularRates returns the latest rate per popular pair with the change
// percentage against the previous stored rate. Pairs without data are
// skipped.
func (s *FXService) PopularRates(ctx context.Context) ([]dto.PopularRateResponse, error) {
	out := make([]dto.PopularRateResponse, 0, len(popularPairs))

	for _, pair := range popularPairs {
		source, target := pair[0], pair[1]

		rates, err := s.rates.ListByPair(ctx, source, target, 2)
		if err != nil {
			return nil, err
		}
		if len(rates) == 0 {
			continue
		}

		latest := rates[0]
		changePercent := 0.0
		if len(rates) > 1 && !rates[1].ConversionValue.IsZero() {
			prev := rates[1].ConversionValue
			changePercent = latest.ConversionValue.Sub(prev).
				Div(prev).
				Mul(decimal.NewFromInt(100)).
				Round(2).
				InexactFloat64()
		}

		out = append(out, dto.PopularRateResponse{
			Pair:          source + "/" + target,
			Source:        source,
			Target:        target,
			Rate:          latest.ConversionValue.String(),
			ChangePercent: changePercent,
			Institution:   latest.InstitutionName,
			EffectiveDate: latest.EffectiveDate.Format(time.RFC3339),
		})
	}

	return out, nil
}

// InstitutionRates returns one institution's rates, optionally filtered by
// source and/or target currency.
func (s *FXService) InstitutionRates(ctx context.Context, institutionID uuid.UUID, source, target string) ([]dto.RateResponse, error) {
	rates, err := s.rates.ListByInstitution(ctx, institutionID, strings.ToUpper(source), strings.ToUpper(target))
	if err != nil {
		return nil, err
	}

	out := make([]dto.RateResponse, 0, len(rates))
	for _, rate := range rates {
		out = append(out, rateResponse(rate))
	}

	return out, nil
}

// Currencies returns every currency code known to the rate table, sorted.
func (s *FXService) Currencies(ctx context.Context) ([]string, error) {
	return s.rates.Currencies(ctx)
}

func rateResponse(rate *models.FXRate) dto.RateResponse {
	resp := dto.RateResponse{
		Institution:    rate.InstitutionName,
		SourceCurrency: rate.SourceCurrency,
		TargetCurrency: rate.TargetCurrency,
		Rate:           rate.ConversionValue.String(),
		InverseRate:    rate.InverseConversionValue.String(),
		EffectiveDate:  rate.EffectiveDate.Format(time.RFC3339),
	}

	if rate.MinConversionValue.Valid {
		v := rate.MinConversionValue.Decimal.String()
		resp.MinRate = &v
	}
	if rate.MaxConversionValue.Valid {
		v := rate.MaxConversionValue.Decimal.String()
		resp.MaxRate = &v
	}

	return resp
}
