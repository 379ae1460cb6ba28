package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fincompare/internal/models"
	"fincompare/internal/openbanking"
	"fincompare/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrUnknownInstitution = errors.New("gateway institution is not in the catalog")

type openBankingGateway interface {
	Institution(ctx context.Context) (*openbanking.Institution, error)
	Products(ctx context.Context) ([]openbanking.Product, error)
	Fees(ctx context.Context, productCode string) ([]openbanking.Fee, error)
	FXRates(ctx context.Context) ([]openbanking.FXRate, error)
}

type rateWriter interface {
	Create(ctx context.Context, rate *models.FXRate) error
}

type productWriter interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.ProductCategory, error)
	Create(ctx context.Context, product *models.Product) error
}

type feeWriter interface {
	Create(ctx context.Context, fee *models.Fee) error
}

// SyncService pulls FX rates, products and fees from the open-banking
// gateway into the local catalog. Runs on a schedule when the gateway is
// configured.
type SyncService struct {
	gateway      openBankingGateway
	rates        rateWriter
	products     productWriter
	fees         feeWriter
	institutions institutionStore
	logger       *zap.Logger
}

func NewSyncService(gateway openBankingGateway, rates rateWriter, products productWriter, fees feeWriter, institutions institutionStore, logger *zap.Logger) *SyncService {
	return &SyncService{
		gateway:      gateway,
		rates:        rates,
		products:     products,
		fees:         fees,
		institutions: institutions,
		logger:       logger,
	}
}

// RefreshRates fetches the gateway's current FX rates and appends them to
// the rate history of the matching catalog institution. Rows the gateway
// sends with unparseable values are skipped, not fatal.
func (s *SyncService) RefreshRates(ctx context.Context) error {
	gwInst, err := s.gateway.Institution(ctx)
	if err != nil {
		return err
	}

	institutionID, err := s.resolveInstitution(ctx, gwInst.Name)
	if err != nil {
		return err
	}

	quotes, err := s.gateway.FXRates(ctx)
	if err != nil {
		return err
	}

	var stored int
	for _, quote := range quotes {
		rate, err := quoteToRate(institutionID, quote)
		if err != nil {
			s.logger.Warn("Skipping malformed FX quote",
				zap.String("pair", quote.SourceCurrency+"/"+quote.TargetCurrency),
				zap.Error(err),
			)
			continue
		}
		if err := s.rates.Create(ctx, rate); err != nil {
			return err
		}
		stored++
	}

	s.logger.Info("FX rates refreshed",
		zap.String("institution", gwInst.Name),
		zap.Int("stored", stored),
		zap.Int("received", len(quotes)),
	)
	return nil
}

// RefreshCatalog pulls the gateway's product list and stores products the
// catalog does not know yet, together with their fee schedules. Existing
// products are matched by product code and left untouched.
func (s *SyncService) RefreshCatalog(ctx context.Context) error {
	gwInst, err := s.gateway.Institution(ctx)
	if err != nil {
		return err
	}

	institutionID, err := s.resolveInstitution(ctx, gwInst.Name)
	if err != nil {
		return err
	}

	gwProducts, err := s.gateway.Products(ctx)
	if err != nil {
		return err
	}

	existing, err := s.products.List(ctx, repository.ProductFilter{InstitutionID: &institutionID})
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(existing))
	for _, product := range existing {
		known[product.ProductCode] = struct{}{}
	}

	categories, err := s.products.ListCategories(ctx)
	if err != nil {
		return err
	}

	var newProducts, newFees int
	for _, gwProduct := range gwProducts {
		if _, ok := known[gwProduct.ProductCode]; ok {
			continue
		}

		categoryID, ok := matchCategory(categories, gwProduct.Type)
		if !ok {
			s.logger.Warn("Skipping product with unknown category",
				zap.String("product", gwProduct.ProductCode),
				zap.String("category", gwProduct.Type),
			)
			continue
		}

		details := string(gwProduct.Details)
		if details == "" {
			details = "{}"
		}

		product := &models.Product{
			ID:             uuid.New(),
			InstitutionID:  institutionID,
			CategoryID:     categoryID,
			ProductCode:    gwProduct.ProductCode,
			CommercialName: gwProduct.CommercialName,
			Type:           gwProduct.Type,
			Description:    gwProduct.Description,
			Details:        details,
		}
		if err := s.products.Create(ctx, product); err != nil {
			return err
		}
		newProducts++

		gwFees, err := s.gateway.Fees(ctx, gwProduct.ProductCode)
		if err != nil {
			s.logger.Warn("Failed to fetch product fees",
				zap.String("product", gwProduct.ProductCode),
				zap.Error(err),
			)
			continue
		}
		for _, gwFee := range gwFees {
			fee, err := feeFromGateway(product.ID, gwFee)
			if err != nil {
				s.logger.Warn("Skipping malformed fee",
					zap.String("product", gwProduct.ProductCode),
					zap.String("fee", gwFee.FeeCode),
					zap.Error(err),
				)
				continue
			}
			if err := s.fees.Create(ctx, fee); err != nil {
				return err
			}
			newFees++
		}
	}

	s.logger.Info("Catalog refreshed",
		zap.String("institution", gwInst.Name),
		zap.Int("products", newProducts),
		zap.Int("fees", newFees),
	)
	return nil
}

func (s *SyncService) resolveInstitution(ctx context.Context, name string) (uuid.UUID, error) {
	institutions, err := s.institutions.List(ctx, "")
	if err != nil {
		return uuid.Nil, err
	}
	for _, inst := range institutions {
		if inst.Name == name {
			return inst.ID, nil
		}
	}
	return uuid.Nil, ErrUnknownInstitution
}

func matchCategory(categories []*models.ProductCategory, name string) (uuid.UUID, bool) {
	for _, cat := range categories {
		if strings.EqualFold(cat.Name, name) {
			return cat.ID, true
		}
	}
	return uuid.Nil, false
}

func feeFromGateway(productID uuid.UUID, gwFee openbanking.Fee) (*models.Fee, error) {
	amount, err := decimal.NewFromString(gwFee.Amount)
	if err != nil {
		return nil, err
	}

	return &models.Fee{
		ID:             uuid.New(),
		ProductID:      productID,
		FeeCode:        gwFee.FeeCode,
		ServiceChannel: gwFee.ServiceChannel,
		Service:        gwFee.Service,
		Category:       gwFee.Category,
		Amount:         amount,
		Currency:       gwFee.Currency,
		AdditionalInfo: gwFee.AdditionalInfo,
		FeeType:        gwFee.FeeType,
		LastModifiedAt: time.Now(),
	}, nil
}

func quoteToRate(institutionID uuid.UUID, quote openbanking.FXRate) (*models.FXRate, error) {
	value, err := decimal.NewFromString(quote.ConversionValue)
	if err != nil {
		return nil, err
	}

	inverse, err := decimal.NewFromString(quote.InverseConversionValue)
	if err != nil {
		if value.IsZero() {
			return nil, err
		}
		inverse = decimal.NewFromInt(1).Div(value).Round(6)
	}

	effective := time.Now()
	if quote.EffectiveDate != "" {
		if parsed, err := time.Parse(time.RFC3339, quote.EffectiveDate); err == nil {
			effective = parsed
		}
	}

	rate := &models.FXRate{
		ID:                     uuid.New(),
		InstitutionID:          institutionID,
		SourceCurrency:         quote.SourceCurrency,
		TargetCurrency:         quote.TargetCurrency,
		ConversionValue:        value,
		InverseConversionValue: inverse,
		EffectiveDate:          effective,
	}

	if min, err := decimal.NewFromString(quote.MinConversionValue); err == nil {
		rate.MinConversionValue = decimal.NewNullDecimal(min)
	}
	if max, err := decimal.NewFromString(quote.MaxConversionValue); err == nil {
		rate.MaxConversionValue = decimal.NewNullDecimal(max)
	}

	return rate, nil
}
