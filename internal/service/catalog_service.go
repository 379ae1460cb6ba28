package service

import (
	"context"
	"encoding/json"
	"errors"

	"fincompare/internal/dto"
	"fincompare/internal/models"
	"fincompare/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

type institutionStore interface {
	List(ctx context.Context, instType models.InstitutionType) ([]*models.Institution, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Institution, error)
}

type productStore interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListCategories(ctx context.Context) ([]*models.ProductCategory, error)
}

type feeStore interface {
	List(ctx context.Context, productID *uuid.UUID) ([]*models.Fee, error)
}

type CatalogService struct {
	institutions institutionStore
	products     productStore
	fees         feeStore
	accounts     accountLister
	logger       *zap.Logger
}

func NewCatalogService(institutions institutionStore, products productStore, fees feeStore, accounts accountLister, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		institutions: institutions,
		products:     products,
		fees:         fees,
		accounts:     accounts,
		logger:       logger,
	}
}

func (s *CatalogService) ListInstitutions(ctx context.Context, instType string) ([]dto.InstitutionResponse, error) {
	institutions, err := s.institutions.List(ctx, models.InstitutionType(instType))
	if err != nil {
		return nil, err
	}

	out := make([]dto.InstitutionResponse, 0, len(institutions))
	for _, inst := range institutions {
		out = append(out, institutionResponse(inst))
	}

	return out, nil
}

func (s *CatalogService) GetInstitution(ctx context.Context, id uuid.UUID) (*dto.InstitutionResponse, error) {
	inst, err := s.institutions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := institutionResponse(inst)
	return &resp, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, institutionID *uuid.UUID, category string) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx, repository.ProductFilter{
		InstitutionID: institutionID,
		Category:      category,
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse(p))
	}

	return out, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.products.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, dto.CategoryResponse{
			ID:          cat.ID.String(),
			Name:        cat.Name,
			Description: cat.Description,
		})
	}

	return out, nil
}

// ListProductFees returns the fees of one product; the product must exist.
func (s *CatalogService) ListProductFees(ctx context.Context, productID uuid.UUID) ([]dto.FeeResponse, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.ListFees(ctx, &productID)
}

func (s *CatalogService) ListFees(ctx context.Context, productID *uuid.UUID) ([]dto.FeeResponse, error) {
	fees, err := s.fees.List(ctx, productID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FeeResponse, 0, len(fees))
	for _, fee := range fees {
		out = append(out, dto.FeeResponse{
			ID:             fee.ID.String(),
			ProductID:      fee.ProductID.String(),
			FeeCode:        fee.FeeCode,
			ServiceChannel: fee.ServiceChannel,
			Service:        fee.Service,
			Category:       fee.Category,
			Amount:         fee.Amount.StringFixed(2),
			Currency:       fee.Currency,
			AdditionalInfo: fee.AdditionalInfo,
			FeeType:        fee.FeeType,
		})
	}

	return out, nil
}

func (s *CatalogService) ListAccounts(ctx context.Context, userID uuid.UUID) ([]dto.AccountResponse, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, ac := range accounts {
		resp := dto.AccountResponse{
			ID:            ac.ID.String(),
			Institution:   ac.InstitutionName,
			AccountNumber: ac.AccountNumber,
			Status:        string(ac.Status),
			Currency:      ac.Currency,
		}
		if ac.AvailableBalance.Valid {
			resp.AvailableBalance = ac.AvailableBalance.Decimal.StringFixed(2)
		}
		out = append(out, resp)
	}

	return out, nil
}

func institutionResponse(inst *models.Institution) dto.InstitutionResponse {
	resp := dto.InstitutionResponse{
		ID:           inst.ID.String(),
		Name:         inst.Name,
		WebsiteURL:   inst.WebsiteURL,
		ContactEmail: inst.ContactEmail,
		ContactPhone: inst.ContactPhone,
		Type:         string(inst.Type),
		BICCode:      inst.BICCode,
	}

	if inst.Address != nil {
		resp.Address = &dto.AddressResponse{
			Country:     inst.Address.Country,
			City:        inst.Address.City,
			Street:      inst.Address.Street,
			Area:        inst.Address.Area,
			State:       inst.Address.State,
			Postcode:    inst.Address.Postcode,
			CountryCode: inst.Address.CountryCode,
		}
	}

	return resp
}

func productResponse(p *models.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             p.ID.String(),
		InstitutionID:  p.InstitutionID.String(),
		Institution:    p.InstitutionName,
		Category:       p.CategoryName,
		ProductCode:    p.ProductCode,
		CommercialName: p.CommercialName,
		Type:           p.Type,
		Description:    p.Description,
		Details:        json.RawMessage(p.Details),
	}
}
