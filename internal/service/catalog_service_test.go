package service

import (
	"context"
	"testing"

	"fincompare/internal/models"
	"fincompare/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeInstitutionStore struct {
	institutions []*models.Institution
}

func (f *fakeInstitutionStore) List(_ context.Context, instType models.InstitutionType) ([]*models.Institution, error) {
	if instType == "" {
		return f.institutions, nil
	}
	var out []*models.Institution
	for _, inst := range f.institutions {
		if inst.Type == instType {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (f *fakeInstitutionStore) GetByID(_ context.Context, id uuid.UUID) (*models.Institution, error) {
	for _, inst := range f.institutions {
		if inst.ID == id {
			return inst, nil
		}
	}
	return nil, repository.ErrNoRows
}

type fakeProductStore struct {
	products   []*models.Product
	categories []*models.ProductCategory
}

func (f *fakeProductStore) List(_ context.Context, filter repository.ProductFilter) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range f.products {
		if filter.InstitutionID != nil && p.InstitutionID != *filter.InstitutionID {
			continue
		}
		if filter.Category != "" && p.CategoryName != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductStore) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeProductStore) ListCategories(_ context.Context) ([]*models.ProductCategory, error) {
	return f.categories, nil
}

type fakeFeeStore struct {
	fees []*models.Fee
}

func (f *fakeFeeStore) List(_ context.Context, productID *uuid.UUID) ([]*models.Fee, error) {
	var out []*models.Fee
	for _, fee := range f.fees {
		if productID != nil && fee.ProductID != *productID {
			continue
		}
		out = append(out, fee)
	}
	return out, nil
}

func TestListInstitutionsByType(t *testing.T) {
	store := &fakeInstitutionStore{
		institutions: []*models.Institution{
			{ID: uuid.New(), Name: "Arab Bank", Type: models.InstitutionTypeBank},
			{ID: uuid.New(), Name: "Jordan Islamic Bank", Type: models.InstitutionTypeIslamicBank},
		},
	}
	svc := NewCatalogService(store, &fakeProductStore{}, &fakeFeeStore{}, &fakeAccountLister{}, zap.NewNop())

	all, err := svc.ListInstitutions(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	banks, err := svc.ListInstitutions(context.Background(), "Bank")
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, "Arab Bank", banks[0].Name)
}

func TestGetInstitutionWithAddress(t *testing.T) {
	inst := &models.Institution{
		ID:   uuid.New(),
		Name: "Arab Bank",
		Type: models.InstitutionTypeBank,
		Address: &models.Address{
			Country:     "Jordan",
			City:        "Amman",
			Street:      "Shmeisani",
			CountryCode: "JO",
		},
	}
	svc := NewCatalogService(&fakeInstitutionStore{institutions: []*models.Institution{inst}}, &fakeProductStore{}, &fakeFeeStore{}, &fakeAccountLister{}, zap.NewNop())

	resp, err := svc.GetInstitution(context.Background(), inst.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arab Bank", resp.Name)
	require.NotNil(t, resp.Address)
	assert.Equal(t, "Amman", resp.Address.City)

	_, err = svc.GetInstitution(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsFiltered(t *testing.T) {
	instID := uuid.New()
	store := &fakeProductStore{
		products: []*models.Product{
			{ID: uuid.New(), InstitutionID: instID, CommercialName: "Savings Plus", CategoryName: "Savings Accounts", Details: `{"interest_rate":"2.5%"}`},
			{ID: uuid.New(), InstitutionID: uuid.New(), CommercialName: "Gold Card", CategoryName: "Credit Cards", Details: `{}`},
		},
	}
	svc := NewCatalogService(&fakeInstitutionStore{}, store, &fakeFeeStore{}, &fakeAccountLister{}, zap.NewNop())

	products, err := svc.ListProducts(context.Background(), &instID, "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Savings Plus", products[0].CommercialName)
	assert.JSONEq(t, `{"interest_rate":"2.5%"}`, string(products[0].Details))

	products, err = svc.ListProducts(context.Background(), nil, "Credit Cards")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Gold Card", products[0].CommercialName)
}

func TestListProductFees(t *testing.T) {
	productID := uuid.New()
	products := &fakeProductStore{
		products: []*models.Product{{ID: productID, InstitutionID: uuid.New()}},
	}
	fees := &fakeFeeStore{
		fees: []*models.Fee{
			{ID: uuid.New(), ProductID: productID, Service: "Account Maintenance", Amount: decimal.RequireFromString("1.5"), Currency: "JOD"},
			{ID: uuid.New(), ProductID: uuid.New(), Service: "Other", Amount: decimal.Zero, Currency: "JOD"},
		},
	}
	svc := NewCatalogService(&fakeInstitutionStore{}, products, fees, &fakeAccountLister{}, zap.NewNop())

	out, err := svc.ListProductFees(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Account Maintenance", out[0].Service)
	assert.Equal(t, "1.50", out[0].Amount)

	_, err = svc.ListProductFees(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAccounts(t *testing.T) {
	accounts := &fakeAccountLister{accounts: []*models.Account{
		testAccount("Arab Bank", "JOD", "1500.00"),
		testAccount("Housing Bank", "USD", ""),
	}}
	svc := NewCatalogService(&fakeInstitutionStore{}, &fakeProductStore{}, &fakeFeeStore{}, accounts, zap.NewNop())

	out, err := svc.ListAccounts(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Arab Bank", out[0].Institution)
	assert.Equal(t, "1500.00", out[0].AvailableBalance)
	assert.Empty(t, out[1].AvailableBalance)
}
