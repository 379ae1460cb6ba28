package repository

import (
	"context"

	"fincompare/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProductRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProductRepository(db *pgxpool.Pool, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ProductRepository) CreateCategory(ctx context.Context, cat *models.ProductCategory) error {
	query := squirrel.Insert("product_categories").
		Columns("id", "name", "description", "node_level").
		Values(cat.ID, cat.Name, cat.Description, cat.NodeLevel).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ProductRepository) ListCategories(ctx context.Context) ([]*models.ProductCategory, error) {
	query := squirrel.Select("id", "name", "description", "node_level").
		From("product_categories").
		OrderBy("name").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.ProductCategory
	for rows.Next() {
		var cat models.ProductCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.NodeLevel); err != nil {
			return nil, err
		}
		categories = append(categories, &cat)
	}

	return categories, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := squirrel.Insert("products").
		Columns("id", "institution_id", "category_id", "product_code", "commercial_name", "product_type", "description", "details").
		Values(product.ID, product.InstitutionID, product.CategoryID, product.ProductCode, product.CommercialName, product.Type, product.Description, product.Details).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

type ProductFilter struct {
	InstitutionID *uuid.UUID
	Category      string
}

// List returns products with institution and category names resolved,
// ordered by institution then name so the catalog groups naturally.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	query := squirrel.Select(
		"p.id", "p.institution_id", "p.category_id", "p.product_code",
		"p.commercial_name", "p.product_type", "p.description", "p.details",
		"i.name", "c.name",
	).
		From("products p").
		Join("institutions i ON i.id = p.institution_id").
		Join("product_categories c ON c.id = p.category_id").
		OrderBy("i.name", "p.commercial_name").
		PlaceholderFormat(squirrel.Dollar)

	if filter.InstitutionID != nil {
		query = query.Where(squirrel.Eq{"p.institution_id": *filter.InstitutionID})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"c.name": filter.Category})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.InstitutionID, &p.CategoryID, &p.ProductCode,
			&p.CommercialName, &p.Type, &p.Description, &p.Details,
			&p.InstitutionName, &p.CategoryName,
		); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := squirrel.Select(
		"p.id", "p.institution_id", "p.category_id", "p.product_code",
		"p.commercial_name", "p.product_type", "p.description", "p.details",
		"i.name", "c.name",
	).
		From("products p").
		Join("institutions i ON i.id = p.institution_id").
		Join("product_categories c ON c.id = p.category_id").
		Where(squirrel.Eq{"p.id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.InstitutionID, &p.CategoryID, &p.ProductCode,
		&p.CommercialName, &p.Type, &p.Description, &p.Details,
		&p.InstitutionName, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
