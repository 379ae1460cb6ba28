package repository

import (
	"context"

	"fincompare/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var feeColumns = []string{"id", "product_id", "fee_code", "service_channel", "service", "category", "amount", "currency", "additional_info", "fee_type", "last_modified_at"}

type FeeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFeeRepository(db *pgxpool.Pool, logger *zap.Logger) *FeeRepository {
	return &FeeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) error {
	query := squirrel.Insert("fees").
		Columns(feeColumns...).
		Values(fee.ID, fee.ProductID, fee.FeeCode, fee.ServiceChannel, fee.Service, fee.Category, fee.Amount, fee.Currency, fee.AdditionalInfo, fee.FeeType, fee.LastModifiedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// List returns fees, optionally restricted to one product.
func (r *FeeRepository) List(ctx context.Context, productID *uuid.UUID) ([]*models.Fee, error) {
	query := squirrel.Select(feeColumns...).
		From("fees").
		OrderBy("service").
		PlaceholderFormat(squirrel.Dollar)

	if productID != nil {
		query = query.Where(squirrel.Eq{"product_id": *productID})
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

	var fees []*models.Fee
	for rows.Next() {
		var fee models.Fee
		if err := rows.Scan(
			&fee.ID, &fee.ProductID, &fee.FeeCode, &fee.ServiceChannel, &fee.Service,
			&fee.Category, &fee.Amount, &fee.Currency, &fee.AdditionalInfo, &fee.FeeType, &fee.LastModifiedAt,
		); err != nil {
			return nil, err
		}
		fees = append(fees, &fee)
	}

	return fees, rows.Err()
}
