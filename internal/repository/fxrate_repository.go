package repository

import (
	"context"

	"fincompare/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const fxRateSelect = "r.id, r.institution_id, r.source_currency, r.target_currency, " +
	"r.conversion_value, r.inverse_conversion_value, r.effective_date, " +
	"r.min_conversion_value, r.max_conversion_value, i.name"

type FXRateRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFXRateRepository(db *pgxpool.Pool, logger *zap.Logger) *FXRateRepository {
	return &FXRateRepository{
		db:     db,
		logger: logger,
	}
}

func (r *FXRateRepository) Create(ctx context.Context, rate *models.FXRate) error {
	query := squirrel.Insert("fx_rates").
		Columns("id", "institution_id", "source_currency", "target_currency",
			"conversion_value", "inverse_conversion_value", "effective_date",
			"min_conversion_value", "max_conversion_value").
		Values(rate.ID, rate.InstitutionID, rate.SourceCurrency, rate.TargetCurrency,
			rate.ConversionValue, rate.InverseConversionValue, rate.EffectiveDate,
			rate.MinConversionValue, rate.MaxConversionValue).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListByPair returns rates for a currency pair, newest first. A zero limit
// means no limit.
func (r *FXRateRepository) ListByPair(ctx context.Context, source, target string, limit uint64) ([]*models.FXRate, error) {
	query := squirrel.Select(fxRateSelect).
		From("fx_rates r").
		Join("institutions i ON i.id = r.institution_id").
		Where(squirrel.Eq{"r.source_currency": source, "r.target_currency": target}).
		OrderBy("r.effective_date DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		query = query.Limit(limit)
	}

	return r.queryRates(ctx, query)
}

// LatestByPair returns the most recent rate for a currency pair, or
// pgx.ErrNoRows when the pair is unknown.
func (r *FXRateRepository) LatestByPair(ctx context.Context, source, target string) (*models.FXRate, error) {
	rates, err := r.ListByPair(ctx, source, target, 1)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, ErrNoRows
	}
	return rates[0], nil
}

// ListByInstitution returns an institution's rates, optionally filtered by
// source and/or target currency, newest first.
func (r *FXRateRepository) ListByInstitution(ctx context.Context, institutionID uuid.UUID, source, target string) ([]*models.FXRate, error) {
	query := squirrel.Select(fxRateSelect).
		From("fx_rates r").
		Join("institutions i ON i.id = r.institution_id").
		Where(squirrel.Eq{"r.institution_id": institutionID}).
		OrderBy("r.effective_date DESC").
		PlaceholderFormat(squirrel.Dollar)

	if source != "" {
		query = query.Where(squirrel.Eq{"r.source_currency": source})
	}
	if target != "" {
		query = query.Where(squirrel.Eq{"r.target_currency": target})
	}

	return r.queryRates(ctx, query)
}

// Currencies returns every currency code that appears on either side of a
// stored rate, sorted.
func (r *FXRateRepository) Currencies(ctx context.Context) ([]string, error) {
	sql := `SELECT source_currency AS currency FROM fx_rates
		UNION
		SELECT target_currency FROM fx_rates
		ORDER BY currency`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var currencies []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		currencies = append(currencies, c)
	}

	return currencies, rows.Err()
}

func (r *FXRateRepository) queryRates(ctx context.Context, query squirrel.SelectBuilder) ([]*models.FXRate, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []*models.FXRate
	for rows.Next() {
		var rate models.FXRate
		if err := rows.Scan(
			&rate.ID, &rate.InstitutionID, &rate.SourceCurrency, &rate.TargetCurrency,
			&rate.ConversionValue, &rate.InverseConversionValue, &rate.EffectiveDate,
			&rate.MinConversionValue, &rate.MaxConversionValue, &rate.InstitutionName,
		); err != nil {
			return nil, err
		}
		rates = append(rates, &rate)
	}

	return rates, rows.Err()
}
