package repository

import (
	"context"

	"fincompare/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type AccountRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAccountRepository(db *pgxpool.Pool, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := squirrel.Insert("accounts").
		Columns("id", "user_id", "institution_id", "product_id", "account_number", "status", "currency", "available_balance").
		Values(account.ID, account.UserID, account.InstitutionID, account.ProductID, account.AccountNumber, account.Status, account.Currency, account.AvailableBalance).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListByUser returns the user's accounts with the institution name resolved.
func (r *AccountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Account, error) {
	query := squirrel.Select(
		"ac.id", "ac.user_id", "ac.institution_id", "ac.product_id",
		"ac.account_number", "ac.status", "ac.currency", "ac.available_balance",
		"i.name",
	).
		From("accounts ac").
		Join("institutions i ON i.id = ac.institution_id").
		Where(squirrel.Eq{"ac.user_id": userID}).
		OrderBy("i.name", "ac.account_number").
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

	var accounts []*models.Account
	for rows.Next() {
		var ac models.Account
		if err := rows.Scan(
			&ac.ID, &ac.UserID, &ac.InstitutionID, &ac.ProductID,
			&ac.AccountNumber, &ac.Status, &ac.Currency, &ac.AvailableBalance,
			&ac.InstitutionName,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, &ac)
	}

	return accounts, rows.Err()
}
