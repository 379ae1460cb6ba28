package repository

import (
	"context"
	"time"

	"fincompare/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type OTPRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewOTPRepository(db *pgxpool.Pool, logger *zap.Logger) *OTPRepository {
	return &OTPRepository{
		db:     db,
		logger: logger,
	}
}

func (r *OTPRepository) Create(ctx context.Context, otp *models.OTPCode) error {
	query := squirrel.Insert("otp_codes").
		Columns("id", "user_id", "code", "purpose", "expires_at", "consumed_at", "created_at").
		Values(otp.ID, otp.UserID, otp.Code, otp.Purpose, otp.ExpiresAt, otp.ConsumedAt, otp.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// GetLatest returns the most recently issued code for the user and purpose,
// consumed or not. The service decides whether it is still usable.
func (r *OTPRepository) GetLatest(ctx context.Context, userID uuid.UUID, purpose models.OTPPurpose) (*models.OTPCode, error) {
	query := squirrel.Select("id", "user_id", "code", "purpose", "expires_at", "consumed_at", "created_at").
		From("otp_codes").
		Where(squirrel.Eq{"user_id": userID, "purpose": purpose}).
		OrderBy("created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var otp models.OTPCode
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&otp.ID, &otp.UserID, &otp.Code, &otp.Purpose, &otp.ExpiresAt, &otp.ConsumedAt, &otp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &otp, nil
}

func (r *OTPRepository) Consume(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := squirrel.Update("otp_codes").
		Set("consumed_at", at).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// DeleteExpired removes codes whose expiry passed before the cutoff and
// returns how many were deleted.
func (r *OTPRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := squirrel.Delete("otp_codes").
		Where(squirrel.Lt{"expires_at": before}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
