package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Fee struct {
	ID             uuid.UUID       `db:"id"`
	ProductID      uuid.UUID       `db:"product_id"`
	FeeCode        string          `db:"fee_code"`
	ServiceChannel string          `db:"service_channel"`
	Service        string          `db:"service"`
	Category       string          `db:"category"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	AdditionalInfo string          `db:"additional_info"`
	FeeType        string          `db:"fee_type"`
	LastModifiedAt time.Time       `db:"last_modified_at"`
}
