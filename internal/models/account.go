package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
	AccountStatusClosed   AccountStatus = "closed"
)

type Account struct {
	ID               uuid.UUID           `db:"id"`
	UserID           uuid.UUID           `db:"user_id"`
	InstitutionID    uuid.UUID           `db:"institution_id"`
	ProductID        *uuid.UUID          `db:"product_id"`
	AccountNumber    string              `db:"account_number"`
	Status           AccountStatus       `db:"status"`
	Currency         string              `db:"currency"`
	AvailableBalance decimal.NullDecimal `db:"available_balance"`

	InstitutionName string `db:"-"`
}
