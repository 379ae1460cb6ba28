package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FXRate struct {
	ID                     uuid.UUID           `db:"id"`
	InstitutionID          uuid.UUID           `db:"institution_id"`
	SourceCurrency         string              `db:"source_currency"`
	TargetCurrency         string              `db:"target_currency"`
	ConversionValue        decimal.Decimal     `db:"conversion_value"`
	InverseConversionValue decimal.Decimal     `db:"inverse_conversion_value"`
	EffectiveDate          time.Time           `db:"effective_date"`
	MinConversionValue     decimal.NullDecimal `db:"min_conversion_value"`
	MaxConversionValue     decimal.NullDecimal `db:"max_conversion_value"`

	InstitutionName string `db:"-"`
}

// Pair returns the rate's currency pair in SOURCE/TARGET form.
func (r *FXRate) Pair() string {
	return r.SourceCurrency + "/" + r.TargetCurrency
}
