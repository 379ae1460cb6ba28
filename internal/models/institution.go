package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InstitutionType string

const (
	InstitutionTypeBank        InstitutionType = "Bank"
	InstitutionTypeIslamicBank InstitutionType = "Islamic Bank"
	InstitutionTypeCentralBank InstitutionType = "Central Bank"
	InstitutionTypeFintech     InstitutionType = "Fintech"
)

type Address struct {
	ID          uuid.UUID           `db:"id"`
	Country     string              `db:"country"`
	City        string              `db:"city"`
	Street      string              `db:"street"`
	Area        string              `db:"area"`
	State       string              `db:"state"`
	Postcode    string              `db:"postcode"`
	CountryCode string              `db:"country_code"`
	Latitude    decimal.NullDecimal `db:"latitude"`
	Longitude   decimal.NullDecimal `db:"longitude"`
}

type Institution struct {
	ID           uuid.UUID       `db:"id"`
	Name         string          `db:"name"`
	WebsiteURL   string          `db:"website_url"`
	ContactEmail string          `db:"contact_email"`
	ContactPhone string          `db:"contact_phone"`
	AddressID    *uuid.UUID      `db:"address_id"`
	Type         InstitutionType `db:"institution_type"`
	BICCode      string          `db:"bic_code"`

	// Populated by joins, not a column.
	Address *Address `db:"-"`
}
