package models

import (
	"github.com/google/uuid"
)

type ProductCategory struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	NodeLevel   int       `db:"node_level"`
}

type Product struct {
	ID             uuid.UUID `db:"id"`
	InstitutionID  uuid.UUID `db:"institution_id"`
	CategoryID     uuid.UUID `db:"category_id"`
	ProductCode    string    `db:"product_code"`
	CommercialName string    `db:"commercial_name"`
	Type           string    `db:"product_type"`
	Description    string    `db:"description"`
	Details        string    `db:"details"` // raw JSON, schema varies per product

	InstitutionName string `db:"-"`
	CategoryName    string `db:"-"`
}
