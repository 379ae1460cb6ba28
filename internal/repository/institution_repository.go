package repository

import (
	"context"

	"fincompare/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type InstitutionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewInstitutionRepository(db *pgxpool.Pool, logger *zap.Logger) *InstitutionRepository {
	return &InstitutionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *InstitutionRepository) CreateAddress(ctx context.Context, addr *models.Address) error {
	query := squirrel.Insert("addresses").
		Columns("id", "country", "city", "street", "area", "state", "postcode", "country_code", "latitude", "longitude").
		Values(addr.ID, addr.Country, addr.City, addr.Street, addr.Area, addr.State, addr.Postcode, addr.CountryCode, addr.Latitude, addr.Longitude).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *InstitutionRepository) Create(ctx context.Context, inst *models.Institution) error {
	query := squirrel.Insert("institutions").
		Columns("id", "name", "website_url", "contact_email", "contact_phone", "address_id", "institution_type", "bic_code").
		Values(inst.ID, inst.Name, inst.WebsiteURL, inst.ContactEmail, inst.ContactPhone, inst.AddressID, inst.Type, inst.BICCode).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

const institutionSelect = "i.id, i.name, i.website_url, i.contact_email, i.contact_phone, i.address_id, i.institution_type, i.bic_code, " +
	"a.id, a.country, a.city, a.street, a.area, a.state, a.postcode, a.country_code"

// List returns institutions with their addresses, optionally filtered by type.
func (r *InstitutionRepository) List(ctx context.Context, instType models.InstitutionType) ([]*models.Institution, error) {
	query := squirrel.Select(institutionSelect).
		From("institutions i").
		LeftJoin("addresses a ON a.id = i.address_id").
		OrderBy("i.name").
		PlaceholderFormat(squirrel.Dollar)

	if instType != "" {
		query = query.Where(squirrel.Eq{"i.institution_type": instType})
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

	var institutions []*models.Institution
	for rows.Next() {
		inst, err := scanInstitution(rows)
		if err != nil {
			return nil, err
		}
		institutions = append(institutions, inst)
	}

	return institutions, rows.Err()
}

func (r *InstitutionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Institution, error) {
	query := squirrel.Select(institutionSelect).
		From("institutions i").
		LeftJoin("addresses a ON a.id = i.address_id").
		Where(squirrel.Eq{"i.id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanInstitution(r.db.QueryRow(ctx, sql, args...))
}

func scanInstitution(row pgx.Row) (*models.Institution, error) {
	var inst models.Institution
	var addrID *uuid.UUID
	var country, city, street, area, state, postcode, countryCode *string

	err := row.Scan(
		&inst.ID, &inst.Name, &inst.WebsiteURL, &inst.ContactEmail, &inst.ContactPhone,
		&inst.AddressID, &inst.Type, &inst.BICCode,
		&addrID, &country, &city, &street, &area, &state, &postcode, &countryCode,
	)
	if err != nil {
		return nil, err
	}

	if addrID != nil {
		inst.Address = &models.Address{
			ID:          *addrID,
			Country:     deref(country),
			City:        deref(city),
			Street:      deref(street),
			Area:        deref(area),
			State:       deref(state),
			Postcode:    deref(postcode),
			CountryCode: deref(countryCode),
		}
	}

	return &inst, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
