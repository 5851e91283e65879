package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladimirs1981/employee-info/db"
)

const citySelect = `
	SELECT c.id, c.name, co.id, co.name
	FROM cities c
	LEFT JOIN countries co ON co.id = c.country_id`

type CityService struct {
	PG *sql.DB
}

func NewCityService(pg *sql.DB) *CityService {
	return &CityService{PG: pg}
}

func scanCity(row scanner) (*db.City, error) {
	var (
		city        db.City
		countryID   sql.NullInt64
		countryName sql.NullString
	)
	if err := row.Scan(&city.ID, &city.Name, &countryID, &countryName); err != nil {
		return nil, err
	}
	if countryID.Valid {
		city.CountryID = &countryID.Int64
		city.Country = &db.Country{ID: countryID.Int64, Name: countryName.String}
	}
	return &city, nil
}

// ListCities returns every city with its country
func (s *CityService) ListCities(ctx context.Context) ([]db.City, error) {
	rows, err := s.PG.QueryContext(ctx, citySelect+` ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	cities := make([]db.City, 0)
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, *city)
	}
	return cities, rows.Err()
}

func (s *CityService) GetCity(ctx context.Context, id int64) (*db.City, error) {
	city, err := scanCity(s.PG.QueryRowContext(ctx, citySelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, translateError(err, "city")
	}
	return city, nil
}

// CreateCity inserts a city under an existing country
func (s *CityService) CreateCity(ctx context.Context, countryID int64, name string) (*db.City, error) {
	var cityID int64
	err := withTx(ctx, s.PG, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "countries", countryID, "country"); err != nil {
			return err
		}
		err := tx.QueryRowContext(ctx, `INSERT INTO cities (name, country_id) VALUES ($1, $2) RETURNING id`, name, countryID).Scan(&cityID)
		return translateError(err, "city")
	})
	if err != nil {
		return nil, err
	}
	return s.GetCity(ctx, cityID)
}

func (s *CityService) UpdateCity(ctx context.Context, id int64, name string) (*db.City, error) {
	result, err := s.PG.ExecContext(ctx, `UPDATE cities SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return nil, translateError(err, "city")
	}
	if err := expectAffected(result, "city"); err != nil {
		return nil, err
	}
	return s.GetCity(ctx, id)
}

// DeleteCity fails with ErrInUse while users still live in the city
func (s *CityService) DeleteCity(ctx context.Context, id int64) error {
	result, err := s.PG.ExecContext(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "city")
	}
	return expectAffected(result, "city")
}
