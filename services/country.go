package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/vladimirs1981/employee-info/db"
)

var countries = namedTable{table: "countries", what: "country"}

type CountryService struct {
	PG *sql.DB
}

func NewCountryService(pg *sql.DB) *CountryService {
	return &CountryService{PG: pg}
}

// ListCountries returns every country with its cities
func (s *CountryService) ListCountries(ctx context.Context) ([]db.Country, error) {
	rows, err := countries.list(ctx, s.PG)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	cities, err := loadCities(ctx, s.PG, ids)
	if err != nil {
		return nil, err
	}

	result := make([]db.Country, len(rows))
	for i, r := range rows {
		result[i] = db.Country{ID: r.ID, Name: r.Name, Cities: citiesOrEmpty(cities[r.ID])}
	}
	return result, nil
}

func (s *CountryService) GetCountry(ctx context.Context, id int64) (*db.Country, error) {
	return getCountry(ctx, s.PG, id)
}

func getCountry(ctx context.Context, q queryer, id int64) (*db.Country, error) {
	r, err := countries.get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	cities, err := loadCities(ctx, q, []int64{id})
	if err != nil {
		return nil, err
	}
	return &db.Country{ID: r.ID, Name: r.Name, Cities: citiesOrEmpty(cities[id])}, nil
}

func (s *CountryService) CreateCountry(ctx context.Context, name string) (*db.Country, error) {
	r, err := countries.create(ctx, s.PG, name)
	if err != nil {
		return nil, err
	}
	return &db.Country{ID: r.ID, Name: r.Name, Cities: []db.City{}}, nil
}

func (s *CountryService) UpdateCountry(ctx context.Context, id int64, name string) (*db.Country, error) {
	if _, err := countries.update(ctx, s.PG, id, name); err != nil {
		return nil, err
	}
	return s.GetCountry(ctx, id)
}

// DeleteCountry fails with ErrInUse while cities still belong to the country
func (s *CountryService) DeleteCountry(ctx context.Context, id int64) error {
	return countries.delete(ctx, s.PG, id)
}

// AddCity moves the city under this country; repeating it changes nothing
func (s *CountryService) AddCity(ctx context.Context, countryID, cityID int64) (*db.Country, error) {
	return s.relinkCity(ctx, countryID, cityID, `UPDATE cities SET country_id = $1 WHERE id = $2`)
}

// RemoveCity detaches the city only if it belongs to this country
func (s *CountryService) RemoveCity(ctx context.Context, countryID, cityID int64) (*db.Country, error) {
	return s.relinkCity(ctx, countryID, cityID, `UPDATE cities SET country_id = NULL WHERE id = $2 AND country_id = $1`)
}

func (s *CountryService) relinkCity(ctx context.Context, countryID, cityID int64, stmt string) (*db.Country, error) {
	var country *db.Country
	err := withTx(ctx, s.PG, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "countries", countryID, "country"); err != nil {
			return err
		}
		if err := mustExist(ctx, tx, "cities", cityID, "city"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, countryID, cityID); err != nil {
			return translateError(err, "city")
		}
		var err error
		country, err = getCountry(ctx, tx, countryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return country, nil
}

func loadCities(ctx context.Context, q queryer, countryIDs []int64) (map[int64][]db.City, error) {
	result := make(map[int64][]db.City, len(countryIDs))
	if len(countryIDs) == 0 {
		return result, nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, name, country_id FROM cities
		WHERE country_id = ANY($1)
		ORDER BY id
	`, pq.Array(countryIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var city db.City
		var countryID int64
		if err := rows.Scan(&city.ID, &city.Name, &countryID); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		city.CountryID = &countryID
		result[countryID] = append(result[countryID], city)
	}
	return result, rows.Err()
}

func citiesOrEmpty(cities []db.City) []db.City {
	if cities == nil {
		return []db.City{}
	}
	return cities
}
