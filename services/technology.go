package services

import (
	"context"
	"database/sql"

	"github.com/vladimirs1981/employee-info/db"
)

var technologies = namedTable{table: "technologies", what: "technology"}

type TechnologyService struct {
	PG *sql.DB
}

func NewTechnologyService(pg *sql.DB) *TechnologyService {
	return &TechnologyService{PG: pg}
}

func (s *TechnologyService) ListTechnologies(ctx context.Context) ([]db.Technology, error) {
	rows, err := technologies.list(ctx, s.PG)
	if err != nil {
		return nil, err
	}
	result := make([]db.Technology, len(rows))
	for i, r := range rows {
		result[i] = db.Technology{ID: r.ID, Name: r.Name}
	}
	return result, nil
}

func (s *TechnologyService) GetTechnology(ctx context.Context, id int64) (*db.Technology, error) {
	r, err := technologies.get(ctx, s.PG, id)
	if err != nil {
		return nil, err
	}
	return &db.Technology{ID: r.ID, Name: r.Name}, nil
}

func (s *TechnologyService) CreateTechnology(ctx context.Context, name string) (*db.Technology, error) {
	r, err := technologies.create(ctx, s.PG, name)
	if err != nil {
		return nil, err
	}
	return &db.Technology{ID: r.ID, Name: r.Name}, nil
}

func (s *TechnologyService) UpdateTechnology(ctx context.Context, id int64, name string) (*db.Technology, error) {
	r, err := technologies.update(ctx, s.PG, id, name)
	if err != nil {
		return nil, err
	}
	return &db.Technology{ID: r.ID, Name: r.Name}, nil
}

// DeleteTechnology also drops every user link to it
func (s *TechnologyService) DeleteTechnology(ctx context.Context, id int64) error {
	return technologies.delete(ctx, s.PG, id)
}
