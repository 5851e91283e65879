package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/vladimirs1981/employee-info/authz"
	"github.com/vladimirs1981/employee-info/db"
)

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `u.id, u.first_name, u.last_name, u.email, u.google_id, u.role, u.seniority, u.plan, u.city_id, u.project_id`

func scanUser(row scanner) (*db.User, error) {
	var (
		u                 db.User
		googleID          sql.NullString
		role, seniority   string
		cityID, projectID sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &googleID, &role, &seniority, &u.Plan, &cityID, &projectID); err != nil {
		return nil, err
	}
	u.GoogleID = nullString(googleID)
	u.Role = authz.Role(role)
	u.Seniority = db.Seniority(seniority)
	u.CityID = nullInt64(cityID)
	u.ProjectID = nullInt64(projectID)
	return &u, nil
}

func scanUsers(rows *sql.Rows) ([]db.User, error) {
	users := make([]db.User, 0) // JSON: [] not null
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// employeeFrom joins a user with city -> country and project -> manager.
// The directory filters reference the aliases u, c, co, p and m.
const employeeFrom = `
	FROM users u
	LEFT JOIN cities c ON c.id = u.city_id
	LEFT JOIN countries co ON co.id = c.country_id
	LEFT JOIN projects p ON p.id = u.project_id
	LEFT JOIN users m ON m.id = p.project_manager_id`

const employeeColumns = userColumns + `,
	c.id, c.name, co.id, co.name,
	p.id, p.name, p.created_at, p.updated_at,
	m.id, m.first_name, m.last_name, m.email, m.role, m.seniority`

func scanEmployee(row scanner) (*db.User, error) {
	var (
		u                          db.User
		googleID                   sql.NullString
		role, seniority            string
		cityFK, projectFK          sql.NullInt64
		cityID, countryID          sql.NullInt64
		cityName, countryName      sql.NullString
		projectID                  sql.NullInt64
		projectName                sql.NullString
		projectCreated, projectUpd sql.NullTime
		managerID                  sql.NullInt64
		mFirst, mLast, mEmail      sql.NullString
		mRole, mSeniority          sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &googleID, &role, &seniority, &u.Plan, &cityFK, &projectFK,
		&cityID, &cityName, &countryID, &countryName,
		&projectID, &projectName, &projectCreated, &projectUpd,
		&managerID, &mFirst, &mLast, &mEmail, &mRole, &mSeniority,
	)
	if err != nil {
		return nil, err
	}

	u.GoogleID = nullString(googleID)
	u.Role = authz.Role(role)
	u.Seniority = db.Seniority(seniority)
	u.CityID = nullInt64(cityFK)
	u.ProjectID = nullInt64(projectFK)

	if cityID.Valid {
		u.City = &db.City{ID: cityID.Int64, Name: cityName.String}
		if countryID.Valid {
			u.City.CountryID = &countryID.Int64
			u.City.Country = &db.Country{ID: countryID.Int64, Name: countryName.String}
		}
	}

	if projectID.Valid {
		u.Project = &db.Project{
			ID:        projectID.Int64,
			Name:      projectName.String,
			CreatedAt: projectCreated.Time,
			UpdatedAt: projectUpd.Time,
		}
		if managerID.Valid {
			u.Project.ProjectManagerID = &managerID.Int64
			u.Project.ProjectManager = &db.User{
				ID:        managerID.Int64,
				FirstName: mFirst.String,
				LastName:  mLast.String,
				Email:     mEmail.String,
				Role:      authz.Role(mRole.String),
				Seniority: db.Seniority(mSeniority.String),
			}
		}
	}

	return &u, nil
}

// loadTechnologies fetches technologies for a batch of users in one round trip
func loadTechnologies(ctx context.Context, q queryer, userIDs []int64) (map[int64][]db.Technology, error) {
	result := make(map[int64][]db.Technology, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT ut.user_id, t.id, t.name
		FROM user_technologies ut
		JOIN technologies t ON t.id = ut.technology_id
		WHERE ut.user_id = ANY($1)
		ORDER BY t.name
	`, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load technologies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var t db.Technology
		if err := rows.Scan(&userID, &t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan technology: %w", err)
		}
		result[userID] = append(result[userID], t)
	}
	return result, rows.Err()
}

// attachTechnologies fills Technologies on every user, using [] for users without any
func attachTechnologies(ctx context.Context, q queryer, users []db.User) error {
	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	techs, err := loadTechnologies(ctx, q, ids)
	if err != nil {
		return err
	}
	for i := range users {
		users[i].Technologies = techs[users[i].ID]
		if users[i].Technologies == nil {
			users[i].Technologies = []db.Technology{}
		}
	}
	return nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
