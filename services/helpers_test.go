package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var (
	userCols = []string{"id", "first_name", "last_name", "email", "google_id", "role", "seniority", "plan", "city_id", "project_id"}

	employeeCols = append(append([]string{}, userCols...),
		"c_id", "c_name", "co_id", "co_name",
		"p_id", "p_name", "p_created_at", "p_updated_at",
		"m_id", "m_first_name", "m_last_name", "m_email", "m_role", "m_seniority")

	projectCols = []string{"id", "name", "created_at", "updated_at",
		"m_id", "m_first_name", "m_last_name", "m_email", "m_role", "m_seniority", "employees_count"}

	noteCols = []string{"id", "text", "created_by", "employee_id", "created_at", "updated_at"}

	fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	pg, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { pg.Close() })
	return pg, mock
}

func userRow(id int64, role string) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(id, "Ana", "Petrovic", "ana@quantox.com", nil, role, "junior", "", nil, nil)
}

// employeeRow has a city in a country and a project with a manager
func employeeRow(rows *sqlmock.Rows, id int64) *sqlmock.Rows {
	return rows.AddRow(id, "Ana", "Petrovic", "ana@quantox.com", nil, "employee", "medior", "", int64(5), int64(7),
		int64(5), "Nis", int64(2), "Serbia",
		int64(7), "Atlas", fixedTime, fixedTime,
		int64(9), "Marko", "Jovic", "marko@quantox.com", "project_manager", "senior")
}

func bareEmployeeRow(rows *sqlmock.Rows, id int64) *sqlmock.Rows {
	return rows.AddRow(id, "Ana", "Petrovic", "ana@quantox.com", nil, "employee", "junior", "", nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil, nil, nil)
}

func existsRow(found bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(found)
}

func noTechnologies() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "id", "name"})
}
