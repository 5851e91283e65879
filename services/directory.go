package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/vladimirs1981/employee-info/db"
)

// PageSize is the fixed number of employees per directory page
const PageSize = 100

// EmployeeFilter holds the optional, AND-combined directory filters
type EmployeeFilter struct {
	Search           string
	CityID           *int64
	CountryID        *int64
	Technology       string
	TechnologyID     *int64
	Seniority        db.Seniority
	ProjectID        *int64
	ProjectManagerID *int64
	Page             int
}

// EmployeesPage is one page of the employee directory
type EmployeesPage struct {
	Employees      []db.User `json:"employees"`
	EmployeesCount int       `json:"employeesCount"`
	CurrentPage    int       `json:"current_page"`
	LastPage       int       `json:"last_page"`
}

// ParseEmployeeFilter reads filters from query parameters. Malformed ids or
// seniority yield ErrInvalidInput; a missing or invalid page falls back to 1.
// projectManager is only honoured when allowPM is set.
func ParseEmployeeFilter(q url.Values, allowPM bool) (EmployeeFilter, error) {
	f := EmployeeFilter{
		Search:     strings.TrimSpace(q.Get("search")),
		Technology: strings.TrimSpace(q.Get("technology")),
		Page:       1,
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		f.Page = page
	}

	if v := q.Get("seniority"); v != "" {
		f.Seniority = db.Seniority(strings.ToLower(v))
		if !f.Seniority.IsValid() {
			return f, fmt.Errorf("%w: unknown seniority %q", ErrInvalidInput, v)
		}
	}

	ids := []idParam{
		{"city", &f.CityID},
		{"country", &f.CountryID},
		{"technologyId", &f.TechnologyID},
		{"project", &f.ProjectID},
	}
	if allowPM {
		ids = append(ids, idParam{"projectManager", &f.ProjectManagerID})
	}

	for _, p := range ids {
		v := q.Get(p.param)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("%w: %s must be a positive id", ErrInvalidInput, p.param)
		}
		*p.dst = &id
	}

	return f, nil
}

type idParam struct {
	param string
	dst   **int64
}

func (f EmployeeFilter) apply(fb *filterBuilder) {
	if f.Search != "" {
		fb.add(`(u.first_name ILIKE ? OR u.last_name ILIKE ? OR (u.first_name || ' ' || u.last_name) ILIKE ?)`,
			containsPattern(f.Search), containsPattern(f.Search), containsPattern(f.Search))
	}
	if f.CityID != nil {
		fb.add("u.city_id = ?", *f.CityID)
	}
	if f.CountryID != nil {
		fb.add("c.country_id = ?", *f.CountryID)
	}
	if f.Technology != "" {
		fb.add(`EXISTS (SELECT 1 FROM user_technologies ut JOIN technologies t ON t.id = ut.technology_id WHERE ut.user_id = u.id AND t.name = ?)`, f.Technology)
	}
	if f.TechnologyID != nil {
		fb.add(`EXISTS (SELECT 1 FROM user_technologies ut WHERE ut.user_id = u.id AND ut.technology_id = ?)`, *f.TechnologyID)
	}
	if f.Seniority != "" {
		fb.add("u.seniority = ?", string(f.Seniority))
	}
	if f.ProjectID != nil {
		fb.add("u.project_id = ?", *f.ProjectID)
	}
	if f.ProjectManagerID != nil {
		fb.add("p.project_manager_id = ?", *f.ProjectManagerID)
	}
}

type DirectoryService struct {
	PG *sql.DB
}

func NewDirectoryService(pg *sql.DB) *DirectoryService {
	return &DirectoryService{PG: pg}
}

// ListEmployees pages through every user matching f
func (s *DirectoryService) ListEmployees(ctx context.Context, f EmployeeFilter) (*EmployeesPage, error) {
	fb := &filterBuilder{}
	f.apply(fb)
	return s.listEmployees(ctx, fb, f.Page)
}

// ListManagedEmployees pages through users on projects managed by managerID
func (s *DirectoryService) ListManagedEmployees(ctx context.Context, managerID int64, f EmployeeFilter) (*EmployeesPage, error) {
	f.ProjectManagerID = nil
	fb := &filterBuilder{}
	f.apply(fb)
	fb.add("p.project_manager_id = ?", managerID)
	return s.listEmployees(ctx, fb, f.Page)
}

func (s *DirectoryService) listEmployees(ctx context.Context, fb *filterBuilder, page int) (*EmployeesPage, error) {
	if page < 1 {
		page = 1
	}
	where := fb.where()

	var total int
	if err := s.PG.QueryRowContext(ctx, `SELECT count(*)`+employeeFrom+where, fb.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	result := &EmployeesPage{
		Employees:      []db.User{},
		EmployeesCount: total,
		CurrentPage:    page,
		LastPage:       (total + PageSize - 1) / PageSize,
	}

	if page > result.LastPage {
		return result, nil
	}
	offset := (page - 1) * PageSize

	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY u.id LIMIT %d OFFSET %d`, employeeColumns, employeeFrom, where, PageSize, offset)
	rows, err := s.PG.QueryContext(ctx, query, fb.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		result.Employees = append(result.Employees, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachTechnologies(ctx, s.PG, result.Employees); err != nil {
		return nil, err
	}

	log.Printf("[Directory] page %d/%d, %d of %d employees", page, result.LastPage, len(result.Employees), total)
	return result, nil
}

// ListProjects returns projects with employee counts, optionally name filtered
func (s *DirectoryService) ListProjects(ctx context.Context, search string) ([]db.Project, error) {
	fb := &filterBuilder{}
	if search = strings.TrimSpace(search); search != "" {
		fb.add("p.name ILIKE ?", containsPattern(search))
	}
	return queryProjects(ctx, s.PG, fb, false)
}

// ListManagedProjects restricts ListProjects to projects managed by managerID
func (s *DirectoryService) ListManagedProjects(ctx context.Context, managerID int64, search string) ([]db.Project, error) {
	fb := &filterBuilder{}
	fb.add("p.project_manager_id = ?", managerID)
	if search = strings.TrimSpace(search); search != "" {
		fb.add("p.name ILIKE ?", containsPattern(search))
	}
	return queryProjects(ctx, s.PG, fb, false)
}

// GetEmployee returns the full relation graph of one user, notes newest first
func (s *DirectoryService) GetEmployee(ctx context.Context, id int64) (*db.User, error) {
	u, err := loadEmployee(ctx, s.PG, id)
	if err != nil {
		return nil, err
	}
	u.Notes, err = listNotes(ctx, s.PG, `SELECT `+noteColumns+` FROM notes WHERE employee_id = $1 ORDER BY created_at DESC, id DESC`, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}
