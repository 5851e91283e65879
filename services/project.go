package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/vladimirs1981/employee-info/authz"
	"github.com/vladimirs1981/employee-info/db"
)

const projectSelect = `
	SELECT p.id, p.name, p.created_at, p.updated_at,
		m.id, m.first_name, m.last_name, m.email, m.role, m.seniority,
		(SELECT count(*) FROM users e WHERE e.project_id = p.id) AS employees_count
	FROM projects p
	LEFT JOIN users m ON m.id = p.project_manager_id`

type ProjectService struct {
	PG *sql.DB
}

func NewProjectService(pg *sql.DB) *ProjectService {
	return &ProjectService{PG: pg}
}

func scanProject(row scanner) (*db.Project, error) {
	var (
		p                     db.Project
		managerID             sql.NullInt64
		mFirst, mLast, mEmail sql.NullString
		mRole, mSeniority     sql.NullString
		count                 int
	)
	err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt,
		&managerID, &mFirst, &mLast, &mEmail, &mRole, &mSeniority, &count)
	if err != nil {
		return nil, err
	}
	p.EmployeesCount = &count
	if managerID.Valid {
		p.ProjectManagerID = &managerID.Int64
		p.ProjectManager = &db.User{
			ID:        managerID.Int64,
			FirstName: mFirst.String,
			LastName:  mLast.String,
			Email:     mEmail.String,
			Role:      authz.Role(mRole.String),
			Seniority: db.Seniority(mSeniority.String),
		}
	}
	return &p, nil
}

// queryProjects runs projectSelect with the builder's predicates. With
// withEmployees set every project is hydrated with its members.
func queryProjects(ctx context.Context, q queryer, fb *filterBuilder, withEmployees bool) ([]db.Project, error) {
	rows, err := q.QueryContext(ctx, projectSelect+fb.where()+` ORDER BY p.id`, fb.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]db.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if withEmployees && len(projects) > 0 {
		if err := attachEmployees(ctx, q, projects); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func attachEmployees(ctx context.Context, q queryer, projects []db.Project) error {
	ids := make([]int64, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}

	rows, err := q.QueryContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.project_id = ANY($1) ORDER BY u.id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load project employees: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return err
	}

	byProject := make(map[int64][]db.User, len(projects))
	for _, u := range users {
		if u.ProjectID != nil {
			byProject[*u.ProjectID] = append(byProject[*u.ProjectID], u)
		}
	}
	for i := range projects {
		projects[i].Employees = byProject[projects[i].ID]
		if projects[i].Employees == nil {
			projects[i].Employees = []db.User{}
		}
	}
	return nil
}

// ListProjects returns every project with its manager and employees
func (s *ProjectService) ListProjects(ctx context.Context) ([]db.Project, error) {
	return queryProjects(ctx, s.PG, &filterBuilder{}, true)
}

func (s *ProjectService) GetProject(ctx context.Context, id int64) (*db.Project, error) {
	fb := &filterBuilder{}
	fb.add("p.id = ?", id)
	projects, err := queryProjects(ctx, s.PG, fb, true)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, notFound("project")
	}
	return &projects[0], nil
}

func (s *ProjectService) CreateProject(ctx context.Context, name string) (*db.Project, error) {
	var id int64
	err := s.PG.QueryRowContext(ctx, `INSERT INTO projects (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		return nil, translateError(err, "project")
	}
	return s.GetProject(ctx, id)
}

func (s *ProjectService) UpdateProject(ctx context.Context, id int64, name string) (*db.Project, error) {
	result, err := s.PG.ExecContext(ctx, `UPDATE projects SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	if err != nil {
		return nil, translateError(err, "project")
	}
	if err := expectAffected(result, "project"); err != nil {
		return nil, err
	}
	return s.GetProject(ctx, id)
}

// DeleteProject fails with ErrInUse while employees are still assigned
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	result, err := s.PG.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "project")
	}
	return expectAffected(result, "project")
}

// AssignManager makes a project_manager the manager of the project. A manager
// runs at most one project.
func (s *ProjectService) AssignManager(ctx context.Context, projectID, managerID int64) (*db.Project, error) {
	err := withTx(ctx, s.PG, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "projects", projectID, "project"); err != nil {
			return err
		}

		var role string
		err := tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, managerID).Scan(&role)
		if err == sql.ErrNoRows || (err == nil && authz.Role(role) != authz.RoleProjectManager) {
			return fmt.Errorf("%w: project manager not found or user is not project manager", ErrNotFound)
		}
		if err != nil {
			return translateError(err, "project manager")
		}

		_, err = tx.ExecContext(ctx, `UPDATE projects SET project_manager_id = $2, updated_at = now() WHERE id = $1`, projectID, managerID)
		return translateError(err, "project")
	})
	if err != nil {
		return nil, err
	}
	return s.GetProject(ctx, projectID)
}

func (s *ProjectService) RemoveManager(ctx context.Context, projectID int64) (*db.Project, error) {
	result, err := s.PG.ExecContext(ctx, `UPDATE projects SET project_manager_id = NULL, updated_at = now() WHERE id = $1`, projectID)
	if err != nil {
		return nil, translateError(err, "project")
	}
	if err := expectAffected(result, "project"); err != nil {
		return nil, err
	}
	return s.GetProject(ctx, projectID)
}
