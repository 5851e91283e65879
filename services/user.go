package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vladimirs1981/employee-info/authz"
	"github.com/vladimirs1981/employee-info/db"
)

const userReturning = ` RETURNING id, first_name, last_name, email, google_id, role, seniority, plan, city_id, project_id`

type UserService struct {
	PG          *sql.DB
	EmailDomain string
}

func NewUserService(pg *sql.DB, emailDomain string) *UserService {
	return &UserService{PG: pg, EmailDomain: emailDomain}
}

// ValidCompanyEmail reports whether email belongs to domain
func ValidCompanyEmail(email, domain string) bool {
	if domain == "" {
		return true
	}
	email = strings.ToLower(strings.TrimSpace(email))
	return strings.HasSuffix(email, "@"+strings.ToLower(domain))
}

func (s *UserService) checkEmail(email string) error {
	if !ValidCompanyEmail(email, s.EmailDomain) {
		return fmt.Errorf("%w: email must belong to %s", ErrInvalidInput, s.EmailDomain)
	}
	return nil
}

// GetUser returns the bare user row
func (s *UserService) GetUser(ctx context.Context, id int64) (*db.User, error) {
	u, err := scanUser(s.PG.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		return nil, translateError(err, "user")
	}
	return u, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	u, err := scanUser(s.PG.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE lower(u.email) = lower($1)`, email))
	if err != nil {
		return nil, translateError(err, "user")
	}
	return u, nil
}

func (s *UserService) GetUserByGoogleID(ctx context.Context, googleID string) (*db.User, error) {
	u, err := scanUser(s.PG.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.google_id = $1`, googleID))
	if err != nil {
		return nil, translateError(err, "user")
	}
	return u, nil
}

// GetUserDetails returns the user with city, project and technologies
func (s *UserService) GetUserDetails(ctx context.Context, id int64) (*db.User, error) {
	return loadEmployee(ctx, s.PG, id)
}

func loadEmployee(ctx context.Context, q queryer, id int64) (*db.User, error) {
	u, err := scanEmployee(q.QueryRowContext(ctx, `SELECT `+employeeColumns+employeeFrom+` WHERE u.id = $1`, id))
	if err != nil {
		return nil, translateError(err, "user")
	}
	users := []db.User{*u}
	if err := attachTechnologies(ctx, q, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]db.User, error) {
	rows, err := s.PG.QueryContext(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (s *UserService) ListUsersByRole(ctx context.Context, role authz.Role) ([]db.User, error) {
	rows, err := s.PG.QueryContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.role = $1 ORDER BY u.id`, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

// CreateUser inserts an employee with the default role, seniority and plan
func (s *UserService) CreateUser(ctx context.Context, req db.CreateUserRequest) (*db.User, error) {
	if err := s.checkEmail(req.Email); err != nil {
		return nil, err
	}
	return insertUser(ctx, s.PG, req.FirstName, req.LastName, req.Email, nil)
}

func insertUser(ctx context.Context, q queryer, firstName, lastName, email string, googleID *string) (*db.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, email, google_id)
		VALUES ($1, $2, $3, $4)`+userReturning,
		firstName, lastName, strings.TrimSpace(email), googleID))
	if err != nil {
		return nil, translateError(err, "user")
	}
	return u, nil
}

// UpdateUser applies the non-nil fields of req
func (s *UserService) UpdateUser(ctx context.Context, id int64, req db.UpdateUserRequest) (*db.User, error) {
	if req.Email != nil {
		if err := s.checkEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	u, err := scanUser(s.PG.QueryRowContext(ctx, `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			email = COALESCE($4, email),
			plan = COALESCE($5, plan)
		WHERE id = $1`+userReturning,
		id, req.FirstName, req.LastName, req.Email, req.Plan))
	if err != nil {
		return nil, translateError(err, "user")
	}
	return u, nil
}

// DeleteUser removes the user; notes, tokens and technology links cascade and
// a managed project loses its manager.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	result, err := s.PG.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translateError(err, "user")
	}
	return expectAffected(result, "user")
}

// SetRole changes the role. Setting the current role again is a no-op.
func (s *UserService) SetRole(ctx context.Context, id int64, role authz.Role) (*db.User, error) {
	return s.changeRole(ctx, id, role, false)
}

// Promote changes the role and fails with ErrUnprocessable if the user already has it
func (s *UserService) Promote(ctx context.Context, id int64, role authz.Role) (*db.User, error) {
	return s.changeRole(ctx, id, role, true)
}

func (s *UserService) changeRole(ctx context.Context, id int64, role authz.Role, strict bool) (*db.User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	err := withTx(ctx, s.PG, func(tx *sql.Tx) error {
		var current string
		if err := tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&current); err != nil {
			return translateError(err, "user")
		}
		if authz.Role(current) == role {
			if strict {
				return fmt.Errorf("%w: user is already %s", ErrUnprocessable, role)
			}
			return nil
		}

		if _, err := tx.ExecContext(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, string(role)); err != nil {
			return translateError(err, "user")
		}

		// Only project managers may manage a project
		if role != authz.RoleProjectManager {
			if _, err := tx.ExecContext(ctx, `UPDATE projects SET project_manager_id = NULL, updated_at = now() WHERE project_manager_id = $1`, id); err != nil {
				return fmt.Errorf("failed to release managed project: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *UserService) SetSeniority(ctx context.Context, id int64, seniority db.Seniority) (*db.User, error) {
	if !seniority.IsValid() {
		return nil, fmt.Errorf("%w: unknown seniority %q", ErrInvalidInput, seniority)
	}
	u, err := scanUser(s.PG.QueryRowContext(ctx, `UPDATE users SET seniority = $2 WHERE id = $1`+userReturning, id, string(seniority)))
	if err != nil {
		return nil, translateError(err, "user")
	}
	return u, nil
}

// ===========================
// ASSOCIATIONS
// ===========================

// AddTechnology links a technology to the user; adding twice is a no-op
func (s *UserService) AddTechnology(ctx context.Context, userID, technologyID int64) (*db.User, error) {
	return s.link(ctx, userID, "technologies", technologyID, "technology",
		`INSERT INTO user_technologies (user_id, technology_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`)
}

// RemoveTechnology unlinks a technology; removing an absent link is a no-op
func (s *UserService) RemoveTechnology(ctx context.Context, userID, technologyID int64) (*db.User, error) {
	return s.link(ctx, userID, "technologies", technologyID, "technology",
		`DELETE FROM user_technologies WHERE user_id = $1 AND technology_id = $2`)
}

func (s *UserService) SetCity(ctx context.Context, userID, cityID int64) (*db.User, error) {
	return s.link(ctx, userID, "cities", cityID, "city",
		`UPDATE users SET city_id = $2 WHERE id = $1`)
}

// ClearCity removes the city only when the user currently lives there
func (s *UserService) ClearCity(ctx context.Context, userID, cityID int64) (*db.User, error) {
	return s.link(ctx, userID, "cities", cityID, "city",
		`UPDATE users SET city_id = NULL WHERE id = $1 AND city_id = $2`)
}

func (s *UserService) SetProject(ctx context.Context, userID, projectID int64) (*db.User, error) {
	return s.link(ctx, userID, "projects", projectID, "project",
		`UPDATE users SET project_id = $2 WHERE id = $1`)
}

// ClearProject removes the project only when the user is currently on it
func (s *UserService) ClearProject(ctx context.Context, userID, projectID int64) (*db.User, error) {
	return s.link(ctx, userID, "projects", projectID, "project",
		`UPDATE users SET project_id = NULL WHERE id = $1 AND project_id = $2`)
}

// link verifies both sides exist and runs stmt with ($1 = user, $2 = target)
func (s *UserService) link(ctx context.Context, userID int64, table string, targetID int64, what, stmt string) (*db.User, error) {
	err := withTx(ctx, s.PG, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "users", userID, "user"); err != nil {
			return err
		}
		if err := mustExist(ctx, tx, table, targetID, what); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, userID, targetID); err != nil {
			return translateError(err, what)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUserDetails(ctx, userID)
}
