package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Common errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInUse         = errors.New("resource is still referenced")
	ErrUnprocessable = errors.New("unprocessable state transition")
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidState  = errors.New("invalid or expired oauth state")
)

// Postgres error codes we translate into domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps driver errors onto the domain taxonomy. Errors that are
// already domain errors pass through unchanged.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s not found", ErrNotFound, what)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s with the same %s", ErrAlreadyExists, what, uniqueField(pqErr))
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s is referenced by other records", ErrInUse, what)
		}
	}
	return fmt.Errorf("failed to process %s: %w", what, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{ErrNotFound, ErrAlreadyExists, ErrInUse, ErrUnprocessable, ErrInvalidInput, ErrForbidden, ErrInvalidState} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func uniqueField(pqErr *pq.Error) string {
	if pqErr.Column != "" {
		return pqErr.Column
	}
	switch pqErr.Constraint {
	case "users_email_key":
		return "email"
	case "users_google_id_key":
		return "google id"
	case "projects_project_manager_id_key":
		return "project manager"
	}
	return "name"
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, what)
}
