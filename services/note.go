package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vladimirs1981/employee-info/db"
)

const noteColumns = `id, text, created_by, employee_id, created_at, updated_at`

type NoteService struct {
	PG *sql.DB
}

func NewNoteService(pg *sql.DB) *NoteService {
	return &NoteService{PG: pg}
}

func scanNote(row scanner) (*db.Note, error) {
	var n db.Note
	if err := row.Scan(&n.ID, &n.Text, &n.CreatedBy, &n.EmployeeID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotes returns every note, newest first
func (s *NoteService) ListNotes(ctx context.Context) ([]db.Note, error) {
	return listNotes(ctx, s.PG, `SELECT `+noteColumns+` FROM notes ORDER BY created_at DESC, id DESC`)
}

func listNotes(ctx context.Context, q queryer, query string, args ...interface{}) ([]db.Note, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]db.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// CreateNote records a note about employeeID signed with the author's display name
func (s *NoteService) CreateNote(ctx context.Context, author *db.User, employeeID int64, text string) (*db.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: note text is required", ErrInvalidInput)
	}

	var note *db.Note
	err := withTx(ctx, s.PG, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "users", employeeID, "employee"); err != nil {
			return err
		}
		var err error
		note, err = scanNote(tx.QueryRowContext(ctx, `
			INSERT INTO notes (text, created_by, employee_id)
			VALUES ($1, $2, $3)
			RETURNING `+noteColumns,
			text, author.DisplayName(), employeeID))
		return translateError(err, "note")
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}
