package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// withTx runs fn inside a transaction and rolls back when fn fails
func withTx(ctx context.Context, pg *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := pg.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("Failed to rollback transaction: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// exists checks a single-id existence query
func exists(ctx context.Context, q queryer, table string, id int64) (bool, error) {
	var found bool
	err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, table), id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return found, nil
}

// mustExist returns ErrNotFound when the row is absent
func mustExist(ctx context.Context, q queryer, table string, id int64, what string) error {
	found, err := exists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !found {
		return notFound(what)
	}
	return nil
}

// expectAffected turns a zero-row mutation into ErrNotFound
func expectAffected(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound(what)
	}
	return nil
}
