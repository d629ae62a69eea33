package postgres

import (
	"database/sql"
	"fmt"

	"github.com/AvaniK-2002/asvicare/internal/repository"
)

// requireRow converts a zero-row mutation into ErrNotFound so that a
// guessed id outside the caller's clinic is indistinguishable from a
// missing row.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
