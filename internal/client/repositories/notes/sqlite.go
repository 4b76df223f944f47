// Package notes provides the SQLite-backed local cache of tasting notes.
package notes

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/teaisforme/teataster/internal/client/models"
	"github.com/teaisforme/teataster/internal/dbx"
)

// SQLiteRepository implements Repository over a local SQLite database.
// Multi-statement operations run inside a single transaction so a failure
// can never leave a half-applied batch in the cache.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context, userID int64, includeDeleted bool) ([]models.TastingNote, error) {
	query := `SELECT id, name, brand, notes, rating, tea_category_id, sync_status
		FROM tasting_notes WHERE user_id = ?`
	if !includeDeleted {
		query += ` AND COALESCE(sync_status, '') != 'DELETE'`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasting notes: %w", err)
	}
	defer rows.Close()

	var result []models.TastingNote
	for rows.Next() {
		var item models.TastingNote
		var status sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Brand, &item.Notes,
			&item.Rating, &item.TeaCategoryID, &status); err != nil {
			return nil, err
		}
		item.SyncStatus = models.SyncStatus(status.String)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Add assigns a provisional id (max id + 1 within this table) and inserts the
// row tagged INSERT, all in one transaction so two adds cannot race to the
// same id.
func (r *SQLiteRepository) Add(ctx context.Context, note *models.TastingNote, userID int64) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var id int64
		row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM tasting_notes`)
		if err := row.Scan(&id); err != nil {
			return fmt.Errorf("failed to allocate note id: %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasting_notes (id, name, brand, notes, rating, tea_category_id, user_id, sync_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, 'INSERT')`,
			id, note.Name, note.Brand, note.Notes, note.Rating, note.TeaCategoryID, userID)
		if err != nil {
			return fmt.Errorf("failed to insert tasting note: %w", err)
		}

		note.ID = id
		note.SyncStatus = models.SyncStatusInsert
		return nil
	})
}

// Update persists field changes. The stored status decides the transition:
// a clean row becomes UPDATE, INSERT stays INSERT, DELETE stays DELETE.
func (r *SQLiteRepository) Update(ctx context.Context, note *models.TastingNote, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasting_notes
		SET name = ?, brand = ?, notes = ?, rating = ?, tea_category_id = ?,
			sync_status = CASE COALESCE(sync_status, '')
				WHEN 'INSERT' THEN 'INSERT'
				WHEN 'DELETE' THEN 'DELETE'
				ELSE 'UPDATE' END
		WHERE user_id = ? AND id = ?`,
		note.Name, note.Brand, note.Notes, note.Rating, note.TeaCategoryID, userID, note.ID)
	if err != nil {
		return fmt.Errorf("failed to update tasting note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("wrong rows affected count: %d", n)
	}
	return nil
}

func (r *SQLiteRepository) MarkForDelete(ctx context.Context, id int64, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasting_notes SET sync_status = 'DELETE' WHERE user_id = ? AND id = ?`,
		userID, id)
	if err != nil {
		return fmt.Errorf("failed to mark tasting note for delete: %w", err)
	}
	return nil
}

// Upsert merges an authoritative backend row into the cache. The conflict
// branch is guarded on a clean sync status so dirty rows survive a refresh.
func (r *SQLiteRepository) Upsert(ctx context.Context, note *models.TastingNote, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasting_notes (id, name, brand, notes, rating, tea_category_id, user_id, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			brand = excluded.brand,
			notes = excluded.notes,
			rating = excluded.rating,
			tea_category_id = excluded.tea_category_id
		WHERE tasting_notes.sync_status IS NULL AND tasting_notes.user_id = excluded.user_id`,
		note.ID, note.Name, note.Brand, note.Notes, note.Rating, note.TeaCategoryID, userID)
	if err != nil {
		return fmt.Errorf("failed to upsert tasting note: %w", err)
	}
	return nil
}

// Trim drops the user's rows the backend no longer has. With an empty keep
// set every row for the user goes.
func (r *SQLiteRepository) Trim(ctx context.Context, idsToKeep []int64, userID int64) error {
	query := `DELETE FROM tasting_notes WHERE user_id = ?`
	args := []any{userID}
	if len(idsToKeep) > 0 {
		query += fmt.Sprintf(` AND id NOT IN (%s)`, placeholders(len(idsToKeep)))
		for _, id := range idsToKeep {
			args = append(args, id)
		}
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to trim tasting notes: %w", err)
	}
	return nil
}

// Reset clears the user's dirty markers after a successful drain: UPDATE rows
// become clean, INSERT and DELETE rows are physically removed. Both
// statements commit or roll back together.
func (r *SQLiteRepository) Reset(ctx context.Context, userID int64) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE tasting_notes SET sync_status = NULL WHERE sync_status = 'UPDATE' AND user_id = ?`,
			userID)
		if err != nil {
			return fmt.Errorf("failed to clear update markers: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM tasting_notes WHERE sync_status IN ('INSERT', 'DELETE') AND user_id = ?`,
			userID)
		if err != nil {
			return fmt.Errorf("failed to drop reconciled rows: %w", err)
		}
		return nil
	})
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
