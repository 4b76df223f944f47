// Package categories provides the SQLite-backed local mirror of tea
// categories.
package categories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/teaisforme/teataster/internal/client/models"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.TeaCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM tea_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select tea categories: %w", err)
	}
	defer rows.Close()

	var result []models.TeaCategory
	for rows.Next() {
		var item models.TeaCategory
		if err := rows.Scan(&item.ID, &item.Name, &item.Description); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, cat *models.TeaCategory) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tea_categories (id, name, description)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description`,
		cat.ID, cat.Name, cat.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert tea category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Trim(ctx context.Context, idsToKeep []int64) error {
	query := `DELETE FROM tea_categories`
	args := []any{}
	if len(idsToKeep) > 0 {
		n := strings.TrimSuffix(strings.Repeat("?, ", len(idsToKeep)), ", ")
		query += fmt.Sprintf(` WHERE id NOT IN (%s)`, n)
		for _, id := range idsToKeep {
			args = append(args, id)
		}
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to trim tea categories: %w", err)
	}
	return nil
}
