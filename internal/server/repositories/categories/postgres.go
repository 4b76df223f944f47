// Package categories serves the shared tea-category list from PostgreSQL.
package categories

import (
	"context"
	"fmt"

	"github.com/teaisforme/teataster/internal/dbx"
	"github.com/teaisforme/teataster/internal/server/models"
)

type Repository interface {
	GetAll(ctx context.Context) ([]models.TeaCategory, error)
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAll(ctx context.Context) ([]models.TeaCategory, error) {
	query := `SELECT id, name, description FROM tea_categories ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.TeaCategory
	for rows.Next() {
		var item models.TeaCategory
		if err := rows.Scan(&item.ID, &item.Name, &item.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
