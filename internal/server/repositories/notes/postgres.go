// Package notes stores tasting notes in PostgreSQL.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/teaisforme/teataster/internal/common"
	"github.com/teaisforme/teataster/internal/dbx"
	"github.com/teaisforme/teataster/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetAllByUser(ctx context.Context, userID int64) ([]models.TastingNote, error) {
	query :=
		`SELECT id, name, brand, notes, rating, tea_category_id, user_id FROM tasting_notes
		 WHERE user_id = $1
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.TastingNote
	for rows.Next() {
		var item models.TastingNote
		if err := rows.Scan(&item.ID, &item.Name, &item.Brand, &item.Notes,
			&item.Rating, &item.TeaCategoryID, &item.UserID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64, userID int64) (*models.TastingNote, error) {
	query :=
		`SELECT id, name, brand, notes, rating, tea_category_id, user_id FROM tasting_notes
		 WHERE id = $1 AND user_id = $2
		 `

	note := &models.TastingNote{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&note.ID, &note.Name, &note.Brand, &note.Notes,
		&note.Rating, &note.TeaCategoryID, &note.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

func (r *PostgresRepository) Create(ctx context.Context, note *models.TastingNote) (*models.TastingNote, error) {
	query :=
		`INSERT INTO tasting_notes (name, brand, notes, rating, tea_category_id, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		note.Name, note.Brand, note.Notes, note.Rating, note.TeaCategoryID, note.UserID).Scan(&note.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

func (r *PostgresRepository) Update(ctx context.Context, note *models.TastingNote) (*models.TastingNote, error) {
	query :=
		`UPDATE tasting_notes
		 SET name = $1, brand = $2, notes = $3, rating = $4, tea_category_id = $5
		 WHERE id = $6 AND user_id = $7
		 `

	res, err := r.db.ExecContext(ctx, query,
		note.Name, note.Brand, note.Notes, note.Rating, note.TeaCategoryID, note.ID, note.UserID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}
	return note, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64, userID int64) error {
	query := `DELETE FROM tasting_notes WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
