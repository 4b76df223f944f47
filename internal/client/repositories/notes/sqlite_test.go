package notes

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/teaisforme/teataster/internal/client/models"
)

const testUserID int64 = 7

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE tasting_notes (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			rating INTEGER NOT NULL DEFAULT 0,
			tea_category_id INTEGER NOT NULL DEFAULT 0,
			user_id INTEGER NOT NULL,
			sync_status TEXT
		)`)
	require.NoError(t, err)
	return db
}

func insertRow(t *testing.T, db *sql.DB, id int64, name string, userID int64, status any) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO tasting_notes (id, name, brand, notes, rating, tea_category_id, user_id, sync_status)
		VALUES (?, ?, '', '', 0, 1, ?, ?)`, id, name, userID, status)
	require.NoError(t, err)
}

func rowStatus(t *testing.T, db *sql.DB, id int64) (string, bool) {
	t.Helper()
	var status sql.NullString
	err := db.QueryRow(`SELECT sync_status FROM tasting_notes WHERE id = ?`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return "", false
	}
	require.NoError(t, err)
	return status.String, true
}

func TestAddAssignsNextIDAndMarksInsert(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	insertRow(t, db, 41, "Sencha", testUserID, nil)

	note := &models.TastingNote{Name: "Gyokuro", Brand: "Ippodo", Rating: 5, TeaCategoryID: 2}
	err := repo.Add(ctx, note, testUserID)
	require.NoError(t, err)

	assert.Equal(t, int64(42), note.ID)
	assert.Equal(t, models.SyncStatusInsert, note.SyncStatus)

	status, ok := rowStatus(t, db, 42)
	require.True(t, ok)
	assert.Equal(t, "INSERT", status)
}

func TestUpdateTransitions(t *testing.T) {
	tests := []struct {
		name       string
		stored     any
		wantStatus string
	}{
		{"clean row becomes update", nil, "UPDATE"},
		{"insert stays insert", "INSERT", "INSERT"},
		{"update stays update", "UPDATE", "UPDATE"},
		{"delete stays delete", "DELETE", "DELETE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			repo := NewSQLiteRepository(db)

			insertRow(t, db, 1, "Assam", testUserID, tt.stored)

			note := &models.TastingNote{ID: 1, Name: "Assam FTGFOP", Rating: 4, TeaCategoryID: 3}
			err := repo.Update(context.Background(), note, testUserID)
			require.NoError(t, err)

			status, ok := rowStatus(t, db, 1)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, status)

			var name string
			require.NoError(t, db.QueryRow(
				`SELECT name FROM tasting_notes WHERE id = 1`).Scan(&name))
			assert.Equal(t, "Assam FTGFOP", name)
		})
	}
}

func TestUpdateMissingRow(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	note := &models.TastingNote{ID: 99, Name: "Nope"}
	err := repo.Update(context.Background(), note, testUserID)
	assert.Error(t, err)
}

func TestUpdateOtherUsersRow(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	insertRow(t, db, 1, "Keemun", 99, nil)

	note := &models.TastingNote{ID: 1, Name: "Hijacked"}
	err := repo.Update(context.Background(), note, testUserID)
	assert.Error(t, err)

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM tasting_notes WHERE id = 1`).Scan(&name))
	assert.Equal(t, "Keemun", name)
}

func TestMarkForDelete(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	insertRow(t, db, 1, "Puerh", testUserID, "UPDATE")

	err := repo.MarkForDelete(context.Background(), 1, testUserID)
	require.NoError(t, err)

	status, ok := rowStatus(t, db, 1)
	require.True(t, ok)
	assert.Equal(t, "DELETE", status)
}

func TestGetAllFiltersDeletedAndOrdersByName(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	insertRow(t, db, 1, "Sencha", testUserID, nil)
	insertRow(t, db, 2, "Assam", testUserID, "DELETE")
	insertRow(t, db, 3, "Matcha", testUserID, "INSERT")
	insertRow(t, db, 4, "Oolong", 99, nil)

	visible, err := repo.GetAll(ctx, testUserID, false)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "Matcha", visible[0].Name)
	assert.Equal(t, "Sencha", visible[1].Name)

	all, err := repo.GetAll(ctx, testUserID, true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Assam", all[0].Name)
	assert.Equal(t, models.SyncStatusDelete, all[0].SyncStatus)
}

func TestUpsertInsertsCleanRow(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	note := &models.TastingNote{ID: 10, Name: "Darjeeling", Rating: 4, TeaCategoryID: 1}
	err := repo.Upsert(context.Background(), note, testUserID)
	require.NoError(t, err)

	status, ok := rowStatus(t, db, 10)
	require.True(t, ok)
	assert.Equal(t, "", status)
}

func TestUpsertOverwritesCleanRowOnly(t *testing.T) {
	tests := []struct {
		name     string
		stored   any
		wantName string
	}{
		{"clean row refreshed", nil, "Remote"},
		{"insert row preserved", "INSERT", "Local"},
		{"update row preserved", "UPDATE", "Local"},
		{"delete row preserved", "DELETE", "Local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			repo := NewSQLiteRepository(db)

			insertRow(t, db, 1, "Local", testUserID, tt.stored)

			note := &models.TastingNote{ID: 1, Name: "Remote"}
			err := repo.Upsert(context.Background(), note, testUserID)
			require.NoError(t, err)

			var name string
			require.NoError(t, db.QueryRow(
				`SELECT name FROM tasting_notes WHERE id = 1`).Scan(&name))
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestTrimKeepsListedRowsForUser(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	insertRow(t, db, 1, "Sencha", testUserID, nil)
	insertRow(t, db, 2, "Assam", testUserID, nil)
	insertRow(t, db, 3, "Oolong", 99, nil)

	err := repo.Trim(context.Background(), []int64{1}, testUserID)
	require.NoError(t, err)

	_, ok := rowStatus(t, db, 1)
	assert.True(t, ok)
	_, ok = rowStatus(t, db, 2)
	assert.False(t, ok)
	// another user's cache is untouched
	_, ok = rowStatus(t, db, 3)
	assert.True(t, ok)
}

func TestTrimEmptyKeepSetDropsAllUserRows(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	insertRow(t, db, 1, "Sencha", testUserID, nil)
	insertRow(t, db, 2, "Oolong", 99, nil)

	err := repo.Trim(context.Background(), nil, testUserID)
	require.NoError(t, err)

	_, ok := rowStatus(t, db, 1)
	assert.False(t, ok)
	_, ok = rowStatus(t, db, 2)
	assert.True(t, ok)
}

func TestReset(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	insertRow(t, db, 1, "Updated", testUserID, "UPDATE")
	insertRow(t, db, 2, "Inserted", testUserID, "INSERT")
	insertRow(t, db, 3, "Deleted", testUserID, "DELETE")
	insertRow(t, db, 4, "Clean", testUserID, nil)
	insertRow(t, db, 5, "Foreign", 99, "UPDATE")

	err := repo.Reset(context.Background(), testUserID)
	require.NoError(t, err)

	status, ok := rowStatus(t, db, 1)
	require.True(t, ok)
	assert.Equal(t, "", status)

	_, ok = rowStatus(t, db, 2)
	assert.False(t, ok)
	_, ok = rowStatus(t, db, 3)
	assert.False(t, ok)

	_, ok = rowStatus(t, db, 4)
	assert.True(t, ok)

	status, ok = rowStatus(t, db, 5)
	require.True(t, ok)
	assert.Equal(t, "UPDATE", status)
}
