package models

// SyncStatus tags a locally cached row with its pending mutation relative to
// the backend. The zero value means the row matches the backend. The tag
// lives only in the local cache and is never sent over the wire.
type SyncStatus string

const (
	SyncStatusNone   SyncStatus = ""
	SyncStatusInsert SyncStatus = "INSERT"
	SyncStatusUpdate SyncStatus = "UPDATE"
	SyncStatusDelete SyncStatus = "DELETE"
)

// Dirty reports whether the row has unsynchronized local changes.
func (s SyncStatus) Dirty() bool {
	return s != SyncStatusNone
}

// TeaCategory is a shared reference record; the backend owns the list and the
// local cache only mirrors it.
type TeaCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TastingNote is a per-user record. The ID is provisional (assigned locally)
// while SyncStatus is INSERT and authoritative once the backend has seen it.
// The id is omitted from JSON when zero so the backend assigns one on create.
type TastingNote struct {
	ID            int64      `json:"id,omitempty"`
	Name          string     `json:"name"`
	Brand         string     `json:"brand"`
	Notes         string     `json:"notes"`
	Rating        int        `json:"rating"`
	TeaCategoryID int64      `json:"teaCategoryId"`
	SyncStatus    SyncStatus `json:"-"`
}
