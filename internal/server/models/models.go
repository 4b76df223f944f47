// Package models defines the server-side database records.
package models

// User is an account row. PasswordHash holds the encoded argon2id hash and
// never leaves the server.
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// TeaCategory is a shared reference record served to all users.
type TeaCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TastingNote is a per-user record. UserID scopes every query; it is never
// part of the API payload.
type TastingNote struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Notes         string `json:"notes"`
	Rating        int    `json:"rating"`
	TeaCategoryID int64  `json:"teaCategoryId"`
	UserID        int64  `json:"-"`
}
