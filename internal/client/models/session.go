// Package models defines the client-side domain types: the authenticated
// session, tea categories, and tasting notes with their local sync state.
package models

// User identifies an authenticated user as reported by the backend.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Session pairs the authenticated user with the opaque API token. It is owned
// by the session store, cached in memory, and mirrored in the vault under a
// fixed key.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
