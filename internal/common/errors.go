// Package common defines shared constants and sentinel errors used across
// the client and server layers of Tea Taster. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Vault errors. ErrVaultUnavailable covers open/config failures;
	// ErrVaultLocked is returned when values are requested from a locked vault.
	ErrVaultUnavailable = errors.New("vault unavailable")
	ErrVaultLocked      = errors.New("vault is locked")

	// Sync errors. A failed remote call aborts the whole reconciliation;
	// local dirty markers stay in place so a retry re-attempts the same set.
	ErrSyncAborted = errors.New("sync aborted")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
