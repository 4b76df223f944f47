// Package session owns the authenticated session: an in-memory cache mirrored
// in the vault, the unlock-mode policy that maps security postures onto vault
// configuration, and the reactions to vault lock events.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/teaisforme/teataster/internal/client/models"
	"github.com/teaisforme/teataster/internal/client/vault"
	"github.com/teaisforme/teataster/internal/logging"
)

// sessionKey is the fixed vault key the session record is mirrored under.
const sessionKey = "session"

// biometricPromptReason is shown by the OS when provisioning biometrics.
const biometricPromptReason = "Authenticate to continue"

// Navigator routes the user back to the login entry point after a lock event.
type Navigator interface {
	ReplaceToLogin()
}

// PasscodeProvider captures a user-entered code for custom-passcode vaults
// (a PIN dialog in a GUI, a terminal prompt in the CLI).
type PasscodeProvider interface {
	RequestPasscode(isSetRequest bool) (string, error)
}

// Store is the single source of truth for "is there an authenticated
// session". The in-memory cache is authoritative until a lock event
// invalidates it; the vault holds the durable copy.
type Store struct {
	vault  vault.Vault
	device vault.Device
	nav    Navigator
	log    logging.Logger

	group singleflight.Group

	mu      sync.Mutex
	session *models.Session
}

// NewStore wires the store to its collaborators and registers the lock and
// passcode-requested handlers exactly once. The lock handler drops the cached
// session and navigates to login; it does not touch the vault contents.
func NewStore(v vault.Vault, d vault.Device, nav Navigator, pp PasscodeProvider, log logging.Logger) *Store {
	s := &Store{vault: v, device: d, nav: nav, log: log}

	v.OnLock(func() {
		s.mu.Lock()
		s.session = nil
		s.mu.Unlock()
		nav.ReplaceToLogin()
	})

	v.OnPasscodeRequested(func(isSetRequest bool) {
		code, err := pp.RequestPasscode(isSetRequest)
		if err != nil {
			s.log.Warn(context.Background(), "passcode entry failed", "error", err)
			code = ""
		}
		v.SetCustomPasscode(code)
	})

	return s
}

// GetSession returns the cached session, falling back to a vault read on a
// miss. Concurrent misses share a single vault read; with no intervening
// SetSession or lock event the vault is consulted at most once.
func (s *Store) GetSession(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	if s.session != nil {
		sess := s.session
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(sessionKey, func() (any, error) {
		raw, err := s.vault.GetValue(ctx, sessionKey)
		if err != nil {
			return nil, fmt.Errorf("reading session from vault: %w", err)
		}
		if raw == nil {
			return (*models.Session)(nil), nil
		}
		var sess models.Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return nil, fmt.Errorf("decoding stored session: %w", err)
		}
		s.mu.Lock()
		s.session = &sess
		s.mu.Unlock()
		return &sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Session), nil
}

// SetSession caches the session and writes it through to the vault. The cache
// is updated before the vault write resolves, so a subsequent GetSession never
// touches the vault.
func (s *Store) SetSession(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()

	if err := s.vault.SetValue(ctx, sessionKey, raw); err != nil {
		return fmt.Errorf("writing session to vault: %w", err)
	}
	return nil
}

// ClearSession resets the unlock mode to NeverLock, clears the vault, and
// drops the cache, in that order. The mode reset must come first so the vault
// is left in a restorable state; failures propagate to the caller.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.SetUnlockMode(ctx, UnlockModeNeverLock); err != nil {
		return fmt.Errorf("resetting unlock mode: %w", err)
	}
	if err := s.vault.Clear(ctx); err != nil {
		return fmt.Errorf("clearing vault: %w", err)
	}
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	return nil
}

// AuthToken returns the current session's API token, or "" when there is no
// session. Satisfies the gateway client's token provider.
func (s *Store) AuthToken(ctx context.Context) (string, error) {
	sess, err := s.GetSession(ctx)
	if err != nil || sess == nil {
		return "", err
	}
	return sess.Token, nil
}

// CanUseLocking reports whether this platform supports vault locking at all.
func (s *Store) CanUseLocking(ctx context.Context) bool {
	ok, err := s.device.SupportsLocking(ctx)
	return err == nil && ok
}

// CanUnlock is true iff the vault exists, is currently locked, and the
// platform supports locking.
func (s *Store) CanUnlock(ctx context.Context) (bool, error) {
	if !s.CanUseLocking(ctx) {
		return false, nil
	}
	exists, err := s.vault.DoesVaultExist(ctx)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	return s.vault.IsLocked(ctx)
}

// Unlock unlocks the vault under its current posture.
func (s *Store) Unlock(ctx context.Context) error {
	return s.vault.Unlock(ctx)
}

// Lock locks the vault; the registered lock handler then drops the cache.
func (s *Store) Lock(ctx context.Context) error {
	return s.vault.Lock(ctx)
}

// CurrentMode reports the unlock mode implied by the vault's configuration.
func (s *Store) CurrentMode() UnlockMode {
	return ModeFromVaultType(s.vault.Config().Type)
}

// SetUnlockMode applies the vault posture for mode as one atomic config
// update. Device mode first provisions biometric permission: an undecided
// permission state triggers the biometric prompt; Granted and Denied apply
// the configuration without prompting.
func (s *Store) SetUnlockMode(ctx context.Context, mode UnlockMode) error {
	if mode == UnlockModeDevice {
		if err := s.provisionBiometrics(ctx); err != nil {
			return fmt.Errorf("provisioning biometrics: %w", err)
		}
	}

	vt, dst := mode.VaultConfig()
	cfg := s.vault.Config()
	cfg.Type = vt
	cfg.DeviceSecurityType = dst

	if err := s.vault.UpdateConfig(ctx, cfg); err != nil {
		return fmt.Errorf("updating vault config: %w", err)
	}
	return nil
}

func (s *Store) provisionBiometrics(ctx context.Context) error {
	state, err := s.device.IsBiometricsAllowed(ctx)
	if err != nil {
		return err
	}
	if state == vault.PermissionPrompt {
		return s.device.ShowBiometricPrompt(ctx, biometricPromptReason)
	}
	return nil
}
