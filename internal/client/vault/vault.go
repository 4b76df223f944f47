// Package vault defines the secure keyed-store capability the session layer
// is built on: an optionally lockable key-value store with a configurable
// security posture, plus the device biometric capability checks.
//
// The Vault interface mirrors what platform secure-storage SDKs provide.
// FileVault is a self-contained implementation for platforms without one.
package vault

import (
	"context"
	"time"
)

// Type selects how the vault protects its contents.
type Type string

const (
	// TypeSecureStorage persists values encrypted at rest and never locks.
	TypeSecureStorage Type = "SecureStorage"
	// TypeDeviceSecurity gates unlocking behind device biometrics or passcode.
	TypeDeviceSecurity Type = "DeviceSecurity"
	// TypeCustomPasscode derives the encryption key from an app-defined code.
	TypeCustomPasscode Type = "CustomPasscode"
	// TypeInMemory keeps values in process memory only; locking discards them.
	TypeInMemory Type = "InMemory"
)

// DeviceSecurityType narrows which device credential unlocks a
// TypeDeviceSecurity vault.
type DeviceSecurityType string

const (
	DeviceSecurityNone           DeviceSecurityType = "None"
	DeviceSecurityBiometrics     DeviceSecurityType = "Biometrics"
	DeviceSecuritySystemPasscode DeviceSecurityType = "SystemPasscode"
	DeviceSecurityBoth           DeviceSecurityType = "Both"
)

// Config is the vault's security posture. UpdateConfig applies a new Config
// atomically; a partially applied posture change is never observable.
type Config struct {
	Key                   string
	Type                  Type
	DeviceSecurityType    DeviceSecurityType
	LockAfterBackgrounded time.Duration
	ClearOnFailedUnlocks  bool
	InvalidUnlockAttempts int
	UnlockOnLoad          bool
}

// Vault is the secure keyed store consumed by the session store. Lock,
// unlock, and passcode events are delivered to registered handlers
// synchronously with the state transition; handlers are fire-and-forget and
// must not call back into the vault except for SetCustomPasscode.
type Vault interface {
	GetValue(ctx context.Context, key string) ([]byte, error)
	SetValue(ctx context.Context, key string, value []byte) error

	// Clear removes all stored values and their on-disk artifacts.
	Clear(ctx context.Context) error

	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error

	// UpdateConfig re-keys and re-persists the vault under the new posture.
	UpdateConfig(ctx context.Context, cfg Config) error

	DoesVaultExist(ctx context.Context) (bool, error)
	IsLocked(ctx context.Context) (bool, error)
	Config() Config

	OnLock(fn func())
	OnUnlock(fn func())

	// OnPasscodeRequested registers a handler invoked when a custom-passcode
	// vault needs a code. isSetRequest is true when a new code is being
	// established. The handler supplies the code via SetCustomPasscode.
	OnPasscodeRequested(fn func(isSetRequest bool))
	SetCustomPasscode(code string)
}
