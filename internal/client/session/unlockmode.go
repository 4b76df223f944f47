package session

import "github.com/teaisforme/teataster/internal/client/vault"

// UnlockMode is the user-selectable security posture for the session vault.
type UnlockMode string

const (
	// UnlockModeDevice unlocks with device biometrics or system passcode.
	UnlockModeDevice UnlockMode = "Device"
	// UnlockModeSessionPIN unlocks with an app-defined PIN.
	UnlockModeSessionPIN UnlockMode = "SessionPIN"
	// UnlockModeNeverLock keeps the session available without unlocking.
	UnlockModeNeverLock UnlockMode = "NeverLock"
	// UnlockModeForceLogin discards the session when the vault locks.
	UnlockModeForceLogin UnlockMode = "ForceLogin"
)

// VaultConfig returns the vault posture for the mode. Unrecognized modes fall
// back to NeverLock.
func (m UnlockMode) VaultConfig() (vault.Type, vault.DeviceSecurityType) {
	switch m {
	case UnlockModeDevice:
		return vault.TypeDeviceSecurity, vault.DeviceSecurityBoth
	case UnlockModeSessionPIN:
		return vault.TypeCustomPasscode, vault.DeviceSecurityNone
	case UnlockModeForceLogin:
		return vault.TypeInMemory, vault.DeviceSecurityNone
	case UnlockModeNeverLock:
		return vault.TypeSecureStorage, vault.DeviceSecurityNone
	default:
		return vault.TypeSecureStorage, vault.DeviceSecurityNone
	}
}

// ModeFromVaultType maps a vault type back to the unlock mode that selects it.
func ModeFromVaultType(t vault.Type) UnlockMode {
	switch t {
	case vault.TypeDeviceSecurity:
		return UnlockModeDevice
	case vault.TypeCustomPasscode:
		return UnlockModeSessionPIN
	case vault.TypeInMemory:
		return UnlockModeForceLogin
	default:
		return UnlockModeNeverLock
	}
}
