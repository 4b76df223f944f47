package vault

import (
	"context"
	"errors"
)

// PermissionState reports where biometric permission stands for this app.
type PermissionState string

const (
	PermissionGranted PermissionState = "Granted"
	PermissionDenied  PermissionState = "Denied"
	PermissionPrompt  PermissionState = "Prompt"
)

// ErrBiometricsUnavailable is returned by ShowBiometricPrompt on devices
// without biometric hardware.
var ErrBiometricsUnavailable = errors.New("biometrics not available")

// Device exposes the platform security capabilities the unlock-mode policy
// consults before configuring the vault.
type Device interface {
	// IsBiometricsEnabled reports whether biometric hardware is present and
	// enrolled.
	IsBiometricsEnabled(ctx context.Context) (bool, error)

	// IsBiometricsAllowed reports the biometric permission state for the app.
	IsBiometricsAllowed(ctx context.Context) (PermissionState, error)

	// ShowBiometricPrompt asks the user to authenticate, displaying reason.
	ShowBiometricPrompt(ctx context.Context, reason string) error

	// SupportsLocking reports whether this platform can lock a vault at all.
	// Platforms without secure hardware/software locking return false.
	SupportsLocking(ctx context.Context) (bool, error)
}

// DesktopDevice is the Device implementation for desktop terminals: no
// biometrics, but software locking is available.
type DesktopDevice struct{}

func (DesktopDevice) IsBiometricsEnabled(ctx context.Context) (bool, error) {
	return false, nil
}

func (DesktopDevice) IsBiometricsAllowed(ctx context.Context) (PermissionState, error) {
	return PermissionDenied, nil
}

func (DesktopDevice) ShowBiometricPrompt(ctx context.Context, reason string) error {
	return ErrBiometricsUnavailable
}

func (DesktopDevice) SupportsLocking(ctx context.Context) (bool, error) {
	return true, nil
}
