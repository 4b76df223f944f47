package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teaisforme/teataster/internal/client/vault"
)

func TestModeFromVaultType_RoundTrip(t *testing.T) {
	modes := []UnlockMode{UnlockModeDevice, UnlockModeSessionPIN, UnlockModeForceLogin, UnlockModeNeverLock}
	for _, m := range modes {
		vt, _ := m.VaultConfig()
		assert.Equal(t, m, ModeFromVaultType(vt))
	}
}

func TestModeFromVaultType_UnknownFallsBack(t *testing.T) {
	assert.Equal(t, UnlockModeNeverLock, ModeFromVaultType(vault.Type("Weird")))
}
