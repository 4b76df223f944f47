package vault

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teaisforme/teataster/internal/common"
	"github.com/teaisforme/teataster/internal/cryptox"
)

func newTestVault(t *testing.T, cfg Config) *FileVault {
	t.Helper()
	v, err := NewFileVault(t.TempDir(), cfg)
	require.NoError(t, err)
	return v
}

func secureStorageConfig() Config {
	return Config{
		Key:                "app.teataster",
		Type:               TypeSecureStorage,
		DeviceSecurityType: DeviceSecurityNone,
	}
}

func TestFileVault_SetGetRoundTrip(t *testing.T) {
	v := newTestVault(t, secureStorageConfig())
	ctx := context.Background()

	require.NoError(t, v.SetValue(ctx, "session", []byte(`{"token":"abc"}`)))

	got, err := v.GetValue(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"token":"abc"}`), got)
}

func TestFileVault_GetMissingKey(t *testing.T) {
	v := newTestVault(t, secureStorageConfig())

	got, err := v.GetValue(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileVault_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	v, err := NewFileVault(dir, secureStorageConfig())
	require.NoError(t, err)
	require.NoError(t, v.SetValue(ctx, "session", []byte("hello")))

	v2, err := NewFileVault(dir, secureStorageConfig())
	require.NoError(t, err)
	got, err := v2.GetValue(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestFileVault_MismatchedKeyFileRejected(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	v, err := NewFileVault(dir, secureStorageConfig())
	require.NoError(t, err)
	require.NoError(t, v.SetValue(ctx, "session", []byte("x")))

	// a key file from some other vault: right shape, wrong id
	stray := keyFile{
		KeyID: uuid.NewString(),
		Key:   common.GenerateRandByteArray(cryptox.KeySize),
	}
	data, err := json.Marshal(stray)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), data, 0o600))

	_, err = NewFileVault(dir, secureStorageConfig())
	assert.ErrorIs(t, err, common.ErrVaultUnavailable)
}

func TestFileVault_KeyIDStableAcrossWrites(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	v, err := NewFileVault(dir, secureStorageConfig())
	require.NoError(t, err)
	require.NoError(t, v.SetValue(ctx, "a", []byte("1")))

	readEnvelopeKeyID := func() string {
		data, err := os.ReadFile(filepath.Join(dir, dataFileName))
		require.NoError(t, err)
		var env envelope
		require.NoError(t, json.Unmarshal(data, &env))
		return env.KeyID
	}

	first := readEnvelopeKeyID()
	require.NotEmpty(t, first)

	require.NoError(t, v.SetValue(ctx, "b", []byte("2")))
	assert.Equal(t, first, readEnvelopeKeyID())
}

func TestFileVault_SecureStorageNeverLocks(t *testing.T) {
	v := newTestVault(t, secureStorageConfig())
	ctx := context.Background()

	require.NoError(t, v.SetValue(ctx, "k", []byte("v")))
	require.NoError(t, v.Lock(ctx))

	locked, err := v.IsLocked(ctx)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestFileVault_DeviceSecurityLockUnlock(t *testing.T) {
	cfg := secureStorageConfig()
	v := newTestVault(t, cfg)
	ctx := context.Background()

	require.NoError(t, v.SetValue(ctx, "session", []byte("s1")))

	cfg.Type = TypeDeviceSecurity
	cfg.DeviceSecurityType = DeviceSecurityBoth
	require.NoError(t, v.UpdateConfig(ctx, cfg))

	var lockFired, unlockFired int
	v.OnLock(func() { lockFired++ })
	v.OnUnlock(func() { unlockFired++ })

	require.NoError(t, v.Lock(ctx))
	locked, err := v.IsLocked(ctx)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 1, lockFired)

	_, err = v.GetValue(ctx, "session")
	assert.ErrorIs(t, err, common.ErrVaultLocked)

	require.NoError(t, v.Unlock(ctx))
	assert.Equal(t, 1, unlockFired)

	got, err := v.GetValue(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, []byte("s1"), got)
}

func TestFileVault_CustomPasscode(t *testing.T) {
	cfg := secureStorageConfig()
	v := newTestVault(t, cfg)
	ctx := context.Background()

	var setRequests, unlockRequests int
	v.OnPasscodeRequested(func(isSetRequest bool) {
		if isSetRequest {
			setRequests++
			v.SetCustomPasscode("1234")
		} else {
			unlockRequests++
			v.SetCustomPasscode("1234")
		}
	})

	require.NoError(t, v.SetValue(ctx, "session", []byte("pin-data")))

	cfg.Type = TypeCustomPasscode
	require.NoError(t, v.UpdateConfig(ctx, cfg))
	assert.Equal(t, 1, setRequests)

	require.NoError(t, v.Lock(ctx))
	require.NoError(t, v.Unlock(ctx))
	assert.Equal(t, 1, unlockRequests)

	got, err := v.GetValue(ctx, "session")
	require.NoError(t, err)
	assert.Equal(t, []byte("pin-data"), got)
}

func TestFileVault_CustomPasscodeWrongCode(t *testing.T) {
	cfg := secureStorageConfig()
	v := newTestVault(t, cfg)
	ctx := context.Background()

	code := "1234"
	v.OnPasscodeRequested(func(isSetRequest bool) { v.SetCustomPasscode(code) })

	require.NoError(t, v.SetValue(ctx, "session", []byte("x")))
	cfg.Type = TypeCustomPasscode
	require.NoError(t, v.UpdateConfig(ctx, cfg))
	require.NoError(t, v.Lock(ctx))

	code = "9999"
	assert.Error(t, v.Unlock(ctx))

	code = "1234"
	require.NoError(t, v.Unlock(ctx))
}

func TestFileVault_ClearRemovesEverything(t *testing.T) {
	v := newTestVault(t, secureStorageConfig())
	ctx := context.Background()

	require.NoError(t, v.SetValue(ctx, "session", []byte("x")))
	exists, err := v.DoesVaultExist(ctx)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, v.Clear(ctx))

	exists, err = v.DoesVaultExist(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := v.GetValue(ctx, "session")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileVault_InMemoryDiscardOnLock(t *testing.T) {
	cfg := secureStorageConfig()
	cfg.Type = TypeInMemory
	v := newTestVault(t, cfg)
	ctx := context.Background()

	require.NoError(t, v.SetValue(ctx, "session", []byte("volatile")))
	exists, err := v.DoesVaultExist(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, v.Lock(ctx))

	// nothing persisted, so nothing comes back
	require.NoError(t, v.Unlock(ctx))
	got, err := v.GetValue(ctx, "session")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileVault_UpdateConfigWhileLocked(t *testing.T) {
	cfg := secureStorageConfig()
	v := newTestVault(t, cfg)
	ctx := context.Background()

	require.NoError(t, v.SetValue(ctx, "k", []byte("v")))
	cfg.Type = TypeDeviceSecurity
	require.NoError(t, v.UpdateConfig(ctx, cfg))
	require.NoError(t, v.Lock(ctx))

	cfg.Type = TypeSecureStorage
	assert.ErrorIs(t, v.UpdateConfig(ctx, cfg), common.ErrVaultLocked)
}
