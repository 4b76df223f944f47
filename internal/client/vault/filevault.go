package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/teaisforme/teataster/internal/common"
	"github.com/teaisforme/teataster/internal/cryptox"
)

const (
	dataFileName = "vault.json"
	keyFileName  = "vault.key"
)

// envelope is the on-disk form of the vault: the posture it was written
// under, the id of the key that sealed it, the key-derivation salt (custom
// passcode only), and the AES-GCM sealed value map.
type envelope struct {
	Type               Type               `json:"type"`
	DeviceSecurityType DeviceSecurityType `json:"deviceSecurityType"`
	KeyID              string             `json:"keyId"`
	Salt               []byte             `json:"salt,omitempty"`
	Nonce              []byte             `json:"nonce"`
	Data               []byte             `json:"data"`
}

// keyFile pairs key material with the id the envelope records, so a swapped
// or stale key file is detected before decryption is even attempted.
type keyFile struct {
	KeyID string `json:"keyId"`
	Key   []byte `json:"key"`
}

// FileVault is a file-backed Vault. Values live in an encrypted envelope on
// disk; the key material depends on the configured Type. For
// TypeDeviceSecurity the key file stands in for a platform keystore entry
// released by the Device credential check. TypeInMemory skips disk entirely.
type FileVault struct {
	mu  sync.Mutex
	dir string
	cfg Config

	key      []byte
	keyID    string
	values   map[string][]byte // nil while locked
	salt     []byte
	attempts int

	pcMu     sync.Mutex
	passcode string

	onLock     []func()
	onUnlock   []func()
	onPasscode []func(isSetRequest bool)
}

var _ Vault = (*FileVault)(nil)

// NewFileVault opens (or prepares) a vault rooted at dir. If an envelope
// already exists on disk its persisted posture wins over cfg. Non-locking
// types come up unlocked; locking types come up locked until Unlock.
func NewFileVault(dir string, cfg Config) (*FileVault, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
	}

	v := &FileVault{dir: dir, cfg: cfg}

	env, err := v.readEnvelope()
	if err != nil {
		return nil, err
	}
	if env != nil {
		v.cfg.Type = env.Type
		v.cfg.DeviceSecurityType = env.DeviceSecurityType
		v.salt = env.Salt
	}

	switch v.cfg.Type {
	case TypeInMemory:
		v.values = map[string][]byte{}
	case TypeSecureStorage:
		if err := v.unlockLocked(); err != nil {
			return nil, err
		}
	case TypeDeviceSecurity, TypeCustomPasscode:
		if env == nil {
			// nothing stored yet, start unlocked and empty
			v.values = map[string][]byte{}
		}
	}

	return v, nil
}

func (v *FileVault) dataPath() string { return filepath.Join(v.dir, dataFileName) }
func (v *FileVault) keyPath() string  { return filepath.Join(v.dir, keyFileName) }

func (v *FileVault) Config() Config {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cfg
}

func (v *FileVault) OnLock(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onLock = append(v.onLock, fn)
}

func (v *FileVault) OnUnlock(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onUnlock = append(v.onUnlock, fn)
}

func (v *FileVault) OnPasscodeRequested(fn func(isSetRequest bool)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onPasscode = append(v.onPasscode, fn)
}

func (v *FileVault) SetCustomPasscode(code string) {
	v.pcMu.Lock()
	defer v.pcMu.Unlock()
	v.passcode = code
}

func (v *FileVault) takePasscode() string {
	v.pcMu.Lock()
	defer v.pcMu.Unlock()
	code := v.passcode
	v.passcode = ""
	return code
}

func (v *FileVault) GetValue(ctx context.Context, key string) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.values == nil {
		return nil, common.ErrVaultLocked
	}
	val, ok := v.values[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(val), nil
}

func (v *FileVault) SetValue(ctx context.Context, key string, value []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.values == nil {
		return common.ErrVaultLocked
	}
	v.values[key] = slices.Clone(value)
	return v.persistLocked()
}

// Clear removes all values and on-disk artifacts. The vault stays open and
// usable under its current posture.
func (v *FileVault) Clear(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, p := range []string{v.dataPath(), v.keyPath()} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
		}
	}

	common.WipeByteArray(v.key)
	v.key = nil
	v.keyID = ""
	v.salt = nil
	v.attempts = 0
	v.values = map[string][]byte{}
	v.pcMu.Lock()
	v.passcode = ""
	v.pcMu.Unlock()
	return nil
}

// Lock seals the vault. TypeSecureStorage never locks; TypeInMemory discards
// its values. Lock handlers fire after the state transition completes.
func (v *FileVault) Lock(ctx context.Context) error {
	v.mu.Lock()
	if v.cfg.Type == TypeSecureStorage || v.values == nil {
		v.mu.Unlock()
		return nil
	}
	if err := v.persistLocked(); err != nil {
		v.mu.Unlock()
		return err
	}
	common.WipeByteArray(v.key)
	v.key = nil
	v.keyID = ""
	v.values = nil
	handlers := slices.Clone(v.onLock)
	v.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
	return nil
}

func (v *FileVault) Unlock(ctx context.Context) error {
	v.mu.Lock()
	if v.values != nil {
		v.mu.Unlock()
		return nil
	}
	err := v.unlockLocked()
	if err != nil {
		cleared := false
		if errors.Is(err, cryptox.ErrDecryptionFailed) {
			cleared = v.noteFailedUnlockLocked()
		}
		v.mu.Unlock()
		if cleared {
			return fmt.Errorf("%w: vault cleared after too many failed attempts", err)
		}
		return err
	}
	v.attempts = 0
	handlers := slices.Clone(v.onUnlock)
	v.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
	return nil
}

// noteFailedUnlockLocked counts a failed unlock and, if configured, clears
// the vault once the attempt limit is reached. Reports whether it cleared.
func (v *FileVault) noteFailedUnlockLocked() bool {
	v.attempts++
	if !v.cfg.ClearOnFailedUnlocks || v.cfg.InvalidUnlockAttempts <= 0 {
		return false
	}
	if v.attempts < v.cfg.InvalidUnlockAttempts {
		return false
	}
	_ = os.Remove(v.dataPath())
	_ = os.Remove(v.keyPath())
	v.salt = nil
	v.attempts = 0
	v.values = map[string][]byte{}
	return true
}

// unlockLocked loads key material per the current posture and decrypts the
// envelope. Caller holds v.mu.
func (v *FileVault) unlockLocked() error {
	env, err := v.readEnvelope()
	if err != nil {
		return err
	}
	if env == nil {
		v.values = map[string][]byte{}
		return nil
	}

	var key []byte
	keyID := env.KeyID
	switch v.cfg.Type {
	case TypeInMemory:
		v.values = map[string][]byte{}
		return nil
	case TypeSecureStorage, TypeDeviceSecurity:
		kf, err := v.readKeyFile()
		if err != nil {
			return err
		}
		if env.KeyID != "" && kf.KeyID != env.KeyID {
			return fmt.Errorf("%w: key file does not match envelope", common.ErrVaultUnavailable)
		}
		key = kf.Key
		keyID = kf.KeyID
	case TypeCustomPasscode:
		v.requestPasscodeLocked(false)
		code := v.takePasscode()
		if code == "" {
			return fmt.Errorf("%w: no passcode supplied", common.ErrVaultLocked)
		}
		key = cryptox.DeriveKey([]byte(code), env.Salt)
	default:
		return fmt.Errorf("%w: unknown vault type %q", common.ErrVaultUnavailable, v.cfg.Type)
	}

	plaintext, err := cryptox.Decrypt(env.Data, env.Nonce, key)
	if err != nil {
		return fmt.Errorf("unlock: %w", err)
	}

	values := map[string][]byte{}
	if err := json.Unmarshal(plaintext, &values); err != nil {
		return fmt.Errorf("%w: corrupt envelope: %v", common.ErrVaultUnavailable, err)
	}

	v.key = key
	v.keyID = keyID
	v.salt = env.Salt
	v.values = values
	return nil
}

// requestPasscodeLocked fires passcode handlers synchronously. Handlers call
// SetCustomPasscode, which uses its own lock, so holding v.mu here is fine.
func (v *FileVault) requestPasscodeLocked(isSetRequest bool) {
	for _, fn := range v.onPasscode {
		fn(isSetRequest)
	}
}

// UpdateConfig atomically re-keys the vault under the new posture and
// re-persists the current values. The vault must be unlocked.
func (v *FileVault) UpdateConfig(ctx context.Context, cfg Config) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.values == nil {
		return common.ErrVaultLocked
	}

	typeChanged := cfg.Type != v.cfg.Type
	v.cfg = cfg

	if typeChanged {
		common.WipeByteArray(v.key)
		v.key = nil
		v.keyID = ""
		v.salt = nil
		if err := os.Remove(v.keyPath()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
		}
		if cfg.Type == TypeInMemory {
			if err := os.Remove(v.dataPath()); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
			}
			return nil
		}
		if cfg.Type == TypeCustomPasscode {
			v.requestPasscodeLocked(true)
		}
	}

	return v.persistLocked()
}

func (v *FileVault) DoesVaultExist(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cfg.Type == TypeInMemory {
		return v.values != nil && len(v.values) > 0, nil
	}
	if _, err := os.Stat(v.dataPath()); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
	}
	return true, nil
}

func (v *FileVault) IsLocked(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values == nil, nil
}

// ensureKeyLocked makes sure key material exists for the current posture.
func (v *FileVault) ensureKeyLocked() error {
	if v.key != nil {
		return nil
	}
	switch v.cfg.Type {
	case TypeSecureStorage, TypeDeviceSecurity:
		kf, err := v.readKeyFile()
		if err == nil {
			v.key = kf.Key
			v.keyID = kf.KeyID
			return nil
		}
		if !os.IsNotExist(err) {
			return err
		}
		kf = &keyFile{
			KeyID: uuid.NewString(),
			Key:   common.GenerateRandByteArray(cryptox.KeySize),
		}
		data, err := json.Marshal(kf)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
		}
		if err := os.WriteFile(v.keyPath(), data, 0o600); err != nil {
			return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
		}
		v.key = kf.Key
		v.keyID = kf.KeyID
		return nil
	case TypeCustomPasscode:
		code := v.takePasscode()
		if code == "" {
			v.requestPasscodeLocked(true)
			code = v.takePasscode()
		}
		if code == "" {
			return fmt.Errorf("%w: no passcode supplied", common.ErrVaultUnavailable)
		}
		v.salt = common.GenerateRandByteArray(16)
		v.key = cryptox.DeriveKey([]byte(code), v.salt)
		v.keyID = uuid.NewString()
		return nil
	default:
		return fmt.Errorf("%w: type %q has no key material", common.ErrVaultUnavailable, v.cfg.Type)
	}
}

// persistLocked seals the value map to disk via write-temp-then-rename so a
// crash mid-write leaves the previous envelope intact. Caller holds v.mu.
func (v *FileVault) persistLocked() error {
	if v.cfg.Type == TypeInMemory {
		return nil
	}
	if err := v.ensureKeyLocked(); err != nil {
		return err
	}

	plaintext, err := json.Marshal(v.values)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
	}
	ciphertext, nonce, err := cryptox.Encrypt(plaintext, v.key)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
	}

	env := envelope{
		Type:               v.cfg.Type,
		DeviceSecurityType: v.cfg.DeviceSecurityType,
		KeyID:              v.keyID,
		Salt:               v.salt,
		Nonce:              nonce,
		Data:               ciphertext,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
	}

	tmp := v.dataPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
	}
	if err := os.Rename(tmp, v.dataPath()); err != nil {
		return fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
	}
	return nil
}

func (v *FileVault) readEnvelope() (*envelope, error) {
	data, err := os.ReadFile(v.dataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: corrupt envelope: %v", common.ErrVaultUnavailable, err)
	}
	return &env, nil
}

func (v *FileVault) readKeyFile() (*keyFile, error) {
	data, err := os.ReadFile(v.keyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrVaultUnavailable, err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("%w: bad key file: %v", common.ErrVaultUnavailable, err)
	}
	if len(kf.Key) != cryptox.KeySize {
		return nil, fmt.Errorf("%w: bad key file", common.ErrVaultUnavailable)
	}
	return &kf, nil
}
