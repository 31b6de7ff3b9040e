// Package cryptox holds the symmetric crypto used to keep secrets at rest:
// argon2id key derivation, AES-GCM sealing and the per-device key file.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/studyplanner/internal/common"
	"github.com/dmitrijs2005/studyplanner/internal/filex"
	"golang.org/x/crypto/argon2"
)

// DeviceKeySize is the length of the random device key and of derived keys.
const DeviceKeySize = 32

var ErrInvalidDeviceKey = errors.New("invalid device key")

// DeriveKey stretches secret with argon2id into a 32-byte AES-256 key.
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, DeviceKeySize)
}

// Seal encrypts plaintext with AES-GCM under key. A fresh random nonce is
// generated on every call and returned next to the ciphertext.
func Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Open reverses Seal. It fails if the key, nonce or ciphertext do not match.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce size %d", len(nonce))
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// LoadOrCreateDeviceKey reads the device key from path. When the file does
// not exist a new random key is written there with 0600 permissions.
func LoadOrCreateDeviceKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != DeviceKeySize {
			return nil, fmt.Errorf("%w: %s has %d bytes", ErrInvalidDeviceKey, path, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read device key: %w", err)
	}

	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	key = common.GenerateRandByteArray(DeviceKeySize)
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("write device key: %w", err)
	}
	return key, nil
}
