// Package cryptox implements the symmetric encryption codec for vault
// content: a password-based key derivation step and AES-256-GCM, with all
// binary material carried as standard base64 so it can live in text columns.
//
// No key is ever persisted. Every encryption call draws a fresh salt and
// nonce; decryption re-derives the key from the salt recorded alongside the
// ciphertext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultsync/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize       = 32
	saltSize      = 16
	nonceSize     = 12
	kdfIterations = 150_000
)

var (
	// ErrEncryptionFailed wraps failures during key derivation or sealing.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed wraps failures during opening, including GCM
	// authentication-tag mismatch and malformed base64 input. Callers catch
	// it to render a placeholder instead of corrupting the merged
	// collection.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Record is the transportable form of one encrypted value. All three fields
// are standard base64 and are mandatory together: a record with any field
// missing is a legacy/unencrypted row, not an encrypted empty string.
type Record struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	Salt       string `json:"salt"`
}

// Empty reports whether the record carries no ciphertext at all. Note that
// an encrypted empty string is NOT empty: it still has ciphertext (the GCM
// tag), an IV and a salt.
func (r Record) Empty() bool {
	return r.Ciphertext == "" && r.IV == "" && r.Salt == ""
}

// DeriveKey stretches a passphrase into a 256-bit AES key using
// PBKDF2-SHA256 with 150k iterations. Deterministic for a given
// (passphrase, salt) pair.
func DeriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, kdfIterations, keySize, sha256.New)
}

// Encrypt seals plaintext under a key derived from passphrase. A fresh
// 16-byte salt and 12-byte nonce are generated per call and never reused
// across records. The empty string encrypts to a valid non-empty record.
func Encrypt(plaintext, passphrase string) (Record, error) {
	salt, err := common.RandBytes(saltSize)
	if err != nil {
		return Record{}, fmt.Errorf("%w: generating salt: %s", ErrEncryptionFailed, err)
	}
	nonce, err := common.RandBytes(nonceSize)
	if err != nil {
		return Record{}, fmt.Errorf("%w: generating nonce: %s", ErrEncryptionFailed, err)
	}

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s", ErrEncryptionFailed, err)
	}

	ciphertext := aead.Seal(nil, nonce, []byte(plaintext), nil)

	enc := base64.StdEncoding
	return Record{
		Ciphertext: enc.EncodeToString(ciphertext),
		IV:         enc.EncodeToString(nonce),
		Salt:       enc.EncodeToString(salt),
	}, nil
}

// Decrypt re-derives the key from the record's salt and opens the
// ciphertext. Any failure, including an authentication-tag mismatch under
// the wrong passphrase, is reported as ErrDecryptionFailed.
func Decrypt(r Record, passphrase string) (string, error) {
	enc := base64.StdEncoding

	ciphertext, err := enc.DecodeString(r.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: decoding ciphertext: %s", ErrDecryptionFailed, err)
	}
	nonce, err := enc.DecodeString(r.IV)
	if err != nil {
		return "", fmt.Errorf("%w: decoding iv: %s", ErrDecryptionFailed, err)
	}
	salt, err := enc.DecodeString(r.Salt)
	if err != nil {
		return "", fmt.Errorf("%w: decoding salt: %s", ErrDecryptionFailed, err)
	}
	if len(nonce) != nonceSize {
		return "", fmt.Errorf("%w: bad nonce length %d", ErrDecryptionFailed, len(nonce))
	}

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryptionFailed, err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

func newAEAD(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := DeriveKey(passphrase, salt)
	defer common.WipeBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
