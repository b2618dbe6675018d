// Package cryptox protects the translation API key at rest.
//
// A secret is sealed with AES-256-GCM under a key derived from the user's
// passphrase with PBKDF2-HMAC-SHA256. The stored form is
//
//	base64( salt[16] ‖ nonce[12] ‖ ciphertext+tag )
//
// so a blob carries everything needed to open it except the passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"

	"github.com/techurbanist/duread/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16
	NonceSize  = 12
	KeySize    = 32
	Iterations = 100_000
)

// randBytes is a test seam for the salt and nonce source.
var randBytes = common.GenerateRandByteArray

// DeriveKey stretches passphrase into a 256-bit AES key.
func DeriveKey(passphrase, salt []byte) []byte {
	return pbkdf2.Key(passphrase, salt, Iterations, KeySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, NonceSize)
}

// EncryptSecret seals plaintext under passphrase with a fresh salt and nonce,
// so two calls with identical inputs yield different blobs.
func EncryptSecret(plaintext string, passphrase []byte) (string, error) {
	salt := randBytes(SaltSize)
	nonce := randBytes(NonceSize)

	key := DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, SaltSize+NonceSize+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptSecret opens a blob produced by EncryptSecret. Malformed input and a
// wrong passphrase are indistinguishable: both return common.ErrInvalidPassphrase.
func DecryptSecret(blob string, passphrase []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil || len(raw) < SaltSize+NonceSize {
		return "", common.ErrInvalidPassphrase
	}

	salt := raw[:SaltSize]
	nonce := raw[SaltSize : SaltSize+NonceSize]
	sealed := raw[SaltSize+NonceSize:]

	key := DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", common.ErrInvalidPassphrase
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", common.ErrInvalidPassphrase
	}
	return string(plaintext), nil
}
