package storage

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// sealedPrefix marks a value written by a Sealer. Values without it are
// plaintext, as the browser version of the app stored them.
const sealedPrefix = "sealed:v1:"

// ErrUnseal is returned when a sealed value cannot be opened with the configured secret.
var ErrUnseal = errors.New("storage: cannot open sealed value")

// Sealer encrypts small secrets such as the access token before they are
// written to the local database.
type Sealer struct {
	key [32]byte
}

// NewSealer derives the encryption key from secret. It returns nil for an
// empty secret, meaning values are kept in plaintext.
func NewSealer(secret string) *Sealer {
	if secret == "" {
		return nil
	}
	s := &Sealer{}
	copy(s.key[:], argon2.IDKey([]byte(secret), []byte("go-shop/"+TokenKey), 1, 64*1024, 4, 32))
	return s
}

// Seal encrypts plain. An empty value stays empty.
func (s *Sealer) Seal(plain string) (string, error) {
	if s == nil || plain == "" {
		return plain, nil
	}
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(box), nil
}

// Open reverses Seal. Plaintext values are returned unchanged.
func (s *Sealer) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	if s == nil {
		return "", ErrUnseal
	}
	box, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil || len(box) < 24 {
		return "", ErrUnseal
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plain, ok := secretbox.Open(nil, box[24:], &nonce, &s.key)
	if !ok {
		return "", ErrUnseal
	}
	return string(plain), nil
}
