// Package sharelink seals and opens the shareable-link parameter: a company
// name plus an expiry timestamp, encrypted with a server-side secret and
// encoded for use as a URL query value.
//
// The token is an access convenience, not access control: anyone holding a
// valid link sees the filtered view until it expires. The secret never
// leaves the server; clients hand the opaque token back to the API.
package sharelink

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
)

// ParamName is the query parameter carrying the sealed token.
const ParamName = "empresa"

// ErrExpired marks a link whose expiry timestamp has passed.
var ErrExpired = errors.New("share link expired")

// payload is the sealed content. Exp is Unix milliseconds.
type payload struct {
	Company string `json:"company"`
	Exp     int64  `json:"exp"`
}

func cipherFor(secret string) (cipher.AEAD, error) {
	key := sha256.Sum256([]byte(secret))
	return chacha20poly1305.New(key[:])
}

// Seal produces a URL-safe token granting the company view until exp.
func Seal(secret, company string, exp time.Time) (string, error) {
	if company == "" {
		return "", errors.New("company cannot be empty")
	}

	aead, err := cipherFor(secret)
	if err != nil {
		return "", fmt.Errorf("failed to build cipher: %w", err)
	}

	plain, err := json.Marshal(payload{Company: company, Exp: exp.UnixMilli()})
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decodes and decrypts a token, returning the company it grants.
// Garbage input, a wrong secret, a malformed payload or a past expiry all
// return an error; callers treat any error as "no filter applied".
func Open(secret, token string, now time.Time) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("malformed token: %w", err)
	}

	aead, err := cipherFor(secret)
	if err != nil {
		return "", fmt.Errorf("failed to build cipher: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.New("malformed token: too short")
	}

	plain, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}

	var p payload
	if err := json.Unmarshal(plain, &p); err != nil {
		return "", fmt.Errorf("malformed payload: %w", err)
	}
	if p.Exp != 0 && p.Exp < now.UnixMilli() {
		return "", ErrExpired
	}
	return p.Company, nil
}
