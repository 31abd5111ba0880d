// Package cipher derives keys from passwords and seals short tokens (such as
// usernames) with an authenticated symmetric cipher.
//
// Tokens are self-contained: they carry a version byte, the creation time and
// the nonce next to the ciphertext, so a holder of the key can both decrypt
// them and detect tampering or expiry. This is a shared-secret scheme used to
// prove knowledge of a room password during the handshake; it is not an
// end-to-end encryption layer.
package cipher

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the length in bytes of every derived or generated key.
	KeySize = chacha20poly1305.KeySize

	// DefaultIterations is the PBKDF2 cost used when callers pass zero.
	DefaultIterations = 200_000

	// DefaultSaltSize is the salt length used by NewSalt when callers pass zero.
	DefaultSaltSize = 16

	tokenVersion  byte = 0x80
	headerSize         = 1 + 8
	maxClockSkew       = 60 * time.Second
	minTokenBytes      = headerSize + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead
)

// ErrInvalidToken is returned by Decrypt when a token was not produced by
// Encrypt with the same key, was corrupted, or falls outside the accepted
// time window.
var ErrInvalidToken = errors.New("cipher: invalid token")

var encoding = base64.URLEncoding

// Key is a symmetric key usable with Encrypt and Decrypt.
type Key [KeySize]byte

// Encode returns the url-safe base64 text form of the key.
func (k Key) Encode() string {
	return encoding.EncodeToString(k[:])
}

// DecodeKey parses the text form produced by Key.Encode.
func DecodeKey(s string) (Key, error) {
	var k Key
	b, err := encoding.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("decode key: %w", err)
	}
	if len(b) != KeySize {
		return k, fmt.Errorf("decode key: want %d bytes, got %d", KeySize, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// GenerateKey returns a random key.
func GenerateKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		return k, fmt.Errorf("generate key: %w", err)
	}
	return k, nil
}

// NewSalt returns n random bytes, or DefaultSaltSize bytes when n <= 0.
func NewSalt(n int) ([]byte, error) {
	if n <= 0 {
		n = DefaultSaltSize
	}
	salt := make([]byte, n)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches password with PBKDF2-HMAC-SHA256. The same password and
// salt always yield the same key.
func DeriveKey(password string, salt []byte, iterations int) Key {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	var k Key
	copy(k[:], pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New))
	return k
}

// Encrypt seals plaintext under key and returns a url-safe base64 token.
func Encrypt(plaintext []byte, key Key) (string, error) {
	return encryptAt(plaintext, key, time.Now())
}

func encryptAt(plaintext []byte, key Key, now time.Time) (string, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	buf := make([]byte, headerSize+aead.NonceSize(), headerSize+aead.NonceSize()+len(plaintext)+aead.Overhead())
	buf[0] = tokenVersion
	binary.BigEndian.PutUint64(buf[1:headerSize], uint64(now.Unix()))
	nonce := buf[headerSize:]
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	sealed := aead.Seal(buf, nonce, plaintext, buf[:headerSize])
	return encoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt. A ttl greater than zero rejects
// tokens older than ttl. Any failure is reported as ErrInvalidToken; a valid
// token carrying an empty message yields an empty, non-nil slice.
func Decrypt(token string, key Key, ttl time.Duration) ([]byte, error) {
	return decryptAt(token, key, ttl, time.Now())
}

func decryptAt(token string, key Key, ttl time.Duration, now time.Time) ([]byte, error) {
	raw, err := encoding.DecodeString(token)
	if err != nil || len(raw) < minTokenBytes || raw[0] != tokenVersion {
		return nil, ErrInvalidToken
	}

	issued := time.Unix(int64(binary.BigEndian.Uint64(raw[1:headerSize])), 0)
	if issued.Sub(now) > maxClockSkew {
		return nil, ErrInvalidToken
	}
	if ttl > 0 && now.Sub(issued) > ttl {
		return nil, ErrInvalidToken
	}

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, ErrInvalidToken
	}
	nonce := raw[headerSize : headerSize+aead.NonceSize()]
	plaintext, err := aead.Open(make([]byte, 0, len(raw)), nonce, raw[headerSize+aead.NonceSize():], raw[:headerSize])
	if err != nil {
		return nil, ErrInvalidToken
	}
	return plaintext, nil
}
