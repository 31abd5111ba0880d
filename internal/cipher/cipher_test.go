package cipher

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Tests use a low iteration count; the cost parameter does not change the
// properties under test.
const testIterations = 1_000

// TestDeriveKeyDeterministic verifies that the same password and salt always
// produce the same key and that the salt separates identical passwords.
func TestDeriveKeyDeterministic(t *testing.T) {
	req := require.New(t)
	salt := []byte("0123456789abcdef")

	k1 := DeriveKey("hunter2", salt, testIterations)
	k2 := DeriveKey("hunter2", salt, testIterations)
	req.Equal(k1, k2)

	other := DeriveKey("hunter2", []byte("fedcba9876543210"), testIterations)
	req.NotEqual(k1, other)

	req.NotEqual(k1, DeriveKey("hunter3", salt, testIterations))
}

// TestDeriveKeyDefaultIterations checks that a zero cost falls back to the
// default instead of a single round.
func TestDeriveKeyDefaultIterations(t *testing.T) {
	salt := []byte("salt")
	require.Equal(t, DeriveKey("pw", salt, DefaultIterations), DeriveKey("pw", salt, 0))
	require.NotEqual(t, DeriveKey("pw", salt, 1), DeriveKey("pw", salt, 0))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	messages := [][]byte{
		[]byte("alice"),
		[]byte("çãõ ☕ unicode"),
		bytes.Repeat([]byte("x"), 4096),
	}
	for _, m := range messages {
		token, err := Encrypt(m, key)
		require.NoError(t, err)

		got, err := Decrypt(token, key, 0)
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
}

// TestDecryptEmptyIsNotFailure ensures a valid empty message is
// distinguishable from a failed decryption.
func TestDecryptEmptyIsNotFailure(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	token, err := Encrypt(nil, key)
	require.NoError(t, err)

	got, err := Decrypt(token, key, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestDecryptWrongKey(t *testing.T) {
	salt := []byte("0123456789abcdef")
	right := DeriveKey("correct horse", salt, testIterations)
	wrong := DeriveKey("battery staple", salt, testIterations)

	token, err := Encrypt([]byte("bob"), right)
	require.NoError(t, err)

	_, err = Decrypt(token, wrong, 0)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecryptTampered(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	token, err := Encrypt([]byte("carol"), key)
	require.NoError(t, err)

	raw, err := encoding.DecodeString(token)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	_, err = Decrypt(encoding.EncodeToString(raw), key, 0)
	require.ErrorIs(t, err, ErrInvalidToken)

	for _, bad := range []string{"", "not base64!!", encoding.EncodeToString([]byte{tokenVersion, 1, 2})} {
		_, err = Decrypt(bad, key, 0)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", bad)
	}
}

func TestDecryptTTL(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	now := time.Now()

	token, err := encryptAt([]byte("dave"), key, now.Add(-2*time.Minute))
	require.NoError(t, err)

	_, err = decryptAt(token, key, time.Minute, now)
	require.ErrorIs(t, err, ErrInvalidToken)

	got, err := decryptAt(token, key, 5*time.Minute, now)
	require.NoError(t, err)
	require.Equal(t, []byte("dave"), got)

	future, err := encryptAt([]byte("dave"), key, now.Add(10*time.Minute))
	require.NoError(t, err)
	_, err = decryptAt(future, key, 0, now)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestKeyEncodeDecode(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	decoded, err := DecodeKey(key.Encode())
	require.NoError(t, err)
	require.Equal(t, key, decoded)

	_, err = DecodeKey("c2hvcnQ=")
	require.Error(t, err)
}

func TestNewSalt(t *testing.T) {
	salt, err := NewSalt(0)
	require.NoError(t, err)
	require.Len(t, salt, DefaultSaltSize)

	other, err := NewSalt(32)
	require.NoError(t, err)
	require.Len(t, other, 32)
}
