package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCodecRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-signing-secret", time.Hour)
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	token, err := codec.IssueAt("2f9e6df0-9a14-4f06-b0f7-25b79a4b4d41", issuedAt)
	require.NoError(t, err)

	claims, err := codec.VerifyAt(token, issuedAt.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "2f9e6df0-9a14-4f06-b0f7-25b79a4b4d41", claims.Subject)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issuedAt.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestTokenCodecExpiry(t *testing.T) {
	codec := NewTokenCodec("test-signing-secret", time.Hour)
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	token, err := codec.IssueAt("user-1", issuedAt)
	require.NoError(t, err)

	// Valid just inside the window
	_, err = codec.VerifyAt(token, issuedAt.Add(time.Hour-time.Second))
	assert.NoError(t, err)

	// Invalid once the window has passed
	_, err = codec.VerifyAt(token, issuedAt.Add(time.Hour+time.Second))
	assert.Error(t, err)

	// Invalid long after
	_, err = codec.VerifyAt(token, issuedAt.Add(48*time.Hour))
	assert.Error(t, err)
}

func TestTokenCodecRejectsTampering(t *testing.T) {
	codec := NewTokenCodec("test-signing-secret", time.Hour)
	now := time.Now()

	token, err := codec.IssueAt("user-1", now)
	require.NoError(t, err)

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenCodec("a-different-secret", time.Hour)
		_, err := other.VerifyAt(token, now)
		assert.Error(t, err)
	})

	t.Run("TamperedPayload", func(t *testing.T) {
		_, err := codec.VerifyAt(token[:len(token)-4]+"AAAA", now)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := codec.VerifyAt("not.a.token", now)
		assert.Error(t, err)

		_, err = codec.VerifyAt("", now)
		assert.Error(t, err)
	})
}
