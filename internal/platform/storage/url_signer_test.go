package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSigner_RoundTrip(t *testing.T) {
	s := NewURLSigner("https://files.example.com/", "secret")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	link, expiresAt, err := s.SignDownloadURL(context.Background(), "reports/org1/r1.csv", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, now.Add(15*time.Minute), expiresAt)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "files.example.com", u.Host)

	key, err := s.VerifyDownloadToken(u.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, "reports/org1/r1.csv", key)
}

func TestURLSigner_Expired(t *testing.T) {
	s := NewURLSigner("https://files.example.com", "secret")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	link, _, err := s.SignDownloadURL(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	u, _ := url.Parse(link)

	now = now.Add(2 * time.Minute)
	_, err = s.VerifyDownloadToken(u.Query().Get("token"))
	assert.Error(t, err)
}

func TestURLSigner_WrongSecret(t *testing.T) {
	link, _, err := NewURLSigner("https://f", "a").SignDownloadURL(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	u, _ := url.Parse(link)

	_, err = NewURLSigner("https://f", "b").VerifyDownloadToken(u.Query().Get("token"))
	assert.Error(t, err)
}
