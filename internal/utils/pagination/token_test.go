package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor(t *testing.T) {
	ts := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursor(ts, "log-42")
	assert.NotEmpty(t, token)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, ts.Equal(cursor.Timestamp))
	assert.Equal(t, "log-42", cursor.ID)
}

func TestEncodeCursorNormalizesZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 1, 1, 5, 30, 0, 0, ist)

	cursor, err := DecodeCursor(EncodeCursor(ts, "a"))
	require.NoError(t, err)
	assert.True(t, ts.Equal(cursor.Timestamp))
	assert.Equal(t, time.UTC, cursor.Timestamp.Location())
}

func TestDecodeCursorErrors(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	_, err = DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte("no-separator")))
	assert.ErrorContains(t, err, "split")

	_, err = DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte("yesterday|id")))
	assert.ErrorContains(t, err, "timestamp parse")

	_, err = DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte("2024-01-01T00:00:00Z|")))
	assert.Error(t, err)
}

func TestCursorBefore(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Cursor{Timestamp: ts, ID: "m"}

	assert.True(t, c.Before(ts.Add(-time.Second), "z"))
	assert.True(t, c.Before(ts, "a"))
	assert.False(t, c.Before(ts, "m"))
	assert.False(t, c.Before(ts, "z"))
	assert.False(t, c.Before(ts.Add(time.Second), "a"))
}
