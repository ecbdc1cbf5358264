package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor marks the last row of a page in a (timestamp DESC, id DESC) ordering.
type Cursor struct {
	Timestamp time.Time
	ID        string
}

// EncodeCursor creates an opaque base64 token from a timestamp and a row ID.
func EncodeCursor(ts time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", ts.UTC().Format(timeFormat), id)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}
	ts, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (timestamp parse): %w", err)
	}
	return Cursor{Timestamp: ts, ID: parts[1]}, nil
}

// Before reports whether a row sorts after the cursor in a newest-first listing.
func (c Cursor) Before(ts time.Time, id string) bool {
	if ts.Equal(c.Timestamp) {
		return id < c.ID
	}
	return ts.Before(c.Timestamp)
}
