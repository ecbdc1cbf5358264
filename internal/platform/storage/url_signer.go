// Package storage issues and checks signed download URLs for stored files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const downloadAudience = "file-download"

// URLSigner signs download links with an HS256 token that names the file key.
type URLSigner struct {
	baseURL string
	secret  []byte
	now     func() time.Time
}

// NewURLSigner creates a URLSigner rooted at baseURL.
func NewURLSigner(baseURL, secret string) *URLSigner {
	return &URLSigner{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		now:     time.Now,
	}
}

// SignDownloadURL returns a link to fileKey valid for ttl.
func (s *URLSigner) SignDownloadURL(_ context.Context, fileKey string, ttl time.Duration) (string, time.Time, error) {
	if fileKey == "" {
		return "", time.Time{}, errors.New("file key is required")
	}
	issuedAt := s.now()
	expiresAt := issuedAt.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   fileKey,
		Audience:  jwt.ClaimStrings{downloadAudience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign download token: %w", err)
	}
	link := fmt.Sprintf("%s/%s?token=%s", s.baseURL, url.PathEscape(fileKey), url.QueryEscape(signed))
	return link, expiresAt, nil
}

// VerifyDownloadToken checks a token taken from a signed link and returns the file key it grants.
func (s *URLSigner) VerifyDownloadToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithAudience(downloadAudience), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("invalid download token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("invalid download token claims")
	}
	return claims.Subject, nil
}
