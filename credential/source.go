package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Source produces a fresh token.
type Source interface {
	Token(ctx context.Context) (Token, error)
}

// FileSource reads a token that another process keeps current on disk, as
// workload identity setups do.
type FileSource struct {
	Path string
}

func (s FileSource) Token(ctx context.Context) (Token, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Token{}, fmt.Errorf("read token file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return Token{}, fmt.Errorf("token file %s is empty", s.Path)
	}
	return Token{Value: value, Expiry: expiryOf(value)}, nil
}

// SignedSource mints short-lived HS256 service tokens.
type SignedSource struct {
	Key      []byte
	Issuer   string
	Subject  string
	Audience string
	TTL      time.Duration

	now func() time.Time
}

func (s SignedSource) Token(ctx context.Context) (Token, error) {
	if len(s.Key) == 0 {
		return Token{}, errors.New("signing key is empty")
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	issued := now().UTC()
	expiry := issued.Add(s.TTL)

	claims := jwt.RegisteredClaims{
		Issuer:    s.Issuer,
		Subject:   s.Subject,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	if s.Audience != "" {
		claims.Audience = jwt.ClaimStrings{s.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Key)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, Expiry: expiry.Truncate(time.Second)}, nil
}

// expiryOf reads the exp claim without verifying the signature; the store
// verifies it. Opaque tokens yield a zero time.
func expiryOf(value string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(value, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
