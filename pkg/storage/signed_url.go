package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed and forged download tokens.
	ErrInvalidToken = errors.New("invalid download token")
	// ErrExpiredToken is returned for a well-formed token past its expiry.
	ErrExpiredToken = errors.New("download token expired")
)

// DownloadClaims is what a download token vouches for.
type DownloadClaims struct {
	ID        string
	Path      string
	ExpiresAt time.Time
}

// SignedURLSigner issues HMAC-SHA256 download tokens of the form
// base64(id "\n" unix-expiry "\n" path) "." base64(mac).
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner returns a signer whose tokens live for ttl (30m when unset).
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock swaps the time source; used by tests.
func (s *SignedURLSigner) WithClock(now func() time.Time) *SignedURLSigner {
	if now != nil {
		s.now = now
	}
	return s
}

// Sign issues a token for the stored file at relPath.
func (s *SignedURLSigner) Sign(id, relPath string) (string, time.Time, error) {
	switch {
	case len(s.secret) == 0:
		return "", time.Time{}, errors.New("signing secret missing")
	case id == "" || relPath == "":
		return "", time.Time{}, errors.New("download id and path required")
	case strings.Contains(id, "\n") || strings.Contains(relPath, "\n"):
		return "", time.Time{}, errors.New("download id and path must be single-line")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	payload := strings.Join([]string{id, strconv.FormatInt(expiresAt.Unix(), 10), relPath}, "\n")
	return encode([]byte(payload)) + "." + encode(s.mac(payload)), expiresAt, nil
}

// Verify checks the signature and expiry of token.
func (s *SignedURLSigner) Verify(token string) (DownloadClaims, error) {
	claims, err := s.decode(token)
	if err != nil {
		return DownloadClaims{}, err
	}
	if s.now().After(claims.ExpiresAt) {
		return claims, ErrExpiredToken
	}
	return claims, nil
}

func (s *SignedURLSigner) decode(token string) (DownloadClaims, error) {
	body, sig, ok := strings.Cut(token, ".")
	if !ok {
		return DownloadClaims{}, ErrInvalidToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return DownloadClaims{}, ErrInvalidToken
	}
	mac, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(mac, s.mac(string(payload))) {
		return DownloadClaims{}, ErrInvalidToken
	}
	parts := strings.SplitN(string(payload), "\n", 3)
	if len(parts) != 3 {
		return DownloadClaims{}, ErrInvalidToken
	}
	expUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return DownloadClaims{}, fmt.Errorf("%w: expiry", ErrInvalidToken)
	}
	return DownloadClaims{ID: parts[0], Path: parts[2], ExpiresAt: time.Unix(expUnix, 0)}, nil
}

func (s *SignedURLSigner) mac(payload string) []byte {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(payload))
	return h.Sum(nil)
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
