package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrLinkInvalid reports a malformed or tampered token.
	ErrLinkInvalid = errors.New("storage: invalid download link")
	// ErrLinkExpired reports a well-formed token past its expiry.
	ErrLinkExpired = errors.New("storage: download link expired")
)

// LinkSigner issues expiring HMAC tokens that name a stored file.
// Token layout: base64url(name) "." unix-expiry "." hex(hmac).
type LinkSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewLinkSigner constructs a signer. A non-positive ttl means one hour.
func NewLinkSigner(secret string, ttl time.Duration) *LinkSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LinkSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token for name and its expiry.
func (s *LinkSigner) Sign(name string) (string, time.Time, error) {
	if name == "" {
		return "", time.Time{}, fmt.Errorf("file name required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).UTC().Truncate(time.Second)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(name))
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	return encoded + "." + exp + "." + s.mac(encoded, exp), expiresAt, nil
}

// Verify checks the signature and expiry and returns the file name.
func (s *LinkSigner) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrLinkInvalid
	}
	if !hmac.Equal([]byte(parts[2]), []byte(s.mac(parts[0], parts[1]))) {
		return "", ErrLinkInvalid
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrLinkInvalid
	}
	name, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil || len(name) == 0 {
		return "", ErrLinkInvalid
	}
	if s.now().After(time.Unix(exp, 0)) {
		return "", ErrLinkExpired
	}
	return string(name), nil
}

func (s *LinkSigner) mac(encodedName, exp string) string {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(encodedName + "|" + exp))
	return hex.EncodeToString(h.Sum(nil))
}
