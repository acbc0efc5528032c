package access

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	itemCookiePrefix     = "mindful_media_unlock_"
	playlistCookiePrefix = "mindful_media_playlist_unlock_"
)

// ErrWrongPassword is returned when an unlock attempt fails
var ErrWrongPassword = errors.New("access: wrong password")

// ErrNotProtected is returned when unlocking a target that has no password
var ErrNotProtected = errors.New("access: target is not password protected")

// Signer derives unlock cookie names and values
type Signer struct {
	salt string
}

// NewSigner creates a signer with the configured salt
func NewSigner(salt string) *Signer {
	return &Signer{salt: salt}
}

// CookieName returns the unlock cookie name for target
func (s *Signer) CookieName(target Target) string {
	if target.Kind == KindTerm {
		return fmt.Sprintf("%s%d", playlistCookiePrefix, target.ID)
	}
	return fmt.Sprintf("%s%d", itemCookiePrefix, target.ID)
}

// Value returns the cookie value proving target was unlocked:
// hex(sha256(id + salt))
func (s *Signer) Value(target Target) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d%s", target.ID, s.salt)))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether value is the unlock proof for target
func (s *Signer) Verify(target Target, value string) bool {
	return subtle.ConstantTimeCompare([]byte(value), []byte(s.Value(target))) == 1
}

// Unlocker turns a correct password into an unlock cookie
type Unlocker struct {
	signer *Signer
	ttl    time.Duration
	secure bool
}

// NewUnlocker creates an unlocker using cfg's cookie settings
func NewUnlocker(signer *Signer, cfg config.AccessConfig) *Unlocker {
	ttl := cfg.UnlockCookieTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Unlocker{signer: signer, ttl: ttl, secure: cfg.CookieSecure}
}

// Unlock checks password against target's hash and returns the cookie to set
func (u *Unlocker) Unlock(target Target, password string) (*http.Cookie, error) {
	if !target.PasswordProtected() {
		return nil, ErrNotProtected
	}
	if err := bcrypt.CompareHashAndPassword([]byte(target.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	return &http.Cookie{
		Name:     u.signer.CookieName(target),
		Value:    u.signer.Value(target),
		Path:     "/",
		MaxAge:   int(u.ttl.Seconds()),
		HttpOnly: true,
		Secure:   u.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// HashPassword returns the bcrypt hash stored on protected targets
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
