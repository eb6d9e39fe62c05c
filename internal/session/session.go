// Package session owns the current auth token and user profile and keeps
// them durable across process restarts.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"rateview/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Fixed storage keys: token as plain text, profile as JSON.
const (
	tokenFile = "auth_token"
	userFile  = "auth_user.json"
)

// Store holds the session and mirrors every change to disk immediately, so
// a restart between a login and the next interaction never loses state.
type Store struct {
	dir     string
	logger  zerolog.Logger
	current models.Session
}

// NewStore restores any previously persisted session from dir. A missing or
// half-written state (token without profile, or the reverse) is treated as
// logged out.
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	s := &Store{dir: dir, logger: logger}
	s.restore()
	return s, nil
}

// Login sets token and user together and persists both before returning.
func (s *Store) Login(token string, user models.UserProfile) error {
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), data, 0o600); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	s.current = models.Session{Token: token, User: &user}
	s.logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("Session established")
	return nil
}

// Logout clears the in-memory session and deletes the persisted state.
func (s *Store) Logout() error {
	s.current = models.Session{}
	var errs []error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("clear session state: %w", errors.Join(errs...))
	}
	s.logger.Info().Msg("Session cleared")
	return nil
}

// Current returns the session value. An absent session has an empty token
// and nil user.
func (s *Store) Current() models.Session {
	return s.current
}

func (s *Store) Token() string {
	return s.current.Token
}

func (s *Store) restore() {
	tokenBytes, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return
	}
	userBytes, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return
	}
	var user models.UserProfile
	if err := json.Unmarshal(userBytes, &user); err != nil {
		s.logger.Warn().Err(err).Msg("Persisted user profile unreadable, discarding session")
		return
	}
	token := string(tokenBytes)
	if tokenExpired(token) {
		s.logger.Info().Msg("Persisted token expired, discarding session")
		if err := s.Logout(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to clear expired session state")
		}
		return
	}
	s.current = models.Session{Token: token, User: &user}
	s.logger.Info().Str("email", user.Email).Msg("Session restored")
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature. Tokens that are not JWTs stay opaque and are kept; only a
// well-formed token that is already past its expiry gets discarded, since
// presenting it can only produce 401s.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
