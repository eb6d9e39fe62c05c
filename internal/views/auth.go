package views

import (
	"context"
	"errors"

	"rateview/internal/client"
	"rateview/internal/models"
	"rateview/internal/session"

	"github.com/rs/zerolog"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// AuthFlows runs the credentialed request cycles. On success Login and
// Signup feed the session store; on failure the session is left untouched
// and the returned error normalizes to a display message via
// apierr.DisplayMessage. Flows are re-entrant: nothing blocks a second
// submission while the first is in flight.
type AuthFlows struct {
	api      *client.Client
	sessions *session.Store
	logger   zerolog.Logger
}

func NewAuthFlows(api *client.Client, sessions *session.Store, logger zerolog.Logger) *AuthFlows {
	return &AuthFlows{api: api, sessions: sessions, logger: logger}
}

func (f *AuthFlows) Login(ctx context.Context, email, password string) error {
	resp, err := f.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		f.logger.Warn().Str("email", email).Err(err).Msg("Login failed")
		return err
	}
	return f.sessions.Login(resp.AccessToken, resp.User)
}

// Signup submits the registration and, like the backend contract promises,
// establishes a session straight from the signup response. Format
// constraints are not enforced here; see SignupAdvisories.
func (f *AuthFlows) Signup(ctx context.Context, req models.SignupRequest) error {
	resp, err := f.api.Signup(ctx, req)
	if err != nil {
		f.logger.Warn().Str("email", req.Email).Err(err).Msg("Signup failed")
		return err
	}
	return f.sessions.Login(resp.AccessToken, resp.User)
}

// SignupAdvisories returns the constraint messages the request would
// violate, for display next to the form. The backend stays authoritative;
// submission is never blocked on these.
func (f *AuthFlows) SignupAdvisories(req models.SignupRequest) []string {
	rules := models.CheckSignup(req)
	msgs := make([]string, 0, len(rules))
	for _, rule := range rules {
		msgs = append(msgs, rule.Message)
	}
	return msgs
}

// ChangePassword rotates the password of the logged-in user. The current
// token stays valid, so the session store is deliberately not touched.
func (f *AuthFlows) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	token := f.sessions.Token()
	if token == "" {
		return ErrNotAuthenticated
	}
	req := models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	if err := f.api.ChangePassword(ctx, token, req); err != nil {
		f.logger.Warn().Err(err).Msg("Password change failed")
		return err
	}
	f.logger.Info().Msg("Password changed")
	return nil
}
