package views

import (
	"rateview/internal/models"
	"rateview/internal/session"

	"github.com/rs/zerolog"
)

// Screen is a pre-auth screen: the login/signup toggle.
type Screen string

const (
	ScreenLogin  Screen = "login"
	ScreenSignup Screen = "signup"
)

// View identifies the active top-level view.
type View string

const (
	// ViewAuth is the pre-auth state; which screen shows is the router's
	// toggle, not a separate view.
	ViewAuth   View = "auth"
	ViewAdmin  View = "admin"
	ViewStores View = "stores"
	ViewOwner  View = "owner"
)

// Router selects the active top-level view from session state. Pre-auth it
// owns the login/signup toggle; the moment a session exists the toggle is
// unreachable and the view is a pure function of the user's role. The
// router does no authorization of its own, it trusts the role the backend
// embedded in the session.
type Router struct {
	sessions *session.Store
	logger   zerolog.Logger
	preAuth  Screen
}

func NewRouter(sessions *session.Store, logger zerolog.Logger) *Router {
	return &Router{sessions: sessions, logger: logger, preAuth: ScreenLogin}
}

// ActiveView maps the current session to a view.
func (r *Router) ActiveView() View {
	s := r.sessions.Current()
	if !s.Present() {
		return ViewAuth
	}
	switch s.User.Role {
	case models.RoleAdmin:
		return ViewAdmin
	case models.RoleOwner:
		return ViewOwner
	default:
		return ViewStores
	}
}

// PreAuthScreen returns the active pre-auth screen. Meaningless once a
// session is present.
func (r *Router) PreAuthScreen() Screen {
	return r.preAuth
}

func (r *Router) ShowSignup() {
	r.preAuth = ScreenSignup
}

func (r *Router) ShowLogin() {
	r.preAuth = ScreenLogin
}

// Logout tears the session down and resets the pre-auth toggle to login,
// the only transition back out of Home.
func (r *Router) Logout() error {
	r.preAuth = ScreenLogin
	if err := r.sessions.Logout(); err != nil {
		return err
	}
	r.logger.Info().Msg("Logged out")
	return nil
}
