package views

import (
	"testing"

	"rateview/internal/models"
	"rateview/internal/session"

	"github.com/rs/zerolog"
)

func newTestSessions(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.NewStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestActiveViewPerRole(t *testing.T) {
	tests := []struct {
		role models.Role
		want View
	}{
		{models.RoleAdmin, ViewAdmin},
		{models.RoleUser, ViewStores},
		{models.RoleOwner, ViewOwner},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			sessions := newTestSessions(t)
			router := NewRouter(sessions, zerolog.Nop())

			if got := router.ActiveView(); got != ViewAuth {
				t.Fatalf("pre-auth ActiveView = %v", got)
			}

			err := sessions.Login("tok", models.UserProfile{
				ID: 1, Name: "Some Sufficiently Long Name", Email: "a@b.c", Role: tc.role,
			})
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if got := router.ActiveView(); got != tc.want {
				t.Errorf("ActiveView = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPreAuthToggle(t *testing.T) {
	sessions := newTestSessions(t)
	router := NewRouter(sessions, zerolog.Nop())

	if router.PreAuthScreen() != ScreenLogin {
		t.Errorf("initial screen = %v", router.PreAuthScreen())
	}
	router.ShowSignup()
	if router.PreAuthScreen() != ScreenSignup {
		t.Errorf("screen after ShowSignup = %v", router.PreAuthScreen())
	}
	router.ShowLogin()
	if router.PreAuthScreen() != ScreenLogin {
		t.Errorf("screen after ShowLogin = %v", router.PreAuthScreen())
	}
}

func TestToggleUnreachableOnceAuthenticated(t *testing.T) {
	sessions := newTestSessions(t)
	router := NewRouter(sessions, zerolog.Nop())
	router.ShowSignup()

	err := sessions.Login("tok", models.UserProfile{
		ID: 1, Name: "Some Sufficiently Long Name", Email: "a@b.c", Role: models.RoleUser,
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The session wins regardless of what the toggle last showed.
	if got := router.ActiveView(); got != ViewStores {
		t.Errorf("ActiveView = %v, pre-auth state leaked through", got)
	}
}

func TestLogoutResetsToLoginScreen(t *testing.T) {
	sessions := newTestSessions(t)
	router := NewRouter(sessions, zerolog.Nop())
	router.ShowSignup()

	err := sessions.Login("tok", models.UserProfile{
		ID: 1, Name: "Some Sufficiently Long Name", Email: "a@b.c", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := router.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if got := router.ActiveView(); got != ViewAuth {
		t.Errorf("ActiveView after logout = %v", got)
	}
	if got := router.PreAuthScreen(); got != ScreenLogin {
		t.Errorf("screen after logout = %v, want login", got)
	}
}
