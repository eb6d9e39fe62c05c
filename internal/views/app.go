// Package views holds the view-synchronization core: session-driven role
// routing, the auth flows, and the query-driven list controllers behind the
// admin, store-browsing and owner views. It exposes state and callbacks; a
// rendering layer sits on top.
package views

import (
	"context"

	"rateview/internal/client"
	"rateview/internal/session"

	"github.com/rs/zerolog"
)

// App wires the whole client core for one user. The session store is the
// single owner of "am I logged in"; everything else takes it by reference.
type App struct {
	Router    *Router
	Auth      *AuthFlows
	Admin     *AdminView
	StoreList *StoreListView
	Owner     *OwnerView
}

func NewApp(api *client.Client, sessions *session.Store, logger zerolog.Logger) *App {
	return &App{
		Router:    NewRouter(sessions, logger),
		Auth:      NewAuthFlows(api, sessions, logger),
		Admin:     NewAdminView(api, sessions, logger),
		StoreList: NewStoreListView(api, sessions, logger),
		Owner:     NewOwnerView(api, sessions, logger),
	}
}

// EnterActiveView runs the initial load of whichever view the session's
// role selects. Pre-auth this is a no-op.
func (a *App) EnterActiveView(ctx context.Context) error {
	switch a.Router.ActiveView() {
	case ViewAdmin:
		return a.Admin.Enter(ctx)
	case ViewStores:
		return a.StoreList.Enter(ctx)
	case ViewOwner:
		return a.Owner.Enter(ctx)
	default:
		return nil
	}
}
