package views

import (
	"context"

	"rateview/internal/apierr"
	"rateview/internal/client"
	"rateview/internal/models"
	"rateview/internal/session"

	"github.com/rs/zerolog"
)

// AdminView is the administrative overview: a stats snapshot plus the two
// filterable tables.
type AdminView struct {
	Users  *ListController[models.UserProfile]
	Stores *ListController[models.AdminStoreRecord]

	api      *client.Client
	sessions *session.Store
	logger   zerolog.Logger

	stats    models.AdminStats
	statsErr string
}

func NewAdminView(api *client.Client, sessions *session.Store, logger zerolog.Logger) *AdminView {
	v := &AdminView{api: api, sessions: sessions, logger: logger}
	v.Users = NewListController(func(ctx context.Context, q models.ListQuery) ([]models.UserProfile, error) {
		return api.AdminUsers(ctx, sessions.Token(), q)
	}, logger)
	v.Stores = NewListController(func(ctx context.Context, q models.ListQuery) ([]models.AdminStoreRecord, error) {
		return api.AdminStores(ctx, sessions.Token(), q)
	}, logger)
	return v
}

// Enter loads the view: the stats snapshot is fetched once here and then
// kept as-is for the rest of the admin session, while both tables get their
// initial unfiltered load.
func (v *AdminView) Enter(ctx context.Context) error {
	stats, err := v.api.AdminStats(ctx, v.sessions.Token())
	if err != nil {
		v.statsErr = apierr.DisplayMessage(err)
		v.logger.Warn().Err(err).Msg("Admin stats fetch failed")
	} else {
		v.stats = stats
		v.statsErr = ""
	}

	if uerr := v.Users.Refresh(ctx); uerr != nil && err == nil {
		err = uerr
	}
	if serr := v.Stores.Refresh(ctx); serr != nil && err == nil {
		err = serr
	}
	return err
}

// Stats returns the snapshot taken on the last Enter.
func (v *AdminView) Stats() models.AdminStats {
	return v.stats
}

func (v *AdminView) StatsError() string {
	return v.statsErr
}
