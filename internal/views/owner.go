package views

import (
	"context"

	"rateview/internal/client"
	"rateview/internal/models"
	"rateview/internal/session"

	"github.com/rs/zerolog"
)

// OwnerView shows the per-store rating report for a store owner. The
// dashboard endpoint takes no filters, so the controller runs with empty
// criteria and is only ever refreshed; it still benefits from the stale
// response guard.
type OwnerView struct {
	List *ListController[models.OwnerDashboardEntry]

	logger zerolog.Logger
}

func NewOwnerView(api *client.Client, sessions *session.Store, logger zerolog.Logger) *OwnerView {
	v := &OwnerView{logger: logger}
	v.List = NewListController(func(ctx context.Context, _ models.ListQuery) ([]models.OwnerDashboardEntry, error) {
		return api.OwnerDashboard(ctx, sessions.Token())
	}, logger)
	return v
}

func (v *OwnerView) Enter(ctx context.Context) error {
	return v.List.Refresh(ctx)
}

func (v *OwnerView) Entries() []models.OwnerDashboardEntry {
	return v.List.Items()
}
