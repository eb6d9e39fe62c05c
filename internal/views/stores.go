package views

import (
	"context"
	"fmt"

	"rateview/internal/apierr"
	"rateview/internal/client"
	"rateview/internal/models"
	"rateview/internal/session"

	"github.com/rs/zerolog"
)

// StoreListView is the browsable, ratable store list for regular users.
type StoreListView struct {
	List *ListController[models.StoreRecord]

	api      *client.Client
	sessions *session.Store
	logger   zerolog.Logger

	ratingErr string
}

func NewStoreListView(api *client.Client, sessions *session.Store, logger zerolog.Logger) *StoreListView {
	v := &StoreListView{api: api, sessions: sessions, logger: logger}
	v.List = NewListController(func(ctx context.Context, q models.ListQuery) ([]models.StoreRecord, error) {
		return api.Stores(ctx, sessions.Token(), q)
	}, logger)
	return v
}

func (v *StoreListView) Enter(ctx context.Context) error {
	return v.List.Refresh(ctx)
}

// Rate submits a score for a store. On success the local record is not
// patched; the whole list is refetched so averages and my_rating come from
// the backend. A failed submission leaves the list alone and is surfaced
// through RatingError.
func (v *StoreListView) Rate(ctx context.Context, storeID, score int) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("score %d out of range 1..5", score)
	}
	if err := v.api.SubmitRating(ctx, v.sessions.Token(), storeID, score); err != nil {
		v.ratingErr = apierr.DisplayMessage(err)
		v.logger.Warn().Int("store_id", storeID).Err(err).Msg("Rating submission failed")
		return err
	}
	v.ratingErr = ""
	v.logger.Info().Int("store_id", storeID).Int("score", score).Msg("Rating submitted")
	return v.List.Refresh(ctx)
}

// RatingError is the display message of the last failed rating submission,
// empty after a successful one.
func (v *StoreListView) RatingError() string {
	return v.ratingErr
}
