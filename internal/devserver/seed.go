package devserver

import (
	"fmt"

	"rateview/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// SeedDemo loads one account per role plus a few rated stores, so a fresh
// dev backend is immediately usable. Every password is "Passw0rd!".
func SeedDemo(store Store, logger zerolog.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := []models.UserProfile{
		{Name: "System Administrator Account", Email: "admin@rateview.dev", Address: "1 Admin Plaza", Role: models.RoleAdmin},
		{Name: "Jordan Everyday Shopper Account", Email: "user@rateview.dev", Address: "2 Market Street", Role: models.RoleUser},
		{Name: "Casey Storefront Owner Account", Email: "owner@rateview.dev", Address: "3 Commerce Avenue", Role: models.RoleOwner},
	}
	created := make([]models.UserProfile, 0, len(users))
	for _, u := range users {
		saved, err := store.CreateUser(u, string(hash))
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		created = append(created, saved)
	}
	ownerID := created[2].ID

	stores := []models.AdminStoreRecord{
		{Name: "Corner Coffee Roasters", Email: "hello@cornercoffee.dev", Address: "12 Bean Lane"},
		{Name: "Harbor Hardware Supply", Email: "desk@harborhw.dev", Address: "48 Dockside Road"},
	}
	for i, rec := range stores {
		saved, err := store.CreateStore(rec, ownerID)
		if err != nil {
			return fmt.Errorf("seed store %s: %w", rec.Name, err)
		}
		if err := store.UpsertRating(created[1].ID, saved.ID, 3+i); err != nil {
			return fmt.Errorf("seed rating: %w", err)
		}
	}

	logger.Info().Int("users", len(users)).Int("stores", len(stores)).Msg("Demo data seeded")
	return nil
}
