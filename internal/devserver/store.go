package devserver

import (
	"errors"

	"rateview/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Store is the persistence surface of the dev backend. The in-memory
// implementation lives here; a MySQL-backed one is in internal/db.
type Store interface {
	CreateUser(user models.UserProfile, passwordHash string) (models.UserProfile, error)
	UserByEmail(email string) (models.UserProfile, string, error)
	UserByID(id int) (models.UserProfile, string, error)
	SetPassword(userID int, passwordHash string) error

	CreateStore(store models.AdminStoreRecord, ownerID int) (models.AdminStoreRecord, error)
	ListUsers(q models.ListQuery) ([]models.UserProfile, error)
	ListStores(q models.ListQuery) ([]models.AdminStoreRecord, error)
	ListStoresForUser(userID int, q models.ListQuery) ([]models.StoreRecord, error)

	UpsertRating(userID, storeID, score int) error
	Stats() (models.AdminStats, error)
	OwnerDashboard(ownerID int) ([]models.OwnerDashboardEntry, error)
}
