package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rateview/internal/devserver"
	"rateview/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

// SQLStore is the MySQL persistence behind the dev backend, selected when
// DB_URL is set. Filtering and sorting happen in SQL so behavior matches
// the in-memory store's substring-and-single-key semantics.
type SQLStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLStore(db *sql.DB, logger zerolog.Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

func (s *SQLStore) CreateUser(user models.UserProfile, passwordHash string) (models.UserProfile, error) {
	res, err := s.db.Exec(
		`INSERT INTO users (name, email, address, password_hash, role) VALUES (?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.Address, passwordHash, string(user.Role),
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return models.UserProfile{}, devserver.ErrEmailTaken
		}
		return models.UserProfile{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("read insert id: %w", err)
	}
	user.ID = int(id)
	return user, nil
}

func (s *SQLStore) UserByEmail(email string) (models.UserProfile, string, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, name, email, address, role, password_hash FROM users WHERE email = ?`, email))
}

func (s *SQLStore) UserByID(id int) (models.UserProfile, string, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, name, email, address, role, password_hash FROM users WHERE id = ?`, id))
}

func (s *SQLStore) scanUser(row *sql.Row) (models.UserProfile, string, error) {
	var user models.UserProfile
	var role, hash string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Address, &role, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, "", devserver.ErrNotFound
	}
	if err != nil {
		return models.UserProfile{}, "", fmt.Errorf("scan user: %w", err)
	}
	user.Role = models.Role(role)
	return user, hash, nil
}

func (s *SQLStore) SetPassword(userID int, passwordHash string) error {
	res, err := s.db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return devserver.ErrNotFound
	}
	return nil
}

func (s *SQLStore) CreateStore(store models.AdminStoreRecord, ownerID int) (models.AdminStoreRecord, error) {
	res, err := s.db.Exec(
		`INSERT INTO stores (name, email, address, owner_id) VALUES (?, ?, ?, ?)`,
		store.Name, store.Email, store.Address, ownerID,
	)
	if err != nil {
		return models.AdminStoreRecord{}, fmt.Errorf("insert store: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.AdminStoreRecord{}, fmt.Errorf("read insert id: %w", err)
	}
	store.ID = int(id)
	return store, nil
}

func (s *SQLStore) ListUsers(q models.ListQuery) ([]models.UserProfile, error) {
	where, args := buildFilter(map[string]string{
		"name":    q.Filter.Name,
		"email":   q.Filter.Email,
		"address": q.Filter.Address,
		"role":    q.Filter.Role,
	})
	order := buildOrder(q.Sort, map[string]string{
		"name": "name", "email": "email", "address": "address", "role": "role",
	}, "name")

	rows, err := s.db.Query(
		`SELECT id, name, email, address, role FROM users`+where+order, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []models.UserProfile
	for rows.Next() {
		var user models.UserProfile
		var role string
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Address, &role); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		user.Role = models.Role(role)
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *SQLStore) ListStores(q models.ListQuery) ([]models.AdminStoreRecord, error) {
	where, args := buildFilter(map[string]string{
		"s.name":    q.Filter.Name,
		"s.email":   q.Filter.Email,
		"s.address": q.Filter.Address,
	})
	order := buildOrder(q.Sort, map[string]string{
		"name": "s.name", "email": "s.email", "address": "s.address", "rating": "average_rating",
	}, "s.name")

	rows, err := s.db.Query(
		`SELECT s.id, s.name, s.email, s.address, AVG(r.score) AS average_rating, COUNT(r.score)
		 FROM stores s LEFT JOIN ratings r ON r.store_id = s.id`+
			where+` GROUP BY s.id, s.name, s.email, s.address`+order, args...)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	var stores []models.AdminStoreRecord
	for rows.Next() {
		var store models.AdminStoreRecord
		var avg sql.NullFloat64
		if err := rows.Scan(&store.ID, &store.Name, &store.Email, &store.Address, &avg, &store.RatingCount); err != nil {
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		if avg.Valid {
			store.AverageRating = &avg.Float64
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func (s *SQLStore) ListStoresForUser(userID int, q models.ListQuery) ([]models.StoreRecord, error) {
	where, args := buildFilter(map[string]string{
		"s.name":    q.Filter.Name,
		"s.address": q.Filter.Address,
	})
	order := buildOrder(q.Sort, map[string]string{
		"name": "s.name", "address": "s.address", "rating": "overall_rating",
	}, "s.name")

	rows, err := s.db.Query(
		`SELECT s.id, s.name, s.email, s.address,
		        AVG(r.score) AS overall_rating,
		        COUNT(r.score),
		        MAX(CASE WHEN r.user_id = ? THEN r.score END)
		 FROM stores s LEFT JOIN ratings r ON r.store_id = s.id`+
			where+` GROUP BY s.id, s.name, s.email, s.address`+order,
		append([]any{userID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	var stores []models.StoreRecord
	for rows.Next() {
		var store models.StoreRecord
		var avg sql.NullFloat64
		var mine sql.NullInt64
		if err := rows.Scan(&store.ID, &store.Name, &store.Email, &store.Address, &avg, &store.RatingCount, &mine); err != nil {
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		if avg.Valid {
			store.OverallRating = &avg.Float64
		}
		if mine.Valid {
			score := int(mine.Int64)
			store.MyRating = &score
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func (s *SQLStore) UpsertRating(userID, storeID, score int) error {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM stores WHERE id = ?`, storeID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return devserver.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check store: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO ratings (user_id, store_id, score) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE score = VALUES(score)`,
		userID, storeID, score)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

func (s *SQLStore) Stats() (models.AdminStats, error) {
	var stats models.AdminStats
	err := s.db.QueryRow(
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM stores),
		        (SELECT COUNT(*) FROM ratings)`).
		Scan(&stats.TotalUsers, &stats.TotalStores, &stats.TotalRatings)
	if err != nil {
		return models.AdminStats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}

func (s *SQLStore) OwnerDashboard(ownerID int) ([]models.OwnerDashboardEntry, error) {
	rows, err := s.db.Query(
		`SELECT s.id, s.name, AVG(r.score)
		 FROM stores s LEFT JOIN ratings r ON r.store_id = s.id
		 WHERE s.owner_id = ?
		 GROUP BY s.id, s.name ORDER BY s.id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query owner stores: %w", err)
	}
	defer rows.Close()

	var entries []models.OwnerDashboardEntry
	for rows.Next() {
		var entry models.OwnerDashboardEntry
		var avg sql.NullFloat64
		if err := rows.Scan(&entry.Store.ID, &entry.Store.Name, &avg); err != nil {
			return nil, fmt.Errorf("scan owner store row: %w", err)
		}
		if avg.Valid {
			entry.AverageRating = &avg.Float64
		}
		entry.Ratings = []models.RatingEntry{}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		ratingRows, err := s.db.Query(
			`SELECT u.name, u.email, r.score
			 FROM ratings r JOIN users u ON u.id = r.user_id
			 WHERE r.store_id = ? ORDER BY u.email`, entries[i].Store.ID)
		if err != nil {
			return nil, fmt.Errorf("query store ratings: %w", err)
		}
		for ratingRows.Next() {
			var rating models.RatingEntry
			if err := ratingRows.Scan(&rating.UserName, &rating.UserEmail, &rating.Score); err != nil {
				ratingRows.Close()
				return nil, fmt.Errorf("scan rating row: %w", err)
			}
			entries[i].Ratings = append(entries[i].Ratings, rating)
		}
		if err := ratingRows.Err(); err != nil {
			ratingRows.Close()
			return nil, err
		}
		ratingRows.Close()
	}
	return entries, nil
}

// buildFilter turns non-empty substring filters into a WHERE clause.
func buildFilter(filters map[string]string) (string, []any) {
	var clauses []string
	var args []any
	for _, column := range []string{"name", "email", "address", "role", "s.name", "s.email", "s.address"} {
		value, ok := filters[column]
		if !ok || value == "" {
			continue
		}
		clauses = append(clauses, column+" LIKE ?")
		args = append(args, "%"+value+"%")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildOrder maps the requested sort key through a column whitelist.
func buildOrder(sort models.SortCriteria, columns map[string]string, fallback string) string {
	column, ok := columns[sort.By]
	if !ok {
		column = fallback
	}
	direction := "ASC"
	if sort.Order == models.SortDesc {
		direction = "DESC"
	}
	return " ORDER BY " + column + " " + direction
}
