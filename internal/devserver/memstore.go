package devserver

import (
	"sort"
	"strings"
	"sync"

	"rateview/internal/models"
)

// MemoryStore keeps the dev backend's data in process. Good enough for
// local runs and tests; DB_URL switches the binary to the MySQL store.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[int]*memUser
	stores      map[int]*memStoreRecord
	ratings     map[int]map[int]int // storeID -> userID -> score
	nextUserID  int
	nextStoreID int
}

type memUser struct {
	profile models.UserProfile
	hash    string
}

type memStoreRecord struct {
	id      int
	name    string
	email   string
	address string
	ownerID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int]*memUser),
		stores:      make(map[int]*memStoreRecord),
		ratings:     make(map[int]map[int]int),
		nextUserID:  1,
		nextStoreID: 1,
	}
}

func (m *MemoryStore) CreateUser(user models.UserProfile, passwordHash string) (models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.profile.Email, user.Email) {
			return models.UserProfile{}, ErrEmailTaken
		}
	}
	user.ID = m.nextUserID
	m.nextUserID++
	m.users[user.ID] = &memUser{profile: user, hash: passwordHash}
	return user, nil
}

func (m *MemoryStore) UserByEmail(email string) (models.UserProfile, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.profile.Email, email) {
			return u.profile, u.hash, nil
		}
	}
	return models.UserProfile{}, "", ErrNotFound
}

func (m *MemoryStore) UserByID(id int) (models.UserProfile, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.UserProfile{}, "", ErrNotFound
	}
	return u.profile, u.hash, nil
}

func (m *MemoryStore) SetPassword(userID int, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.hash = passwordHash
	return nil
}

func (m *MemoryStore) CreateStore(store models.AdminStoreRecord, ownerID int) (models.AdminStoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &memStoreRecord{
		id:      m.nextStoreID,
		name:    store.Name,
		email:   store.Email,
		address: store.Address,
		ownerID: ownerID,
	}
	m.nextStoreID++
	m.stores[rec.id] = rec
	store.ID = rec.id
	return store, nil
}

func (m *MemoryStore) ListUsers(q models.ListQuery) ([]models.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.UserProfile
	for _, u := range m.users {
		p := u.profile
		if !matches(p.Name, q.Filter.Name) ||
			!matches(p.Email, q.Filter.Email) ||
			!matches(p.Address, q.Filter.Address) ||
			!matches(string(p.Role), q.Filter.Role) {
			continue
		}
		out = append(out, p)
	}
	sortRecords(out, q.Sort, func(p models.UserProfile) (string, float64) {
		switch q.Sort.By {
		case "email":
			return p.Email, 0
		case "address":
			return p.Address, 0
		case "role":
			return string(p.Role), 0
		default:
			return p.Name, 0
		}
	})
	return out, nil
}

func (m *MemoryStore) ListStores(q models.ListQuery) ([]models.AdminStoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.AdminStoreRecord
	for _, s := range m.stores {
		if !matches(s.name, q.Filter.Name) ||
			!matches(s.email, q.Filter.Email) ||
			!matches(s.address, q.Filter.Address) {
			continue
		}
		avg, count := m.ratingSummary(s.id)
		rec := models.AdminStoreRecord{
			ID:          s.id,
			Name:        s.name,
			Email:       s.email,
			Address:     s.address,
			RatingCount: count,
		}
		if count > 0 {
			rec.AverageRating = &avg
		}
		out = append(out, rec)
	}
	sortRecords(out, q.Sort, func(r models.AdminStoreRecord) (string, float64) {
		switch q.Sort.By {
		case "email":
			return r.Email, 0
		case "address":
			return r.Address, 0
		case "rating":
			if r.AverageRating == nil {
				return "", 0
			}
			return "", *r.AverageRating
		default:
			return r.Name, 0
		}
	})
	return out, nil
}

func (m *MemoryStore) ListStoresForUser(userID int, q models.ListQuery) ([]models.StoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.StoreRecord
	for _, s := range m.stores {
		if !matches(s.name, q.Filter.Name) || !matches(s.address, q.Filter.Address) {
			continue
		}
		avg, count := m.ratingSummary(s.id)
		rec := models.StoreRecord{
			ID:          s.id,
			Name:        s.name,
			Email:       s.email,
			Address:     s.address,
			RatingCount: count,
		}
		if count > 0 {
			rec.OverallRating = &avg
		}
		if score, ok := m.ratings[s.id][userID]; ok {
			rec.MyRating = &score
		}
		out = append(out, rec)
	}
	sortRecords(out, q.Sort, func(r models.StoreRecord) (string, float64) {
		switch q.Sort.By {
		case "address":
			return r.Address, 0
		case "rating":
			if r.OverallRating == nil {
				return "", 0
			}
			return "", *r.OverallRating
		default:
			return r.Name, 0
		}
	})
	return out, nil
}

func (m *MemoryStore) UpsertRating(userID, storeID, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[storeID]; !ok {
		return ErrNotFound
	}
	if m.ratings[storeID] == nil {
		m.ratings[storeID] = make(map[int]int)
	}
	m.ratings[storeID][userID] = score
	return nil
}

func (m *MemoryStore) Stats() (models.AdminStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, byUser := range m.ratings {
		total += len(byUser)
	}
	return models.AdminStats{
		TotalUsers:   len(m.users),
		TotalStores:  len(m.stores),
		TotalRatings: total,
	}, nil
}

func (m *MemoryStore) OwnerDashboard(ownerID int) ([]models.OwnerDashboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.OwnerDashboardEntry
	for _, s := range m.stores {
		if s.ownerID != ownerID {
			continue
		}
		entry := models.OwnerDashboardEntry{
			Store:   models.StoreRef{ID: s.id, Name: s.name},
			Ratings: []models.RatingEntry{},
		}
		avg, count := m.ratingSummary(s.id)
		if count > 0 {
			entry.AverageRating = &avg
		}
		for userID, score := range m.ratings[s.id] {
			if u, ok := m.users[userID]; ok {
				entry.Ratings = append(entry.Ratings, models.RatingEntry{
					UserName:  u.profile.Name,
					UserEmail: u.profile.Email,
					Score:     score,
				})
			}
		}
		sort.Slice(entry.Ratings, func(i, j int) bool {
			return entry.Ratings[i].UserEmail < entry.Ratings[j].UserEmail
		})
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Store.ID < out[j].Store.ID })
	return out, nil
}

// ratingSummary must be called with the lock held.
func (m *MemoryStore) ratingSummary(storeID int) (float64, int) {
	byUser := m.ratings[storeID]
	if len(byUser) == 0 {
		return 0, 0
	}
	sum := 0
	for _, score := range byUser {
		sum += score
	}
	return float64(sum) / float64(len(byUser)), len(byUser)
}

func matches(value, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(substr))
}

// sortRecords orders by the string key when set, the numeric key otherwise.
func sortRecords[T any](items []T, criteria models.SortCriteria, key func(T) (string, float64)) {
	desc := criteria.Order == models.SortDesc
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			i, j = j, i
		}
		si, ni := key(items[i])
		sj, nj := key(items[j])
		if si != "" || sj != "" {
			return strings.ToLower(si) < strings.ToLower(sj)
		}
		return ni < nj
	})
}
