package models

// StoreRecord is the store projection served to regular users. OverallRating
// and MyRating are nil when the store has no ratings or the user has not
// rated it yet.
type StoreRecord struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	OverallRating *float64 `json:"overall_rating"`
	MyRating      *int     `json:"my_rating"`
	RatingCount   int      `json:"rating_count"`
}

// AdminStoreRecord is the admin table projection of a store.
type AdminStoreRecord struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	AverageRating *float64 `json:"average_rating"`
	RatingCount   int      `json:"rating_count"`
}

type AdminStats struct {
	TotalUsers   int `json:"total_users"`
	TotalStores  int `json:"total_stores"`
	TotalRatings int `json:"total_ratings"`
}

type StoreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type RatingEntry struct {
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	Score     int    `json:"score"`
}

type OwnerDashboardEntry struct {
	Store         StoreRef      `json:"store"`
	AverageRating *float64      `json:"average_rating"`
	Ratings       []RatingEntry `json:"ratings"`
}

type RatingRequest struct {
	Score int `json:"score"`
}
