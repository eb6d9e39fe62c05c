// Package devserver is a reference implementation of the rating backend's
// HTTP contract. It exists so the client core can be exercised end to end
// without the real service: same routes, same success bodies, same failure
// envelope, including FastAPI-style validation arrays on signup.
package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"rateview/internal/models"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type validationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type Handler struct {
	store  Store
	tokens *TokenService
	logger zerolog.Logger
}

// NewHandler assembles the routed, middleware-wrapped backend.
func NewHandler(store Store, jwtSecret string, logger zerolog.Logger) http.Handler {
	h := &Handler{
		store:  store,
		tokens: NewTokenService(jwtSecret, logger),
		logger: logger,
	}

	r := mux.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestLogging(logger))
	r.Use(CORS())
	r.Use(NewRateLimiter(rate.Limit(50), 100).Middleware())

	r.HandleFunc("/auth/login", h.login).Methods("POST")
	r.HandleFunc("/auth/signup", h.signup).Methods("POST")

	authed := r.NewRoute().Subrouter()
	authed.Use(Authentication(h.tokens, logger))
	authed.HandleFunc("/auth/password", h.changePassword).Methods("PUT")
	authed.HandleFunc("/stores", h.listStores).Methods("GET")
	authed.HandleFunc("/stores/{id}/rating", h.submitRating).Methods("POST")

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(Authentication(h.tokens, logger))
	admin.Use(RequireRole(string(models.RoleAdmin)))
	admin.HandleFunc("/dashboard", h.adminStats).Methods("GET")
	admin.HandleFunc("/users", h.adminUsers).Methods("GET")
	admin.HandleFunc("/stores", h.adminStores).Methods("GET")

	owner := r.PathPrefix("/owner").Subrouter()
	owner.Use(Authentication(h.tokens, logger))
	owner.Use(RequireRole(string(models.RoleOwner)))
	owner.HandleFunc("/dashboard", h.ownerDashboard).Methods("GET")

	return r
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, hash, err := h.store.UserByEmail(req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		h.logger.Warn().Str("email", req.Email).Msg("Login rejected")
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if violated := models.CheckSignup(req); len(violated) > 0 {
		details := make([]validationError, 0, len(violated))
		for _, rule := range violated {
			details = append(details, validationError{
				Loc:  []string{"body", rule.Field},
				Msg:  rule.Message,
				Type: "value_error",
			})
		}
		writeDetail(w, http.StatusUnprocessableEntity, details)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error().Err(err).Msg("Password hashing failed")
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	user, err := h.store.CreateUser(models.UserProfile{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Role:    models.RoleUser,
	}, string(hash))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeDetail(w, http.StatusConflict, "Email already registered")
			return
		}
		h.logger.Error().Err(err).Msg("User creation failed")
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, hash, err := h.store.UserByID(userID)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.OldPassword)) != nil {
		writeDetail(w, http.StatusBadRequest, "Old password is incorrect")
		return
	}

	// The new password has to satisfy the same rules as at signup.
	probe := models.SignupRequest{Password: req.NewPassword}
	var details []validationError
	for _, rule := range models.SignupRules {
		if rule.Field == "password" && !rule.Check(probe) {
			details = append(details, validationError{
				Loc:  []string{"body", "new_password"},
				Msg:  rule.Message,
				Type: "value_error",
			})
		}
	}
	if len(details) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, details)
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error().Err(err).Msg("Password hashing failed")
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	if err := h.store.SetPassword(userID, string(newHash)); err != nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

func (h *Handler) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats()
	if err != nil {
		h.logger.Error().Err(err).Msg("Stats query failed")
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) adminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(parseListQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("User list query failed")
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	if users == nil {
		users = []models.UserProfile{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) adminStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.store.ListStores(parseListQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("Store list query failed")
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	if stores == nil {
		stores = []models.AdminStoreRecord{}
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	stores, err := h.store.ListStoresForUser(userID, parseListQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("Store list query failed")
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	if stores == nil {
		stores = []models.StoreRecord{}
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *Handler) submitRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	storeID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid store ID")
		return
	}

	var req models.RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Score < 1 || req.Score > 5 {
		writeDetail(w, http.StatusUnprocessableEntity, []validationError{{
			Loc:  []string{"body", "score"},
			Msg:  "score must be between 1 and 5",
			Type: "value_error",
		}})
		return
	}

	if err := h.store.UpsertRating(userID, storeID, req.Score); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeDetail(w, http.StatusNotFound, "Store not found")
			return
		}
		h.logger.Error().Err(err).Msg("Rating upsert failed")
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Rating recorded"})
}

func (h *Handler) ownerDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	entries, err := h.store.OwnerDashboard(userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Owner dashboard query failed")
		writeDetail(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	if entries == nil {
		entries = []models.OwnerDashboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, statusCode int, user models.UserProfile) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	writeJSON(w, statusCode, models.AuthResponse{AccessToken: token, User: user})
}

func parseListQuery(r *http.Request) models.ListQuery {
	q := r.URL.Query()
	query := models.ListQuery{
		Filter: models.FilterCriteria{
			Name:    q.Get("name"),
			Email:   q.Get("email"),
			Address: q.Get("address"),
			Role:    q.Get("role"),
		},
		Sort: models.SortCriteria{
			By:    q.Get("sort_by"),
			Order: models.SortOrder(q.Get("order")),
		},
	}
	if query.Sort.By != "" && query.Sort.Order == "" {
		query.Sort.Order = models.SortAsc
	}
	return query
}
