package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rateview/internal/apierr"
	"rateview/internal/models"

	"github.com/rs/zerolog"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return New(server.URL, 5*time.Second, zerolog.Nop()), server
}

func TestStoresQueryDropsAdminOnlyFilters(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stores" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.StoreRecord{})
	})
	defer server.Close()

	q := models.ListQuery{
		Filter: models.FilterCriteria{Name: "cof", Email: "x@y", Address: "road", Role: "admin"},
		Sort:   models.SortCriteria{By: "name", Order: models.SortDesc},
	}
	if _, err := c.Stores(context.Background(), "tok-1", q); err != nil {
		t.Fatalf("Stores: %v", err)
	}

	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if _, ok := gotQuery["email"]; ok {
		t.Error("email filter leaked into /stores query")
	}
	if _, ok := gotQuery["role"]; ok {
		t.Error("role filter leaked into /stores query")
	}
	if len(gotQuery["name"]) == 0 || gotQuery["name"][0] != "cof" {
		t.Errorf("name filter = %v", gotQuery["name"])
	}
	if len(gotQuery["order"]) == 0 || gotQuery["order"][0] != "desc" {
		t.Errorf("order = %v", gotQuery["order"])
	}
}

func TestAdminUsersSendsRoleFilter(t *testing.T) {
	var gotRole string
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotRole = r.URL.Query().Get("role")
		json.NewEncoder(w).Encode([]models.UserProfile{})
	})
	defer server.Close()

	q := models.ListQuery{Filter: models.FilterCriteria{Role: "owner"}}
	if _, err := c.AdminUsers(context.Background(), "tok", q); err != nil {
		t.Fatalf("AdminUsers: %v", err)
	}
	if gotRole != "owner" {
		t.Errorf("role param = %q", gotRole)
	}
}

func TestSubmitRatingPathAndBody(t *testing.T) {
	var gotPath string
	var gotBody models.RatingRequest
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	if err := c.SubmitRating(context.Background(), "tok", 42, 4); err != nil {
		t.Fatalf("SubmitRating: %v", err)
	}
	if gotPath != "/stores/42/rating" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.Score != 4 {
		t.Errorf("score = %d", gotBody.Score)
	}
}

func TestFailureBecomesNormalizedAPIError(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid email or password"}`))
	})
	defer server.Close()

	_, err := c.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "nope"})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*apierr.APIError)
	if !ok {
		t.Fatalf("error type %T, want *apierr.APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "Invalid email or password" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestChangePasswordIgnoresSuccessBody(t *testing.T) {
	c, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/auth/password" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message": "Password updated"}`))
	})
	defer server.Close()

	err := c.ChangePassword(context.Background(), "tok", models.ChangePasswordRequest{
		OldPassword: "Old!12345", NewPassword: "New!12345",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
}
