package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rateview/internal/models"

	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := NewMemoryStore()
	if err := SeedDemo(store, zerolog.Nop()); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	server := httptest.NewServer(NewHandler(store, "test-secret", zerolog.Nop()))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func loginAs(t *testing.T, server *httptest.Server, email string) (string, models.UserProfile) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", models.LoginRequest{
		Email: email, Password: "Passw0rd!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, resp.StatusCode, body)
	}
	var auth models.AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		t.Fatalf("decode auth response: %v", err)
	}
	return auth.AccessToken, auth.User
}

func TestLoginRejectsBadPassword(t *testing.T) {
	server := newTestServer(t)
	resp, body := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", models.LoginRequest{
		Email: "user@rateview.dev", Password: "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode body %s: %v", body, err)
	}
	if envelope.Detail != "Invalid email or password" {
		t.Errorf("detail = %q", envelope.Detail)
	}
}

func TestSignupValidationArray(t *testing.T) {
	server := newTestServer(t)
	resp, body := doJSON(t, http.MethodPost, server.URL+"/auth/signup", "", models.SignupRequest{
		Name:     "Too Short",
		Email:    "short@rateview.dev",
		Address:  "1 Road",
		Password: "lowercase1!",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d body %s", resp.StatusCode, body)
	}
	var envelope struct {
		Detail []validationError `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode body %s: %v", body, err)
	}
	if len(envelope.Detail) != 2 {
		t.Fatalf("violations = %+v, want name + uppercase", envelope.Detail)
	}
	if envelope.Detail[0].Msg != "name must be between 20 and 60 characters" {
		t.Errorf("first msg = %q", envelope.Detail[0].Msg)
	}
	if envelope.Detail[1].Msg != "password must contain at least one uppercase letter" {
		t.Errorf("second msg = %q", envelope.Detail[1].Msg)
	}
}

func TestSignupIssuesSessionAndRejectsDuplicates(t *testing.T) {
	server := newTestServer(t)
	req := models.SignupRequest{
		Name:     "Newly Registered Person Here",
		Email:    "new@rateview.dev",
		Address:  "5 Fresh Street",
		Password: "Br4nd!new",
	}
	resp, body := doJSON(t, http.MethodPost, server.URL+"/auth/signup", "", req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d body %s", resp.StatusCode, body)
	}
	var auth models.AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if auth.AccessToken == "" || auth.User.Role != models.RoleUser {
		t.Errorf("auth response = %+v", auth)
	}

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/auth/signup", "", req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate signup status = %d", resp.StatusCode)
	}
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	server := newTestServer(t)
	userToken, _ := loginAs(t, server, "user@rateview.dev")

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/admin/users", userToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("user hitting admin endpoint: status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/admin/users", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous hitting admin endpoint: status = %d", resp.StatusCode)
	}

	adminToken, _ := loginAs(t, server, "admin@rateview.dev")
	resp, body := doJSON(t, http.MethodGet, server.URL+"/admin/dashboard", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin dashboard status = %d", resp.StatusCode)
	}
	var stats models.AdminStats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalUsers != 3 || stats.TotalStores != 2 || stats.TotalRatings != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRatingValidationAndUpsert(t *testing.T) {
	server := newTestServer(t)
	token, _ := loginAs(t, server, "user@rateview.dev")

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/stores/1/rating", token, models.RatingRequest{Score: 9})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("out-of-range score status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/stores/999/rating", token, models.RatingRequest{Score: 3})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown store status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/stores/1/rating", token, models.RatingRequest{Score: 5})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid rating status = %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, server.URL+"/stores?name=Corner", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("store list status = %d", resp.StatusCode)
	}
	var stores []models.StoreRecord
	if err := json.Unmarshal(body, &stores); err != nil {
		t.Fatalf("decode stores: %v", err)
	}
	if len(stores) != 1 || stores[0].MyRating == nil || *stores[0].MyRating != 5 {
		t.Errorf("stores = %+v", stores)
	}
}

func TestChangePasswordFlow(t *testing.T) {
	server := newTestServer(t)
	token, _ := loginAs(t, server, "user@rateview.dev")

	resp, _ := doJSON(t, http.MethodPut, server.URL+"/auth/password", token, models.ChangePasswordRequest{
		OldPassword: "nope", NewPassword: "An0ther!pw",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("wrong old password status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPut, server.URL+"/auth/password", token, models.ChangePasswordRequest{
		OldPassword: "Passw0rd!", NewPassword: "weak",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("weak new password status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPut, server.URL+"/auth/password", token, models.ChangePasswordRequest{
		OldPassword: "Passw0rd!", NewPassword: "An0ther!pw",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("password change status = %d", resp.StatusCode)
	}

	// Old token keeps working; only the credential rotated.
	resp, _ = doJSON(t, http.MethodGet, server.URL+"/stores", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("token invalidated by password change: status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/auth/login", "", models.LoginRequest{
		Email: "user@rateview.dev", Password: "An0ther!pw",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("login with rotated password status = %d", resp.StatusCode)
	}
}

func TestOwnerDashboardEndpoint(t *testing.T) {
	server := newTestServer(t)
	token, _ := loginAs(t, server, "owner@rateview.dev")

	resp, body := doJSON(t, http.MethodGet, server.URL+"/owner/dashboard", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var entries []models.OwnerDashboardEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].AverageRating == nil || len(entries[0].Ratings) != 1 {
		t.Errorf("first entry = %+v", entries[0])
	}
}
