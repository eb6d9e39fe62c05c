package models

import (
	"strings"
	"testing"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Name:     "Alexandra Wellington-Smith",
		Email:    "alex@example.com",
		Address:  "12 Long Road, Springfield",
		Password: "Str0ng!pass",
	}
}

func TestCheckSignup(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*SignupRequest)
		wantMsgs []string
	}{
		{
			name:     "valid request",
			mutate:   func(r *SignupRequest) {},
			wantMsgs: nil,
		},
		{
			name:     "name too short",
			mutate:   func(r *SignupRequest) { r.Name = "Al" },
			wantMsgs: []string{"name must be between 20 and 60 characters"},
		},
		{
			name:     "name too long",
			mutate:   func(r *SignupRequest) { r.Name = strings.Repeat("a", 61) },
			wantMsgs: []string{"name must be between 20 and 60 characters"},
		},
		{
			name:     "address too long",
			mutate:   func(r *SignupRequest) { r.Address = strings.Repeat("x", 401) },
			wantMsgs: []string{"address must be at most 400 characters"},
		},
		{
			name:   "password missing uppercase",
			mutate: func(r *SignupRequest) { r.Password = "str0ng!pass" },
			wantMsgs: []string{
				"password must contain at least one uppercase letter",
			},
		},
		{
			name:   "password short and plain",
			mutate: func(r *SignupRequest) { r.Password = "abc" },
			wantMsgs: []string{
				"password must be between 8 and 16 characters",
				"password must contain at least one uppercase letter",
				"password must contain at least one special character",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validSignup()
			tc.mutate(&req)
			violated := CheckSignup(req)
			if len(violated) != len(tc.wantMsgs) {
				t.Fatalf("got %d violations, want %d: %+v", len(violated), len(tc.wantMsgs), violated)
			}
			for i, rule := range violated {
				if rule.Message != tc.wantMsgs[i] {
					t.Errorf("violation %d = %q, want %q", i, rule.Message, tc.wantMsgs[i])
				}
			}
		})
	}
}
