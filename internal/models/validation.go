package models

import (
	"strings"
	"unicode"
)

// SignupRule is one format constraint on a signup field. The same rule set
// backs the advisory client-side pre-check and the dev backend's enforcement,
// so the two can never disagree.
type SignupRule struct {
	Field   string
	Message string
	Check   func(SignupRequest) bool
}

var SignupRules = []SignupRule{
	{
		Field:   "name",
		Message: "name must be between 20 and 60 characters",
		Check: func(r SignupRequest) bool {
			n := len([]rune(r.Name))
			return n >= 20 && n <= 60
		},
	},
	{
		Field:   "address",
		Message: "address must be at most 400 characters",
		Check: func(r SignupRequest) bool {
			return len([]rune(r.Address)) <= 400
		},
	},
	{
		Field:   "password",
		Message: "password must be between 8 and 16 characters",
		Check: func(r SignupRequest) bool {
			n := len(r.Password)
			return n >= 8 && n <= 16
		},
	},
	{
		Field:   "password",
		Message: "password must contain at least one uppercase letter",
		Check: func(r SignupRequest) bool {
			return strings.ContainsFunc(r.Password, unicode.IsUpper)
		},
	},
	{
		Field:   "password",
		Message: "password must contain at least one special character",
		Check: func(r SignupRequest) bool {
			return strings.ContainsFunc(r.Password, func(c rune) bool {
				return !unicode.IsLetter(c) && !unicode.IsDigit(c)
			})
		},
	},
}

// CheckSignup returns the rules the request violates, in declaration order.
// The client only displays these; enforcement belongs to the backend.
func CheckSignup(req SignupRequest) []SignupRule {
	var violated []SignupRule
	for _, rule := range SignupRules {
		if !rule.Check(req) {
			violated = append(violated, rule)
		}
	}
	return violated
}
