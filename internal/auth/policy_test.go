package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyResolve(t *testing.T) {
	policy := NewPolicy(DefaultRules())

	tests := []struct {
		name   string
		method string
		path   string
		want   Requirement
	}{
		{"auth login is public", "POST", "/auth/login", Requirement{Kind: RequirePublic}},
		{"signup is public", "POST", "/users/signup", Requirement{Kind: RequirePublic}},
		{"report create is public", "POST", "/crisis-reports", Requirement{Kind: RequirePublic}},
		{"report list needs auth", "GET", "/crisis-reports", Requirement{Kind: RequireAuthenticated}},
		{"report detail needs auth", "GET", "/crisis-reports/5", Requirement{Kind: RequireAuthenticated}},
		{"report resolve needs auth", "PATCH", "/crisis-reports/5/resolve", Requirement{Kind: RequireAuthenticated}},
		{"report delete needs auth", "DELETE", "/crisis-reports/5", Requirement{Kind: RequireAuthenticated}},
		{"user admin routes", "GET", "/users", Requirement{Kind: RequireRole, Role: "ADMIN"}},
		{"user detail admin", "GET", "/users/5", Requirement{Kind: RequireRole, Role: "ADMIN"}},
		{"notifications need auth", "GET", "/notifications/user/5", Requirement{Kind: RequireAuthenticated}},
		{"responder prefix", "GET", "/responder/assignments", Requirement{Kind: RequireRole, Role: "RESPONDER"}},
		{"unknown path falls back to auth", "GET", "/anything/else", Requirement{Kind: RequireAuthenticated}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, policy.Resolve(tc.method, tc.path))
		})
	}
}

func TestPolicyLongestPrefixWinsOverBroaderRule(t *testing.T) {
	// /crisis-reports/responder/** must resolve to the RESPONDER rule even
	// though /crisis-reports/** also matches; declaration order would have
	// shadowed it.
	policy := NewPolicy(DefaultRules())

	got := policy.Resolve("GET", "/crisis-reports/responder/42")
	assert.Equal(t, Requirement{Kind: RequireRole, Role: "RESPONDER"}, got)

	got = policy.Resolve("GET", "/crisis-reports/responder/42/active")
	assert.Equal(t, Requirement{Kind: RequireRole, Role: "RESPONDER"}, got)
}

func TestPolicyExactPatternBeatsPrefixOfSamePath(t *testing.T) {
	policy := NewPolicy(DefaultRules())

	// POST has a dedicated public rule for the bare collection path.
	assert.Equal(t, Requirement{Kind: RequirePublic}, policy.Resolve("POST", "/crisis-reports"))
	// Other verbs on the bare path fall to the authenticated rules.
	assert.Equal(t, Requirement{Kind: RequireAuthenticated}, policy.Resolve("GET", "/crisis-reports"))
	assert.Equal(t, Requirement{Kind: RequireAuthenticated}, policy.Resolve("DELETE", "/crisis-reports"))
}

func TestPolicySignupNotSwallowedByAdminRule(t *testing.T) {
	policy := NewPolicy(DefaultRules())

	assert.Equal(t, Requirement{Kind: RequirePublic}, policy.Resolve("POST", "/users/signup"))
	assert.Equal(t, Requirement{Kind: RequireRole, Role: "ADMIN"}, policy.Resolve("GET", "/users/responders"))
}
