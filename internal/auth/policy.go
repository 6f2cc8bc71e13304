package auth

import "strings"

// RequirementKind classifies what a route demands from the caller.
type RequirementKind int

const (
	// RequirePublic allows anonymous access; credentials are not inspected.
	RequirePublic RequirementKind = iota
	// RequireAuthenticated allows any principal with a valid token.
	RequireAuthenticated
	// RequireRole allows only principals holding exactly the named role.
	RequireRole
)

// Requirement is the access demanded for a matched route.
type Requirement struct {
	Kind RequirementKind
	Role string
}

// Rule binds a method and path pattern to a requirement. Method "*" matches
// any verb. A pattern ending in "/**" matches the prefix before it and
// everything below; any other pattern matches exactly.
type Rule struct {
	Method      string
	Pattern     string
	Requirement Requirement
}

// Policy resolves requests to requirements over a static rule table.
//
// Resolution is longest-prefix-match, not declaration order: among all rules
// whose method and pattern match, the one with the longest pattern wins, and
// an exact-method rule beats a wildcard-method rule of equal length. This is
// deliberate so that /crisis-reports/responder/** (RESPONDER) is reachable at
// all despite the broader /crisis-reports/** (authenticated) rule.
type Policy struct {
	rules    []Rule
	fallback Requirement
}

// NewPolicy builds a policy over the given rules. Unmatched requests fall back
// to RequireAuthenticated.
func NewPolicy(rules []Rule) *Policy {
	return &Policy{
		rules:    rules,
		fallback: Requirement{Kind: RequireAuthenticated},
	}
}

// DefaultRules is the route access table for this service.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "*", Pattern: "/auth/**", Requirement: Requirement{Kind: RequirePublic}},
		{Method: "*", Pattern: "/users/signup", Requirement: Requirement{Kind: RequirePublic}},
		{Method: "POST", Pattern: "/crisis-reports", Requirement: Requirement{Kind: RequirePublic}},
		{Method: "GET", Pattern: "/crisis-reports", Requirement: Requirement{Kind: RequireAuthenticated}},
		{Method: "*", Pattern: "/crisis-reports/**", Requirement: Requirement{Kind: RequireAuthenticated}},
		{Method: "*", Pattern: "/users/**", Requirement: Requirement{Kind: RequireRole, Role: "ADMIN"}},
		{Method: "*", Pattern: "/notifications/**", Requirement: Requirement{Kind: RequireAuthenticated}},
		{Method: "*", Pattern: "/responder/**", Requirement: Requirement{Kind: RequireRole, Role: "RESPONDER"}},
		{Method: "*", Pattern: "/crisis-reports/responder/**", Requirement: Requirement{Kind: RequireRole, Role: "RESPONDER"}},
	}
}

// Resolve returns the requirement for a request shape. Specificity is the
// length of the pattern's literal prefix; on a tie an exact pattern beats a
// /** pattern, and an exact method beats the wildcard method.
func (p *Policy) Resolve(method, path string) Requirement {
	best := -1
	bestScore := -1

	for i, rule := range p.rules {
		if !methodMatches(rule.Method, method) {
			continue
		}
		literal, wildcard := splitPattern(rule.Pattern)
		if !patternMatches(literal, wildcard, path) {
			continue
		}
		score := len(literal) * 4
		if !wildcard {
			score += 2
		}
		if rule.Method != "*" {
			score++
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return p.fallback
	}
	return p.rules[best].Requirement
}

func methodMatches(ruleMethod, method string) bool {
	return ruleMethod == "*" || strings.EqualFold(ruleMethod, method)
}

func splitPattern(pattern string) (literal string, wildcard bool) {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return prefix, true
	}
	return pattern, false
}

func patternMatches(literal string, wildcard bool, path string) bool {
	if wildcard {
		return path == literal || strings.HasPrefix(path, literal+"/")
	}
	return path == literal
}
