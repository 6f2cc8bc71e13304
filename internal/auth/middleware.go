package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crisis-service/internal/domain"
	apperrors "github.com/spec-kit/crisis-service/pkg/util"
)

const principalKey = "auth_principal"

// Middleware resolves the caller's identity against the route policy. It runs
// once per request before any handler; the resolved principal lives only in
// that request's locals.
type Middleware struct {
	tokens *TokenManager
	policy *Policy
}

// NewMiddleware constructs the identity resolution middleware.
func NewMiddleware(tokens *TokenManager, policy *Policy) *Middleware {
	return &Middleware{tokens: tokens, policy: policy}
}

// Handle enforces the policy requirement for the incoming request.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	requirement := m.policy.Resolve(c.Method(), c.Path())
	if requirement.Kind == RequirePublic {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	principal, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if requirement.Kind == RequireRole && principal.Role != domain.Role(requirement.Role) {
		return apperrors.NewForbidden("insufficient role")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
