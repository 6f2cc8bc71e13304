package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crisis-service/internal/auth"
	"github.com/spec-kit/crisis-service/internal/domain"
	"github.com/spec-kit/crisis-service/internal/repository/inmemory"
	"github.com/spec-kit/crisis-service/internal/service"
	apperrors "github.com/spec-kit/crisis-service/pkg/util"
)

const testBcryptCost = 4

func newAuthService() (*service.AuthService, *inmemory.UserStore, *auth.TokenManager) {
	users := inmemory.NewUserStore()
	tokens := auth.NewTokenManager("test-secret", 24)
	return service.NewAuthService(users, tokens, testBcryptCost), users, tokens
}

func TestSignupThenLogin(t *testing.T) {
	svc, _, tokens := newAuthService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Rita Reporter", "Rita@Example.com", "hunter2", "citizen")
	require.NoError(t, err)
	assert.Equal(t, "rita@example.com", user.Email)
	assert.Equal(t, "Rita", user.FirstName)
	assert.Equal(t, "Reporter", user.LastName)
	assert.Equal(t, domain.RoleCitizen, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "hunter2", user.PasswordHash)

	loggedIn, token, _, err := svc.Login(ctx, "rita@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	principal, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, "rita@example.com", principal.Email)
	assert.Equal(t, domain.RoleCitizen, principal.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Rita Reporter", "rita@example.com", "hunter2", "CITIZEN")
	require.NoError(t, err)

	_, token, _, err := svc.Login(ctx, "rita@example.com", "wrong")
	assert.Empty(t, token)
	requireHTTPStatus(t, err, 401)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthService()

	_, token, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter2")
	assert.Empty(t, token)
	requireHTTPStatus(t, err, 401)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Rita Reporter", "rita@example.com", "hunter2", "CITIZEN")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Other Person", "rita@example.com", "secret", "CITIZEN")
	requireHTTPStatus(t, err, 409)
}

func TestSignupInvalidRole(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.Signup(context.Background(), "Eve", "eve@example.com", "secret", "SUPERUSER")
	requireHTTPStatus(t, err, 400)
}

func TestSignupSingleWordName(t *testing.T) {
	svc, _, _ := newAuthService()

	user, err := svc.Signup(context.Background(), "Cher", "cher@example.com", "secret", "RESPONDER")
	require.NoError(t, err)
	assert.Equal(t, "Cher", user.FirstName)
	assert.Empty(t, user.LastName)
	assert.Equal(t, domain.RoleResponder, user.Role)
}

func requireHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, status, domainErr.HTTPStatus)
}
