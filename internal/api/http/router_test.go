package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crisis-service/internal/api/http"
	"github.com/spec-kit/crisis-service/internal/api/http/handlers"
	"github.com/spec-kit/crisis-service/internal/auth"
	"github.com/spec-kit/crisis-service/internal/config"
	"github.com/spec-kit/crisis-service/internal/events"
	"github.com/spec-kit/crisis-service/internal/observability"
	"github.com/spec-kit/crisis-service/internal/repository/inmemory"
	"github.com/spec-kit/crisis-service/internal/service"
	"github.com/spec-kit/crisis-service/internal/worker"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	users := inmemory.NewUserStore()
	reports := inmemory.NewReportStore()
	notifications := inmemory.NewNotificationStore()
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()

	tokens := auth.NewTokenManager("test-secret", 24)
	identity := auth.NewMiddleware(tokens, auth.NewPolicy(auth.DefaultRules()))

	notificationService := service.NewNotificationService(notifications, dispatcher, logger, config.NotificationConfig{})
	worker.StartNotificationWorker(notificationService)
	authService := service.NewAuthService(users, tokens, 4)
	userService := service.NewUserService(users)
	reportService := service.NewReportService(reports, users, notificationService, dispatcher)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0, config.CORSConfig{})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Auth:          handlers.NewAuthHandler(authService),
		Users:         handlers.NewUsersHandler(authService, userService),
		Reports:       handlers.NewReportsHandler(reportService),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		Identity:      identity,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (*http.Response, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded []map[string]any
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func signup(t *testing.T, app *fiber.App, name, email, role string) int64 {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/users/signup", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "hunter2",
		"role":     role,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return int64(body["id"].(float64))
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, ok := body["accessToken"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestCreateAssignResolveScenario(t *testing.T) {
	app := setupTestApp(t)

	reporterID := signup(t, app, "Rita Reporter", "rita@example.com", "CITIZEN")
	responderID := signup(t, app, "Ray Responder", "ray@example.com", "RESPONDER")
	token := login(t, app, "rita@example.com")

	// Creation is public and starts PENDING.
	resp, report := doJSON(t, app, http.MethodPost, "/crisis-reports", "", fiber.Map{
		"title":      "Fire",
		"category":   "FIRE",
		"reporterId": reporterID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "PENDING", report["status"])
	reportID := int64(report["id"].(float64))

	// Assignment to a RESPONDER moves it to ASSIGNED.
	resp, report = doJSON(t, app, http.MethodPatch,
		fmt.Sprintf("/crisis-reports/%d/assign/%d", reportID, responderID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ASSIGNED", report["status"])
	assert.Equal(t, float64(responderID), report["responderId"])

	// Resolution notifies the original reporter.
	resp, report = doJSON(t, app, http.MethodPatch,
		fmt.Sprintf("/crisis-reports/%d/resolve", reportID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "RESOLVED", report["status"])

	resp, notifications := doJSONList(t, app, http.MethodGet,
		fmt.Sprintf("/notifications/user/%d", reporterID), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0]["message"], "Fire")
	assert.Equal(t, float64(reporterID), notifications[0]["userId"])
}

func TestAssignNonResponderFails(t *testing.T) {
	app := setupTestApp(t)

	reporterID := signup(t, app, "Rita Reporter", "rita@example.com", "CITIZEN")
	token := login(t, app, "rita@example.com")

	resp, report := doJSON(t, app, http.MethodPost, "/crisis-reports", "", fiber.Map{
		"title":      "Fire",
		"reporterId": reporterID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reportID := int64(report["id"].(float64))

	resp, body := doJSON(t, app, http.MethodPatch,
		fmt.Sprintf("/crisis-reports/%d/assign/%d", reportID, reporterID), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestCreateReportRequiresTitleOverHTTP(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/crisis-reports", "", fiber.Map{
		"description": "no title",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestAdminRouteRoleEnforcement(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "Ray Responder", "ray@example.com", "RESPONDER")
	signup(t, app, "Ada Admin", "ada@example.com", "ADMIN")
	responderToken := login(t, app, "ray@example.com")
	adminToken := login(t, app, "ada@example.com")

	// No token at all.
	resp, _ := doJSON(t, app, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Valid token, wrong role. ADMIN and RESPONDER do not imply each other.
	resp, _ = doJSON(t, app, http.MethodGet, "/users", responderToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, users := doJSONList(t, app, http.MethodGet, "/users", adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, users, 2)
}

func TestResponderRouteLongestPrefixEnforced(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "Rita Reporter", "rita@example.com", "CITIZEN")
	responderID := signup(t, app, "Ray Responder", "ray@example.com", "RESPONDER")
	citizenToken := login(t, app, "rita@example.com")
	responderToken := login(t, app, "ray@example.com")

	path := fmt.Sprintf("/crisis-reports/responder/%d", responderID)

	// The narrower RESPONDER rule wins over the broader authenticated rule.
	resp, _ := doJSON(t, app, http.MethodGet, path, citizenToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSONList(t, app, http.MethodGet, path, responderToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReportRoutesRequireAuthentication(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/crisis-reports", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/crisis-reports", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDeleteUnknownReportReturnsNotFound(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "Rita Reporter", "rita@example.com", "CITIZEN")
	token := login(t, app, "rita@example.com")

	resp, body := doJSON(t, app, http.MethodDelete, "/crisis-reports/999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "Rita Reporter", "rita@example.com", "CITIZEN")
	resp, body := doJSON(t, app, http.MethodPost, "/users/signup", "", fiber.Map{
		"name":     "Rita Again",
		"email":    "rita@example.com",
		"password": "hunter2",
		"role":     "CITIZEN",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestSignupInvalidRoleRejected(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/users/signup", "", fiber.Map{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "hunter2",
		"role":     "OVERLORD",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestLoginBadCredentials(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "Rita Reporter", "rita@example.com", "CITIZEN")
	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "rita@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
	assert.Nil(t, body["accessToken"])
}
