package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/crisis-service/internal/config"
	"github.com/spec-kit/crisis-service/internal/domain"
	"github.com/spec-kit/crisis-service/internal/events"
	"github.com/spec-kit/crisis-service/internal/repository/inmemory"
	"github.com/spec-kit/crisis-service/internal/service"
)

type reportFixture struct {
	reports       *service.ReportService
	notifications *service.NotificationService
	users         *inmemory.UserStore
	reportStore   *inmemory.ReportStore
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	users := inmemory.NewUserStore()
	reportStore := inmemory.NewReportStore()
	notificationStore := inmemory.NewNotificationStore()
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(notificationStore, dispatcher, zap.NewNop(), config.NotificationConfig{})
	return &reportFixture{
		reports:       service.NewReportService(reportStore, users, notifications, dispatcher),
		notifications: notifications,
		users:         users,
		reportStore:   reportStore,
	}
}

func (f *reportFixture) seedUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		FirstName:    "Test",
		Email:        string(role) + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *reportFixture) seedReport(t *testing.T, reporterID int64) *domain.CrisisReport {
	t.Helper()
	report, err := f.reports.Create(context.Background(), service.ReportCreateInput{
		Title:      "Fire",
		Category:   "FIRE",
		ReporterID: &reporterID,
	})
	require.NoError(t, err)
	return report
}

func TestCreateReportDefaults(t *testing.T) {
	f := newReportFixture(t)

	report, err := f.reports.Create(context.Background(), service.ReportCreateInput{
		Title:    "  Flooded basement  ",
		Category: "FLOOD",
	})
	require.NoError(t, err)
	assert.Equal(t, "Flooded basement", report.Title)
	assert.Equal(t, domain.ReportStatusPending, report.Status)
	assert.Equal(t, service.DefaultReporterID, report.ReporterID)
	assert.Zero(t, report.Responders)
	assert.False(t, report.ReportTime.IsZero())
	assert.Nil(t, report.ResponderID)
}

func TestCreateReportRequiresTitle(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.reports.Create(context.Background(), service.ReportCreateInput{Title: "   "})
	requireHTTPStatus(t, err, 400)
}

func TestAssignToResponder(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	responder := f.seedUser(t, domain.RoleResponder)
	report := f.seedReport(t, reporter.ID)

	updated, err := f.reports.Assign(context.Background(), report.ID, responder.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusAssigned, updated.Status)
	require.NotNil(t, updated.ResponderID)
	assert.Equal(t, responder.ID, *updated.ResponderID)
}

func TestAssignRejectsNonResponder(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	admin := f.seedUser(t, domain.RoleAdmin)
	report := f.seedReport(t, reporter.ID)

	_, err := f.reports.Assign(context.Background(), report.ID, reporter.ID)
	requireHTTPStatus(t, err, 400)
	_, err = f.reports.Assign(context.Background(), report.ID, admin.ID)
	requireHTTPStatus(t, err, 400)

	// Prior state is unchanged after the failed assignments.
	stored, err := f.reports.Get(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusPending, stored.Status)
	assert.Nil(t, stored.ResponderID)
}

func TestAssignUnknownIDs(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	responder := f.seedUser(t, domain.RoleResponder)
	report := f.seedReport(t, reporter.ID)

	_, err := f.reports.Assign(context.Background(), 999, responder.ID)
	requireHTTPStatus(t, err, 404)
	_, err = f.reports.Assign(context.Background(), report.ID, 999)
	requireHTTPStatus(t, err, 404)
}

func TestResolveEmitsNotification(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	report := f.seedReport(t, reporter.ID)
	ctx := context.Background()

	resolved, err := f.reports.Resolve(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusResolved, resolved.Status)

	notifications, err := f.notifications.ListForUser(ctx, reporter.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "Fire")
	assert.Contains(t, notifications[0].Message, "resolved")
	assert.Equal(t, domain.ChannelEmail, notifications[0].Channel)
	assert.Equal(t, report.ID, notifications[0].CrisisID)
	assert.False(t, notifications[0].IsRead)
}

func TestResolveTwiceEmitsTwoNotifications(t *testing.T) {
	// There is no idempotence guard; each resolution emits its own
	// notification.
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	report := f.seedReport(t, reporter.ID)
	ctx := context.Background()

	_, err := f.reports.Resolve(ctx, report.ID)
	require.NoError(t, err)
	_, err = f.reports.Resolve(ctx, report.ID)
	require.NoError(t, err)

	notifications, err := f.notifications.ListForUser(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	report := f.seedReport(t, reporter.ID)

	for _, status := range []string{"", "ACTIVE", "ON FIRE", "CLOSED"} {
		_, err := f.reports.UpdateStatus(context.Background(), report.ID, status)
		requireHTTPStatus(t, err, 400)
	}
}

func TestUpdateStatusToResolvedEmitsNotification(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	report := f.seedReport(t, reporter.ID)
	ctx := context.Background()

	updated, err := f.reports.UpdateStatus(ctx, report.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusResolved, updated.Status)

	notifications, err := f.notifications.ListForUser(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}

func TestUpdateStatusToAssignedEmitsNothing(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	report := f.seedReport(t, reporter.ID)
	ctx := context.Background()

	_, err := f.reports.UpdateStatus(ctx, report.ID, "ASSIGNED")
	require.NoError(t, err)

	notifications, err := f.notifications.ListForUser(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestDeleteEmitsNotificationThenRemoves(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	report := f.seedReport(t, reporter.ID)
	ctx := context.Background()

	require.NoError(t, f.reports.Delete(ctx, report.ID))

	_, err := f.reports.Get(ctx, report.ID)
	requireHTTPStatus(t, err, 404)

	notifications, err := f.notifications.ListForUser(ctx, reporter.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "deleted")
}

func TestDeleteUnknownReportEmitsNothing(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	ctx := context.Background()

	err := f.reports.Delete(ctx, 999)
	requireHTTPStatus(t, err, 404)

	notifications, err := f.notifications.ListForUser(ctx, reporter.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestListAppliesDisplayNormalization(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	report := f.seedReport(t, reporter.ID)
	ctx := context.Background()

	// Simulate a legacy row still carrying the ACTIVE status.
	legacy := *report
	legacy.Status = domain.ReportStatusActive
	require.NoError(t, f.reportStore.Update(ctx, &legacy))

	listed, err := f.reports.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domain.DisplayStatusUnresolved, listed[0].Status)

	// The stored value is untouched by the read.
	stored, err := f.reportStore.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusActive, stored.Status)
}

func TestListByResponder(t *testing.T) {
	f := newReportFixture(t)
	reporter := f.seedUser(t, domain.RoleCitizen)
	responder := f.seedUser(t, domain.RoleResponder)
	ctx := context.Background()

	first := f.seedReport(t, reporter.ID)
	second := f.seedReport(t, reporter.ID)
	f.seedReport(t, reporter.ID)

	_, err := f.reports.Assign(ctx, first.ID, responder.ID)
	require.NoError(t, err)
	_, err = f.reports.Assign(ctx, second.ID, responder.ID)
	require.NoError(t, err)
	_, err = f.reports.Resolve(ctx, second.ID)
	require.NoError(t, err)

	all, err := f.reports.ListByResponder(ctx, responder.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := f.reports.ListActiveByResponder(ctx, responder.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)
}
