package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/crisis-service/internal/config"
	"github.com/spec-kit/crisis-service/internal/domain"
	"github.com/spec-kit/crisis-service/internal/events"
	"github.com/spec-kit/crisis-service/internal/repository"
	apperrors "github.com/spec-kit/crisis-service/pkg/util"
)

// NotificationService persists notification records emitted by lifecycle
// transitions and answers notification queries.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
		cfg:           cfg,
	}
}

// EmitResolution records the resolution notification owed to the reporter.
func (n *NotificationService) EmitResolution(ctx context.Context, report *domain.CrisisReport) (*domain.Notification, error) {
	message := fmt.Sprintf("Your crisis report '%s' has been resolved.", report.Title)
	return n.emit(ctx, report, message)
}

// EmitDeletion records the deletion notification owed to the reporter.
func (n *NotificationService) EmitDeletion(ctx context.Context, report *domain.CrisisReport) (*domain.Notification, error) {
	message := fmt.Sprintf("Your crisis report '%s' has been deleted by an admin.", report.Title)
	return n.emit(ctx, report, message)
}

func (n *NotificationService) emit(ctx context.Context, report *domain.CrisisReport, message string) (*domain.Notification, error) {
	notification := &domain.Notification{
		Message:  message,
		Channel:  domain.ChannelEmail,
		UserID:   report.ReporterID,
		CrisisID: report.ID,
		SentAt:   time.Now(),
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return nil, apperrors.MapError(err)
	}
	return notification, nil
}

// ListForUser returns a user's notifications, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	result, err := n.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// MarkAsRead flips the IsRead flag, the only mutable field of a notification.
func (n *NotificationService) MarkAsRead(ctx context.Context, id int64) (*domain.Notification, error) {
	notification, err := n.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("notification")
		}
		return nil, apperrors.MapError(err)
	}
	notification.IsRead = true
	if err := n.notifications.Update(ctx, notification); err != nil {
		return nil, apperrors.MapError(err)
	}
	return notification, nil
}

// Delete removes a notification permanently.
func (n *NotificationService) Delete(ctx context.Context, id int64) error {
	if err := n.notifications.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notification")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// UnreadCount recomputes the unread predicate count from the persisted set on
// every call.
func (n *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := n.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// RegisterHandlers subscribes delivery stubs to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventReportCreated, n.handleReportEvent)
	n.dispatcher.Subscribe(events.EventReportAssigned, n.handleReportEvent)
	n.dispatcher.Subscribe(events.EventReportStatusChanged, n.handleReportEvent)
	n.dispatcher.Subscribe(events.EventReportResolved, n.handleReportEvent)
	n.dispatcher.Subscribe(events.EventReportDeleted, n.handleReportEvent)
}

func (n *NotificationService) handleReportEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.Int64("report_id", event.ReportID), zap.Any("payload", event.Payload))
	n.sendEmailStub(event)
	n.sendWebhookStub(event)
	return nil
}

func (n *NotificationService) sendEmailStub(event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("report_id", event.ReportID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("report_id", event.ReportID),
		zap.String("event_type", string(event.Type)))
}
