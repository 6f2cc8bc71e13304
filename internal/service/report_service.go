package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crisis-service/internal/domain"
	"github.com/spec-kit/crisis-service/internal/events"
	"github.com/spec-kit/crisis-service/internal/repository"
	apperrors "github.com/spec-kit/crisis-service/pkg/util"
)

// DefaultReporterID is substituted when a creation request carries no reporter
// id. It is a documented placeholder policy, not an authentication mechanism.
const DefaultReporterID int64 = 1

// ReportService drives the crisis report lifecycle: creation, assignment,
// status transitions, resolution and deletion, including the notification
// side effects those transitions owe the original reporter.
type ReportService struct {
	reports       repository.ReportRepository
	users         repository.UserRepository
	notifications *NotificationService
	dispatcher    events.Dispatcher
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository, users repository.UserRepository, notifications *NotificationService, dispatcher events.Dispatcher) *ReportService {
	return &ReportService{
		reports:       reports,
		users:         users,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

// ReportCreateInput describes a creation payload.
type ReportCreateInput struct {
	Title        string
	Description  string
	Category     string
	Severity     string
	Latitude     float64
	Longitude    float64
	Address      string
	ReporterID   *int64
	ReporterName string
}

// Create stores a new report in PENDING state. The report time is stamped
// here, never trusted from the caller, and the responders counter starts at
// zero.
func (s *ReportService) Create(ctx context.Context, input ReportCreateInput) (*domain.CrisisReport, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}

	reporterID := DefaultReporterID
	if input.ReporterID != nil {
		reporterID = *input.ReporterID
	}

	report := &domain.CrisisReport{
		Title:        title,
		Description:  input.Description,
		Category:     input.Category,
		Status:       domain.ReportStatusPending,
		Severity:     input.Severity,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Address:      input.Address,
		ReporterID:   reporterID,
		ReporterName: input.ReporterName,
		Responders:   0,
		ReportTime:   time.Now(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventReportCreated,
		ReportID: report.ID,
		Payload: events.ReportCreatedPayload{
			Title:      report.Title,
			Category:   report.Category,
			Severity:   report.Severity,
			ReporterID: report.ReporterID,
		},
	})
	return report, nil
}

// List returns all reports with display normalization applied: legacy ACTIVE
// rows and PENDING rows both render as UNRESOLVED. Stored values are untouched.
func (s *ReportService) List(ctx context.Context) ([]domain.CrisisReport, error) {
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range reports {
		reports[i].Status = reports[i].DisplayStatus()
	}
	return reports, nil
}

// Get returns one report by id without display normalization.
func (s *ReportService) Get(ctx context.Context, id int64) (*domain.CrisisReport, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("crisis report")
		}
		return nil, apperrors.MapError(err)
	}
	return report, nil
}

// Assign sets the report's responder and moves it to ASSIGNED. Only users
// holding the RESPONDER role may be assigned; on failure the report keeps its
// prior state.
func (s *ReportService) Assign(ctx context.Context, reportID, responderID int64) (*domain.CrisisReport, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	responder, err := s.users.GetByID(ctx, responderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("responder")
		}
		return nil, apperrors.MapError(err)
	}
	if responder.Role != domain.RoleResponder {
		return nil, apperrors.NewValidationError("only RESPONDER users can be assigned to crises")
	}

	report.ResponderID = &responder.ID
	report.Status = domain.ReportStatusAssigned
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventReportAssigned,
		ReportID: report.ID,
		Payload:  events.ReportAssignedPayload{ResponderID: responder.ID},
	})
	return report, nil
}

// UpdateStatus sets the report to one of the canonical status values; anything
// else is rejected at the boundary. Resolving through here emits the same
// resolution notification as Resolve. There is no idempotence guard: setting
// RESOLVED on an already resolved report emits another notification.
func (s *ReportService) UpdateStatus(ctx context.Context, reportID int64, status string) (*domain.CrisisReport, error) {
	newStatus, err := domain.ParseReportStatus(status)
	if err != nil {
		return nil, apperrors.NewValidationError("status must be one of PENDING, ASSIGNED, RESOLVED")
	}

	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	oldStatus := report.Status
	report.Status = newStatus
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}
	if newStatus == domain.ReportStatusResolved {
		if _, err := s.notifications.EmitResolution(ctx, report); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventReportStatusChanged,
		ReportID: report.ID,
		Payload: events.ReportStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return report, nil
}

// Resolve moves the report to RESOLVED and emits exactly one resolution
// notification to the original reporter before returning.
func (s *ReportService) Resolve(ctx context.Context, reportID int64) (*domain.CrisisReport, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	report.Status = domain.ReportStatusResolved
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}
	if _, err := s.notifications.EmitResolution(ctx, report); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventReportResolved,
		ReportID: report.ID,
		Payload: events.ReportResolvedPayload{
			Title:      report.Title,
			ReporterID: report.ReporterID,
		},
	})
	return report, nil
}

// Delete notifies the reporter, then removes the report permanently. The
// existence pre-check means a missing report yields NotFound with no
// notification emitted.
func (s *ReportService) Delete(ctx context.Context, reportID int64) error {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return err
	}

	if _, err := s.notifications.EmitDeletion(ctx, report); err != nil {
		return err
	}
	if err := s.reports.Delete(ctx, reportID); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventReportDeleted,
		ReportID: report.ID,
		Payload: events.ReportDeletedPayload{
			Title:      report.Title,
			ReporterID: report.ReporterID,
		},
	})
	return nil
}

// ListByResponder returns every report assigned to the responder.
func (s *ReportService) ListByResponder(ctx context.Context, responderID int64) ([]domain.CrisisReport, error) {
	reports, err := s.reports.ListByResponder(ctx, responderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// ListActiveByResponder returns the responder's reports not yet resolved.
func (s *ReportService) ListActiveByResponder(ctx context.Context, responderID int64) ([]domain.CrisisReport, error) {
	reports, err := s.reports.ListActiveByResponder(ctx, responderID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

func (s *ReportService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
