package events

import (
	"time"

	"github.com/spec-kit/crisis-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated       EventType = "report_created"
	EventReportAssigned      EventType = "report_assigned"
	EventReportStatusChanged EventType = "report_status_changed"
	EventReportResolved      EventType = "report_resolved"
	EventReportDeleted       EventType = "report_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  int64       `json:"report_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	Title      string `json:"title"`
	Category   string `json:"category"`
	Severity   string `json:"severity,omitempty"`
	ReporterID int64  `json:"reporter_id"`
}

// ReportAssignedPayload payload.
type ReportAssignedPayload struct {
	ResponderID int64 `json:"responder_id"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
}

// ReportResolvedPayload payload.
type ReportResolvedPayload struct {
	Title      string `json:"title"`
	ReporterID int64  `json:"reporter_id"`
}

// ReportDeletedPayload payload.
type ReportDeletedPayload struct {
	Title      string `json:"title"`
	ReporterID int64  `json:"reporter_id"`
}
