package domain

import (
	"fmt"
	"strings"
	"time"
)

// ReportStatus enumerates lifecycle states for crisis reports.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusAssigned ReportStatus = "ASSIGNED"
	ReportStatusResolved ReportStatus = "RESOLVED"

	// ReportStatusActive is a legacy stored value still present in old rows.
	// It is normalized for display and never written by new transitions.
	ReportStatusActive ReportStatus = "ACTIVE"

	// DisplayStatusUnresolved is the presentation value for PENDING/ACTIVE rows.
	DisplayStatusUnresolved ReportStatus = "UNRESOLVED"
)

// ParseReportStatus accepts only the canonical status values. Free-text status
// input is rejected rather than persisted.
func ParseReportStatus(input string) (ReportStatus, error) {
	switch ReportStatus(strings.ToUpper(strings.TrimSpace(input))) {
	case ReportStatusPending:
		return ReportStatusPending, nil
	case ReportStatusAssigned:
		return ReportStatusAssigned, nil
	case ReportStatusResolved:
		return ReportStatusResolved, nil
	default:
		return "", fmt.Errorf("invalid status %q", input)
	}
}

// CrisisReport is the aggregate for citizen-submitted crisis reports.
type CrisisReport struct {
	ID           int64
	Title        string
	Description  string
	Category     string
	Status       ReportStatus
	Severity     string
	Latitude     float64
	Longitude    float64
	Address      string
	ReporterID   int64
	ReporterName string
	ResponderID  *int64
	Responders   int
	ReportTime   time.Time
}

// DisplayStatus maps stored status values to the presentation vocabulary.
// ACTIVE and PENDING both render as UNRESOLVED; the stored value is untouched.
func (r *CrisisReport) DisplayStatus() ReportStatus {
	switch r.Status {
	case ReportStatusActive, ReportStatusPending:
		return DisplayStatusUnresolved
	default:
		return r.Status
	}
}
