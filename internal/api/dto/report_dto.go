package dto

import (
	"time"

	"github.com/spec-kit/crisis-service/internal/domain"
)

// ReportCreateRequest payload for POST /crisis-reports.
type ReportCreateRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Severity     string  `json:"severity"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Address      string  `json:"address"`
	ReporterID   *int64  `json:"reporterId"`
	ReporterName string  `json:"reporterName"`
}

// StatusUpdateRequest payload for PATCH /crisis-reports/{id}/status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// ReportResponse is the wire form of a crisis report.
type ReportResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Status       string    `json:"status"`
	Severity     string    `json:"severity"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Address      string    `json:"address"`
	ReporterID   int64     `json:"reporterId"`
	ReporterName string    `json:"reporterName"`
	ResponderID  *int64    `json:"responderId"`
	Responders   int       `json:"responders"`
	ReportTime   time.Time `json:"reportTime"`
}

// NewReportResponse maps the domain model to its wire form.
func NewReportResponse(report *domain.CrisisReport) ReportResponse {
	return ReportResponse{
		ID:           report.ID,
		Title:        report.Title,
		Description:  report.Description,
		Category:     report.Category,
		Status:       string(report.Status),
		Severity:     report.Severity,
		Latitude:     report.Latitude,
		Longitude:    report.Longitude,
		Address:      report.Address,
		ReporterID:   report.ReporterID,
		ReporterName: report.ReporterName,
		ResponderID:  report.ResponderID,
		Responders:   report.Responders,
		ReportTime:   report.ReportTime,
	}
}

// NewReportResponses maps a slice of reports.
func NewReportResponses(reports []domain.CrisisReport) []ReportResponse {
	result := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		result = append(result, NewReportResponse(&reports[i]))
	}
	return result
}
