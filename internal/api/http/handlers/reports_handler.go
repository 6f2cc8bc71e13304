package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crisis-service/internal/api/dto"
	"github.com/spec-kit/crisis-service/internal/service"
	apperrors "github.com/spec-kit/crisis-service/pkg/util"
)

// ReportsHandler exposes the crisis report lifecycle endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs the handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// Create handles POST /crisis-reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	var req dto.ReportCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	report, err := h.reports.Create(c.UserContext(), service.ReportCreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Severity:     req.Severity,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Address:      req.Address,
		ReporterID:   req.ReporterID,
		ReporterName: req.ReporterName,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewReportResponse(report))
}

// List handles GET /crisis-reports.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	reports, err := h.reports.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponses(reports))
}

// Get handles GET /crisis-reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.reports.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponse(report))
}

// Resolve handles PATCH /crisis-reports/:id/resolve.
func (h *ReportsHandler) Resolve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.reports.Resolve(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponse(report))
}

// Assign handles PATCH /crisis-reports/:id/assign/:responderId.
func (h *ReportsHandler) Assign(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	responderID, err := parseID(c, "responderId")
	if err != nil {
		return err
	}
	report, err := h.reports.Assign(c.UserContext(), id, responderID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponse(report))
}

// UpdateStatus handles PATCH /crisis-reports/:id/status.
func (h *ReportsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	report, err := h.reports.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponse(report))
}

// Delete handles DELETE /crisis-reports/:id.
func (h *ReportsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reports.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListByResponder handles GET /crisis-reports/responder/:responderId.
func (h *ReportsHandler) ListByResponder(c *fiber.Ctx) error {
	responderID, err := parseID(c, "responderId")
	if err != nil {
		return err
	}
	reports, err := h.reports.ListByResponder(c.UserContext(), responderID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponses(reports))
}

// ListActiveByResponder handles GET /crisis-reports/responder/:responderId/active.
func (h *ReportsHandler) ListActiveByResponder(c *fiber.Ctx) error {
	responderID, err := parseID(c, "responderId")
	if err != nil {
		return err
	}
	reports, err := h.reports.ListActiveByResponder(c.UserContext(), responderID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReportResponses(reports))
}
