package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/idrefz/deltaboard/internal/api/dto"
	"github.com/idrefz/deltaboard/internal/domain"
	"github.com/idrefz/deltaboard/internal/service"
	apperrors "github.com/idrefz/deltaboard/pkg/util/errorutil"
)

// DashboardHandler serves the aggregated dashboard views.
type DashboardHandler struct {
	reports *service.ReportService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(reportService *service.ReportService) *DashboardHandler {
	return &DashboardHandler{reports: reportService}
}

// Summary GET /dashboard/summary?regional=.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	report, err := h.reports.Dashboard(c.UserContext(), c.Query("regional"))
	if err != nil {
		return err
	}
	if report == nil {
		return apperrors.NewNotFound("snapshot", nil)
	}

	resp := dto.DashboardResponse{
		Version:    report.Version,
		Hash:       report.Hash,
		UploadedAt: report.UploadedAt,
		Regional:   report.Regional,
		Metrics: dto.MetricsResponse{
			Baseline:  report.Metrics.Baseline,
			TotalPrev: report.Metrics.TotalPrev,
			TotalCur:  report.Metrics.TotalCur,
			Added:     report.Metrics.Added,
			Removed:   report.Metrics.Removed,
			Changed:   report.Metrics.Changed,
		},
		Regions: summaryRows(report.Regions),
		Witels:  summaryRows(report.Witels),
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Changes GET /dashboard/changes?regional=.
func (h *DashboardHandler) Changes(c *fiber.Ctx) error {
	report, err := h.reports.Dashboard(c.UserContext(), c.Query("regional"))
	if err != nil {
		return err
	}
	if report == nil {
		return apperrors.NewNotFound("snapshot", nil)
	}

	changes := make([]dto.StatusChangeResponse, 0, len(report.Changes))
	for _, change := range report.Changes {
		changes = append(changes, statusChangeResponse(change))
	}
	return c.JSON(fiber.Map{"data": dto.ChangesResponse{
		Version:  report.Version,
		Regional: report.Regional,
		Changes:  changes,
	}})
}

// Regions GET /dashboard/regions.
func (h *DashboardHandler) Regions(c *fiber.Ctx) error {
	regions, err := h.reports.Regions(c.UserContext())
	if err != nil {
		return err
	}
	if regions == nil {
		regions = []string{}
	}
	return c.JSON(fiber.Map{"data": regions})
}

// Export GET /dashboard/export?regional=.
func (h *DashboardHandler) Export(c *fiber.Ctx) error {
	payload, err := h.reports.ExportXLSX(c.UserContext(), c.Query("regional"))
	if err != nil {
		return err
	}
	if payload == nil {
		return apperrors.NewNotFound("snapshot", nil)
	}

	filename := fmt.Sprintf("deltaboard-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(payload)
}

func summaryRows(rows []domain.SummaryRow) []dto.SummaryRowResponse {
	out := make([]dto.SummaryRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.SummaryRowResponse{
			Regional:         row.Regional,
			Witel:            row.Witel,
			OnGoingLoP:       row.OnGoingLoP,
			OnGoingPorts:     row.OnGoingPorts,
			GoLiveLoP:        row.GoLiveLoP,
			GoLivePorts:      row.GoLivePorts,
			TotalLoP:         row.TotalLoP,
			TotalPorts:       row.TotalPorts,
			CompletionPct:    row.CompletionPct,
			DeltaGoLivePorts: row.DeltaGoLivePorts,
			DeltaGoLiveLoP:   row.DeltaGoLiveLoP,
			Rank:             row.Rank,
		})
	}
	return out
}

func statusChangeResponse(change domain.StatusChange) dto.StatusChangeResponse {
	return dto.StatusChangeResponse{
		TicketID:  change.TicketID,
		Regional:  change.Regional,
		Witel:     change.Witel,
		OldStatus: string(change.OldStatus),
		NewStatus: string(change.NewStatus),
		Ports:     change.Ports,
	}
}
