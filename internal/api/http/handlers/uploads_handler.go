package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/idrefz/deltaboard/internal/api/dto"
	"github.com/idrefz/deltaboard/internal/auth"
	"github.com/idrefz/deltaboard/internal/service"
	apperrors "github.com/idrefz/deltaboard/pkg/util/errorutil"
)

// UploadsHandler manages daily spreadsheet uploads.
type UploadsHandler struct {
	uploads  *service.UploadService
	reports  *service.ReportService
	maxBytes int64
}

// NewUploadsHandler constructs handler.
func NewUploadsHandler(uploadService *service.UploadService, reportService *service.ReportService, maxBytes int64) *UploadsHandler {
	return &UploadsHandler{uploads: uploadService, reports: reportService, maxBytes: maxBytes}
}

// Upload POST /uploads. Expects multipart form field "file" holding an
// xlsx workbook.
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("operator required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("multipart field \"file\" required", nil)
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		return apperrors.NewValidationError("file too large", map[string]any{
			"max_bytes": h.maxBytes,
			"size":      fileHeader.Size,
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable upload", nil)
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	report, err := h.uploads.ProcessUpload(c.UserContext(), fileHeader.Filename, raw, principal.Username)
	if err != nil {
		return err
	}
	if report.Duplicate {
		return apperrors.NewConflict("identical file already uploaded", map[string]any{
			"hash": report.Hash,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": uploadResponse(report)})
}

// History GET /uploads/history.
func (h *UploadsHandler) History(c *fiber.Ctx) error {
	entries, err := h.reports.History(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UploadHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.UploadHistoryEntry{
			UploadedAt: entry.UploadedAt,
			Hash:       entry.Hash,
			Version:    entry.Version,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func uploadResponse(report *service.UploadReport) dto.UploadResponse {
	resp := dto.UploadResponse{
		Version:     report.Version,
		Hash:        report.Hash,
		TicketCount: report.TicketCount,
		DroppedRows: report.DroppedRows,
		Changes:     []dto.StatusChangeResponse{},
	}
	if report.Delta == nil {
		return resp
	}
	resp.Baseline = report.Delta.Baseline
	resp.Added = report.Delta.AddedCount()
	resp.Removed = report.Delta.RemovedCount()
	resp.Changed = report.Delta.ChangedCount()
	resp.GoLivePortsByRegion = report.Delta.GoLivePortsByRegion
	for _, change := range report.Delta.Changed {
		resp.Changes = append(resp.Changes, statusChangeResponse(change))
	}
	return resp
}
