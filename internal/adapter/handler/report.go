package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/internal/usecase/report"
)

// ReportService renders meeting reports
type ReportService interface {
	RenderReport(ctx context.Context, ref string) (*report.Document, error)
}

// Report serves PDF exports
type Report struct {
	service ReportService
	logger  *zap.Logger
}

// NewReport creates a new report handler
func NewReport(service ReportService, logger *zap.Logger) *Report {
	return &Report{service: service, logger: logger}
}

// ExportPDF godoc
// @Summary      Export meeting report
// @Description  Renders the meeting summary, participant research and transcript as a PDF.
// @Description  Errors are returned as JSON.
// @Tags         Reports
// @Produce      application/pdf
// @Param        meetingId  path  string  true  "Meeting ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  common.ErrorResponse
// @Failure      500  {object}  common.ErrorResponse  "Failed to generate PDF"
// @Router       /export-pdf/{meetingId} [get]
func (h *Report) ExportPDF(c echo.Context) error {
	doc, err := h.service.RenderReport(c.Request().Context(), c.Param("meetingId"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	if h.logger != nil {
		h.logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("bytes", len(doc.Content)),
		)
	}
	return c.Blob(http.StatusOK, "application/pdf", doc.Content)
}
