package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/service"
	"go.uber.org/zap"
)

// ReportHandler serves the directory summary and CSV exports
type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Summary godoc
// @Summary Directory summary
// @Description Record counts per entity and status, contacts by category, vendors by country and contractors by license
// @Tags Reports
// @Produce json
// @Param X-Organization-ID header string false "Active organization"
// @Success 200 {object} domain.DirectorySummaryDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	scope := requestScope(r)
	if !scope.HasOrganization() {
		respondServiceError(w, h.logger, service.ErrNoOrganization, "build summary")
		return
	}

	summary, err := h.reportService.Summary(r.Context(), *scope.OrganizationID)
	if err != nil {
		respondServiceError(w, h.logger, err, "build summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Export godoc
// @Summary Export directory entity as CSV
// @Tags Reports
// @Produce text/csv
// @Param X-Organization-ID header string false "Active organization"
// @Param entity query string true "Directory entity" Enums(contacts, customers, vendors, contractors)
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /reports/export [get]
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	entity := domain.EntityType(r.URL.Query().Get("entity"))
	if !entity.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Invalid entity: must be one of contacts, customers, vendors, contractors")
		return
	}

	scope := requestScope(r)
	if !scope.HasOrganization() {
		respondServiceError(w, h.logger, service.ErrNoOrganization, "export "+string(entity))
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.ExportCSV(r.Context(), *scope.OrganizationID, entity, &buf); err != nil {
		respondServiceError(w, h.logger, err, "export "+string(entity))
		return
	}

	filename := fmt.Sprintf("%s-%s.csv", entity, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", service.ExportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
