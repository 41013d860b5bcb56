package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/logger"
	"github.com/orgdesk/directory-api/internal/storage"
	"go.uber.org/zap"
)

// ReportExportJobName is the name of the nightly directory export job
const ReportExportJobName = "report_export"

// OrganizationLister lists the organizations the export runs for.
type OrganizationLister interface {
	List(ctx context.Context) ([]domain.Organization, error)
}

// DirectoryExporter writes every directory entity of one organization to storage.
type DirectoryExporter interface {
	ExportToStorage(ctx context.Context, organizationID uuid.UUID, store storage.Storage) ([]string, error)
}

// ReportExportJob exports the directory of every organization as CSV files.
// A failing organization is logged and skipped.
type ReportExportJob struct {
	organizations OrganizationLister
	exporter      DirectoryExporter
	store         storage.Storage
	logger        *zap.Logger
	timeout       time.Duration
}

// NewReportExportJob creates a new export job.
// The timeout bounds one complete run over all organizations.
func NewReportExportJob(organizations OrganizationLister, exporter DirectoryExporter, store storage.Storage, logger *zap.Logger, timeout time.Duration) *ReportExportJob {
	return &ReportExportJob{
		organizations: organizations,
		exporter:      exporter,
		store:         store,
		logger:        logger,
		timeout:       timeout,
	}
}

// Run executes the export. This is called by the scheduler.
func (j *ReportExportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	exported, failed, err := j.RunContext(ctx)
	if err != nil {
		j.logger.Error("directory export job failed", zap.Error(err))
		return
	}
	j.logger.Info("directory export job completed",
		zap.Int("organizations_exported", exported),
		zap.Int("organizations_failed", failed))
}

// RunContext exports every organization and returns the exported and failed counts
func (j *ReportExportJob) RunContext(ctx context.Context) (exported int, failed int, err error) {
	start := time.Now()
	j.logger.Info("starting directory export job")

	orgs, err := j.organizations.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list organizations: %w", err)
	}

	for _, org := range orgs {
		if ctx.Err() != nil {
			failed += len(orgs) - exported - failed
			j.logger.Warn("directory export job stopped early",
				zap.Error(ctx.Err()),
				zap.Duration("duration", time.Since(start)))
			break
		}

		orgLogger := logger.WithOrganization(j.logger, org.ID.String())
		names, err := j.exporter.ExportToStorage(ctx, org.ID, j.store)
		if err != nil {
			failed++
			orgLogger.Error("directory export failed for organization",
				zap.String("organization", org.Name),
				zap.Error(err))
			continue
		}
		exported++
		orgLogger.Debug("organization exported", zap.Strings("files", names))
	}

	j.logger.Info("directory export finished",
		zap.Int("organizations", len(orgs)),
		zap.Duration("duration", time.Since(start)))
	return exported, failed, nil
}

// RegisterReportExportJob registers the export job with the scheduler.
func RegisterReportExportJob(scheduler *Scheduler, job *ReportExportJob, cronExpr string) error {
	return scheduler.AddJob(ReportExportJobName, cronExpr, job.Run)
}
