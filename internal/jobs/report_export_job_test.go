package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/jobs"
	"github.com/orgdesk/directory-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrganizations struct {
	orgs []domain.Organization
	err  error
}

func (f fakeOrganizations) List(ctx context.Context) ([]domain.Organization, error) {
	return f.orgs, f.err
}

type fakeExporter struct {
	failFor  map[uuid.UUID]bool
	exported []uuid.UUID
	onExport func()
}

func (f *fakeExporter) ExportToStorage(ctx context.Context, organizationID uuid.UUID, store storage.Storage) ([]string, error) {
	if f.onExport != nil {
		f.onExport()
	}
	if f.failFor[organizationID] {
		return nil, errors.New("upload failed")
	}
	f.exported = append(f.exported, organizationID)
	return []string{organizationID.String() + "/contacts.csv"}, nil
}

func organizations(n int) []domain.Organization {
	orgs := make([]domain.Organization, n)
	for i := range orgs {
		orgs[i] = domain.Organization{ID: uuid.New(), Name: "org"}
	}
	return orgs
}

func newStore(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestReportExportJob_ExportsEveryOrganization(t *testing.T) {
	orgs := organizations(3)
	exporter := &fakeExporter{}
	job := jobs.NewReportExportJob(fakeOrganizations{orgs: orgs}, exporter, newStore(t), zap.NewNop(), time.Minute)

	exported, failed, err := job.RunContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, exported)
	assert.Zero(t, failed)
	assert.Len(t, exporter.exported, 3)
}

func TestReportExportJob_SkipsFailingOrganization(t *testing.T) {
	orgs := organizations(3)
	exporter := &fakeExporter{failFor: map[uuid.UUID]bool{orgs[1].ID: true}}
	job := jobs.NewReportExportJob(fakeOrganizations{orgs: orgs}, exporter, newStore(t), zap.NewNop(), time.Minute)

	exported, failed, err := job.RunContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, exported)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []uuid.UUID{orgs[0].ID, orgs[2].ID}, exporter.exported)
}

func TestReportExportJob_ListError(t *testing.T) {
	job := jobs.NewReportExportJob(fakeOrganizations{err: errors.New("db down")}, &fakeExporter{}, newStore(t), zap.NewNop(), time.Minute)

	_, _, err := job.RunContext(context.Background())
	assert.ErrorContains(t, err, "list organizations")
}

func TestReportExportJob_StopsWhenContextEnds(t *testing.T) {
	orgs := organizations(4)
	ctx, cancel := context.WithCancel(context.Background())
	exporter := &fakeExporter{}
	exporter.onExport = func() {
		if len(exporter.exported) == 1 {
			cancel()
		}
	}
	job := jobs.NewReportExportJob(fakeOrganizations{orgs: orgs}, exporter, newStore(t), zap.NewNop(), time.Minute)

	exported, failed, err := job.RunContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, exported)
	assert.Equal(t, 2, failed)
}

func TestRegisterReportExportJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	job := jobs.NewReportExportJob(fakeOrganizations{}, &fakeExporter{}, newStore(t), zap.NewNop(), time.Minute)

	require.NoError(t, jobs.RegisterReportExportJob(s, job, "0 0 2 * * *"))
	assert.Equal(t, []string{jobs.ReportExportJobName}, s.GetJobNames())

	// the job itself tolerates an empty organization list
	job.Run()
}
