package jobs_test

import (
	"testing"
	"time"

	"github.com/orgdesk/directory-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_AddAndRemoveJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("b_job", "0 0 2 * * *", func() {}))
	require.NoError(t, s.AddJob("a_job", "@every 1h", func() {}))
	assert.Equal(t, []string{"a_job", "b_job"}, s.GetJobNames())

	err := s.AddJob("a_job", "@daily", func() {})
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, s.RemoveJob("a_job"))
	assert.Equal(t, []string{"b_job"}, s.GetJobNames())
	assert.ErrorContains(t, s.RemoveJob("a_job"), "not found")
}

func TestScheduler_RejectsFiveFieldExpressions(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	assert.Error(t, s.AddJob("nightly", "0 2 * * *", func() {}))
	assert.Empty(t, s.GetJobNames())
}

func TestScheduler_NextRun(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	require.NoError(t, s.AddJob("hourly", "@every 1h", func() {}))

	s.Start()
	defer s.Stop()

	next, ok := s.NextRun("hourly")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, 5*time.Second)

	_, ok = s.NextRun("missing")
	assert.False(t, ok)
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	ran := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("fast", "@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_RecoversFromPanics(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	ran := make(chan struct{}, 2)
	require.NoError(t, s.AddJob("panics", "@every 1s", func() {
		ran <- struct{}{}
		panic("boom")
	}))

	s.Start()
	defer s.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(3 * time.Second):
			t.Fatal("job did not run again after panic")
		}
	}
}
