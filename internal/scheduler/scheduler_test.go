package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tremor/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	err      error
	ran      chan struct{}
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error {
	select {
	case j.ran <- struct{}{}:
	default:
	}
	return j.err
}

func TestAddJob_RejectsDuplicate(t *testing.T) {
	s := New(logger.NewNop())
	job := &stubJob{name: "pipeline", schedule: "@daily", ran: make(chan struct{}, 1)}

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job))
}

func TestAddJob_RejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())
	job := &stubJob{name: "broken", schedule: "not-a-cron", ran: make(chan struct{}, 1)}

	assert.Error(t, s.AddJob(job))
}

func TestRunJob(t *testing.T) {
	s := New(logger.NewNop())
	job := &stubJob{name: "pipeline", schedule: "@daily", ran: make(chan struct{}, 1)}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("pipeline"))
	select {
	case <-job.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	assert.Error(t, s.RunJob("missing"))
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	h.AddResult(JobResult{JobName: "pipeline", Success: true})
	h.AddResult(JobResult{JobName: "pipeline", Success: false, Error: "boom"})

	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-12)

	last, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, "boom", last.Error)
}
