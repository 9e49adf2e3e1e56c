package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule string
	failures int32 // fail this many times before succeeding
	calls    atomic.Int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	if j.calls.Add(1) <= j.failures {
		return errors.New("not yet")
	}
	return nil
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "0 30 21 * * 0,2,4"}))
	assert.Error(t, s.AddJob(&countingJob{name: "a", schedule: "@daily"}), "duplicate name")
	assert.Error(t, s.AddJob(&countingJob{name: "b", schedule: "not a schedule"}))

	assert.ElementsMatch(t, []string{"a"}, s.GetAllJobs())
}

func TestScheduler_RunJob_Retries(t *testing.T) {
	s := New(nil, WithRetry(3, time.Millisecond))
	job := &countingJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob("flaky")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, int32(3), job.calls.Load())

	stats := s.GetJobStats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.NotNil(t, stats.LastSuccess)
	assert.Nil(t, stats.LastFailure)
}

func TestScheduler_RunJob_GivesUp(t *testing.T) {
	s := New(nil, WithRetry(1, time.Millisecond))
	job := &countingJob{name: "broken", schedule: "@daily", failures: 100}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob("broken")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "not yet", result.Error)
	assert.Equal(t, int32(2), job.calls.Load())

	history, err := s.GetJobHistory("broken")
	require.NoError(t, err)
	assert.Equal(t, 1, history.Failures())
	assert.Equal(t, 0.0, history.SuccessRate())
	assert.Equal(t, 2, result.Attempts)

	stat := s.GetJobStats()["broken"]
	assert.Equal(t, 1, stat.FailureCount)
	assert.Equal(t, "not yet", stat.LastError)
	assert.Nil(t, stat.LastSuccess)
	require.NotNil(t, stat.LastFailure)
}

func TestScheduler_StopInterruptsRetryWait(t *testing.T) {
	s := New(nil, WithRetry(5, time.Hour))
	job := &countingJob{name: "slow", schedule: "@daily", failures: 100}
	require.NoError(t, s.AddJob(job))
	s.Start()

	done := make(chan JobResult, 1)
	go func() {
		result, _ := s.RunJob("slow")
		done <- result
	}()

	require.Eventually(t, func() bool { return job.calls.Load() == 1 }, time.Second, time.Millisecond)
	s.Stop()

	select {
	case result := <-done:
		assert.False(t, result.Success)
	case <-time.After(time.Second):
		t.Fatal("job kept waiting after Stop")
	}
}

func TestScheduler_RemoveJob(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@daily"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Empty(t, s.GetJobStats())
	assert.Error(t, s.RemoveJob("a"))

	_, err := s.RunJob("a")
	assert.Error(t, err)
}

func TestScheduler_NextRun(t *testing.T) {
	loc := time.FixedZone("CST", 8*60*60)
	s := New(nil, WithLocation(loc))
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "0 30 21 * * 0,2,4"}))
	s.Start()
	defer s.Stop()

	next, err := s.NextRun("a")
	require.NoError(t, err)
	require.False(t, next.IsZero())

	local := next.In(loc)
	assert.Equal(t, 21, local.Hour())
	assert.Equal(t, 30, local.Minute())
	assert.Contains(t, []time.Weekday{time.Sunday, time.Tuesday, time.Thursday}, local.Weekday())

	_, err = s.NextRun("missing")
	assert.Error(t, err)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	assert.Empty(t, h.Latest(5))
	assert.Equal(t, 0.0, h.SuccessRate())
	_, ok := h.Last(true)
	assert.False(t, ok)

	base := time.Date(2024, 1, 2, 21, 30, 0, 0, time.UTC)
	for i := 0; i < maxHistory+10; i++ {
		h.Add(JobResult{JobName: "x", StartTime: base.Add(time.Duration(i) * time.Hour), Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.Latest(3), 3)
	assert.Equal(t, maxHistory/2, h.Failures())
	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-9)

	lastOK, ok := h.Last(true)
	require.True(t, ok)
	assert.Equal(t, base.Add(time.Duration(maxHistory+8)*time.Hour), lastOK.StartTime)

	lastFail, ok := h.Last(false)
	require.True(t, ok)
	assert.Equal(t, base.Add(time.Duration(maxHistory+9)*time.Hour), lastFail.StartTime)
}
