package scheduler

import (
	"context"
	"time"

	"tiktok-bulk-scheduler/internal/model"
	"tiktok-bulk-scheduler/internal/report"
)

// VideoPoster uploads and schedules a single video, returning the
// platform post id. Satisfied by tiktok.Uploader.
type VideoPoster interface {
	Post(ctx context.Context, req model.PostRequest) (string, error)
}

// Scheduler walks the request list in input order, one request at a
// time, and collects every outcome. A failure never halts the run.
type Scheduler struct {
	poster   VideoPoster
	reporter *report.Reporter
	delay    time.Duration

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration)
}

// New builds a Scheduler with the given inter-request pacing delay.
func New(poster VideoPoster, reporter *report.Reporter, delay time.Duration) *Scheduler {
	return &Scheduler{
		poster:   poster,
		reporter: reporter,
		delay:    delay,
		sleep:    sleepContext,
	}
}

// Run processes every request sequentially and returns the summary.
// The pacing delay applies between consecutive requests, never after
// the last one. Cancelling ctx cuts the current pause short; results
// collected so far remain in the summary.
func (s *Scheduler) Run(ctx context.Context, reqs []model.PostRequest) *model.RunSummary {
	sum := &model.RunSummary{}

	for i, req := range reqs {
		s.reporter.Starting(i+1, len(reqs), req)

		postID, err := s.poster.Post(ctx, req)
		res := model.PostResult{Request: req, PostID: postID, Err: err}
		sum.Add(res)
		s.reporter.Finished(res)

		if i < len(reqs)-1 && s.delay > 0 {
			if ctx.Err() != nil {
				continue
			}
			s.reporter.Waiting(s.delay)
			s.sleep(ctx, s.delay)
		}
	}

	s.reporter.Summary(sum)
	return sum
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
