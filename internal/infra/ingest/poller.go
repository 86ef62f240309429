// Package ingest drives the asynchronous knowledge-ingestion lifecycle:
// after a submit call returns a job id, the poller reads the status
// endpoint at a fixed interval until the job reaches a terminal state or
// the wait budget runs out. The state machine is
// Submitted -> Polling -> {Succeeded, Failed, TimedOut}.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fengshao1227/woerk-rag-sub001/internal/domain"
	"github.com/fengshao1227/woerk-rag-sub001/internal/infra/telemetry"
)

// StatusReader reads the backend's view of an ingestion job.
type StatusReader interface {
	IngestStatus(ctx context.Context, jobID string) (domain.IngestJob, error)
}

type Poller struct {
	reader   StatusReader
	interval time.Duration
	maxWait  time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *zap.Logger
	metrics  domain.Metrics
}

type Options struct {
	Reader   StatusReader
	Interval time.Duration
	MaxWait  time.Duration
	Now      func() time.Time
	Sleep    func(ctx context.Context, d time.Duration) error
	Logger   *zap.Logger
	Metrics  domain.Metrics
}

func New(opts Options) *Poller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = contextSleep
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = domain.DefaultPollIntervalSeconds * time.Second
	}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = domain.DefaultMaxWaitSeconds * time.Second
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Poller{
		reader:   opts.Reader,
		interval: interval,
		maxWait:  maxWait,
		now:      now,
		sleep:    sleep,
		logger:   logger.Named("ingest"),
		metrics:  metrics,
	}
}

// Await blocks until the job reaches a terminal status or the wait budget
// is exhausted; the elapsed time never exceeds the budget. On timeout the
// remote job is not canceled and may still complete; the returned error
// says so explicitly.
func (p *Poller) Await(ctx context.Context, jobID string) (domain.IngestJob, error) {
	const op = "ingest.Await"
	if jobID == "" {
		return domain.IngestJob{}, domain.E(domain.CodeInvalidArgument, op, "job id must not be empty", nil)
	}

	deadline := p.now().Add(p.maxWait)
	polls := 0
	for {
		// Checked before sleeping so the last interval never overshoots
		// the budget.
		if p.now().Add(p.interval).After(deadline) {
			p.metrics.ObserveIngestPoll("timeout")
			p.logger.Warn("ingestion wait budget exhausted",
				zap.String("job_id", jobID),
				zap.Int("polls", polls),
				zap.Duration("max_wait", p.maxWait),
			)
			return domain.IngestJob{}, &domain.Error{
				Code: domain.CodeDeadlineExceeded,
				Op:   op,
				Message: fmt.Sprintf(
					"ingestion job %s did not finish within %s; the job may still complete on the backend, no cancellation was issued",
					jobID, p.maxWait),
				Meta: map[string]string{"job_id": jobID},
			}
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			p.metrics.ObserveIngestPoll("canceled")
			return domain.IngestJob{}, domain.E(domain.CodeNetwork, op, "polling interrupted", err)
		}

		job, err := p.reader.IngestStatus(ctx, jobID)
		if err != nil {
			p.metrics.ObserveIngestPoll("error")
			return domain.IngestJob{}, domain.Wrap(domain.CodeRemote, op, err)
		}
		polls++

		switch job.Status {
		case domain.IngestSucceeded:
			p.metrics.ObserveIngestPoll("succeeded")
			p.logger.Debug("ingestion succeeded", zap.String("job_id", jobID), zap.Int("polls", polls))
			return job, nil
		case domain.IngestFailed:
			p.metrics.ObserveIngestPoll("failed")
			message := job.Error
			if message == "" {
				message = "ingestion failed"
			}
			return domain.IngestJob{}, &domain.Error{
				Code:    domain.CodeRemote,
				Op:      op,
				Message: message,
				Meta:    map[string]string{"job_id": jobID},
			}
		case domain.IngestPending, domain.IngestRunning:
			p.metrics.ObserveIngestPoll("pending")
		default:
			p.metrics.ObserveIngestPoll("unknown")
			p.logger.Warn("unknown ingestion status", zap.String("job_id", jobID), zap.String("status", string(job.Status)))
		}
	}
}

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
