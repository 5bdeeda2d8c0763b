// Package worker contains the background job pipeline that scores a paid
// session's responses, renders the blueprint narrative, persists the result,
// and sends the delivery email. It is intentionally decoupled from the HTTP
// layer: the api package holds a worker.Enqueuer interface and calls Enqueue —
// it never imports the concrete Runner or Job types.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/evergrowthhq/blueprint-backend/internal/db"
	"github.com/evergrowthhq/blueprint-backend/internal/store"
)

// ─── ENQUEUER INTERFACE ───────────────────────────────────────────────────────

// Enqueuer is the narrow interface the api package uses to hand off work after
// a payment is confirmed. Keeping it here (not in api/) means api/ does not
// need to import worker/.
//
// The concrete implementation is *Runner. In tests, any struct with an Enqueue
// method satisfies the interface.
type Enqueuer interface {
	Enqueue(ctx context.Context, blueprintID uuid.UUID) error
}

// ─── METRICS ─────────────────────────────────────────────────────────────────

var jobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "blueprint_jobs_total",
		Help: "Scoring jobs by outcome.",
	},
	[]string{"outcome"}, // completed | retried | failed
)

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. All fields have
// sensible defaults if zero-valued; call DefaultRunnerConfig() to get them.
type RunnerConfig struct {
	// Workers is the number of concurrent job goroutines. Default: 3.
	Workers int

	// PollInterval is how often the fallback poller checks
	// ListPendingBlueprints for jobs that were missed by the in-process
	// channel (e.g. after a crash or restart). Default: 30s.
	PollInterval time.Duration

	// JobTimeout is the per-job context deadline. Default: 1 minute — the
	// pipeline is pure computation plus a handful of database round-trips.
	JobTimeout time.Duration

	// MaxRetries is the number of times a job is retried before the blueprint
	// is marked as permanently failed. Default: 3.
	MaxRetries int
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:      3,
		PollInterval: 30 * time.Second,
		JobTimeout:   time.Minute,
		MaxRetries:   3,
	}
}

// jobRunner is what the retry loop drives. *Job in production; tests inject a
// failing stub.
type jobRunner interface {
	Run(ctx context.Context, blueprintID uuid.UUID) error
}

// failureStore is the slice of store the Runner needs for terminal failures.
type failureStore interface {
	MarkBlueprintFailed(ctx context.Context, blueprintID uuid.UUID, reason string) (db.Blueprint, error)
}

// Runner manages a pool of worker goroutines. It accepts jobs via an in-process
// channel (fast path, used for new payments) and also polls the database
// periodically to pick up any blueprints that were in-flight when the process
// last restarted (recovery path).
type Runner struct {
	job    jobRunner
	store  failureStore
	q      db.Querier
	cfg    RunnerConfig
	logger *slog.Logger

	queue chan uuid.UUID
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start() to begin processing.
func NewRunner(
	job *Job,
	st *store.Store,
	q db.Querier,
	cfg RunnerConfig,
	logger *slog.Logger,
) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultRunnerConfig().Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultRunnerConfig().PollInterval
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultRunnerConfig().JobTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultRunnerConfig().MaxRetries
	}

	return &Runner{
		job:    job,
		store:  st,
		q:      q,
		cfg:    cfg,
		logger: logger,
		// Buffer = Workers*2 so Enqueue never blocks under normal load.
		queue: make(chan uuid.UUID, cfg.Workers*2),
	}
}

// Enqueue pushes a blueprintID onto the in-process channel. It satisfies the
// Enqueuer interface. If the channel is full (very unlikely given the buffer
// sizing) it returns an error rather than blocking the HTTP response.
func (r *Runner) Enqueue(_ context.Context, blueprintID uuid.UUID) error {
	select {
	case r.queue <- blueprintID:
		r.logger.Info("worker: enqueued blueprint", "blueprint_id", blueprintID)
		return nil
	default:
		return errors.New("worker: queue is full, blueprint will be picked up by poller")
	}
}

// Start launches the worker pool and the fallback poller. It blocks until ctx
// is cancelled. Call it in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers, "poll_interval", r.cfg.PollInterval)

	// Launch worker goroutines.
	for i := range r.cfg.Workers {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	// Launch fallback poller.
	r.wg.Add(1)
	go r.poll(ctx)

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

// work is the inner loop for each worker goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)
	log.Info("worker: goroutine started")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker: goroutine stopping")
			return
		case blueprintID := <-r.queue:
			r.runWithRetry(ctx, blueprintID, log)
		}
	}
}

// poll queries the database on PollInterval for any draft/processing
// blueprints that were not delivered via the channel (e.g. blueprints from
// before a restart).
func (r *Runner) poll(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	// Run once immediately on startup to pick up anything from before restart.
	r.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce(ctx)
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	blueprints, err := r.q.ListPendingBlueprints(ctx)
	if err != nil {
		r.logger.Error("worker: poll failed", "error", err)
		return
	}
	for _, bp := range blueprints {
		select {
		case r.queue <- bp.ID:
			r.logger.Debug("worker: poller enqueued blueprint", "blueprint_id", bp.ID)
		default:
			// Queue full — will be picked up next poll cycle.
		}
	}
}

// runWithRetry executes the job up to MaxRetries times. After exhausting
// retries it calls store.MarkBlueprintFailed so the blueprint is not picked up
// again.
func (r *Runner) runWithRetry(ctx context.Context, blueprintID uuid.UUID, log *slog.Logger) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
		lastErr = r.job.Run(jobCtx, blueprintID)
		cancel()

		if lastErr == nil {
			log.Info("worker: job completed", "blueprint_id", blueprintID, "attempt", attempt)
			jobsTotal.WithLabelValues("completed").Inc()
			return
		}

		log.Warn("worker: job attempt failed",
			"blueprint_id", blueprintID,
			"attempt", attempt,
			"max", r.cfg.MaxRetries,
			"error", lastErr,
		)

		if attempt < r.cfg.MaxRetries {
			jobsTotal.WithLabelValues("retried").Inc()
			// Exponential back-off: 2s, 4s, 8s …
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}
	}

	// All retries exhausted — mark the blueprint permanently failed.
	log.Error("worker: job permanently failed", "blueprint_id", blueprintID, "error", lastErr)
	jobsTotal.WithLabelValues("failed").Inc()
	failCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := r.store.MarkBlueprintFailed(failCtx, blueprintID, lastErr.Error()); err != nil {
		log.Error("worker: failed to mark blueprint as failed", "blueprint_id", blueprintID, "error", err)
	}
}
