package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull indicates the in-memory queue had no room for a job. The
// job is already saved as pending and will run after the next recovery
// pass, so callers may treat this as a deferral rather than a loss.
var ErrQueueFull = errors.New("job queue is full")

// RunnerConfig holds tuning parameters for the Runner.
type RunnerConfig struct {
	// WorkerCount is the number of concurrent workers executing jobs.
	WorkerCount int

	// QueueSize is the capacity of the in-memory job queue.
	QueueSize int

	// StuckJobAge is how long a job may sit in the processing state
	// before the monitor resets it to pending.
	StuckJobAge time.Duration

	// StuckJobCheckInterval is how often the monitor looks for stuck
	// jobs.
	StuckJobCheckInterval time.Duration
}

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// Runner executes jobs on a pool of workers. Jobs are persisted before
// they are queued, and unfinished jobs are reloaded on startup, so a
// restart never silently drops accepted work.
type Runner struct {
	jobStore   JobStore
	registry   *Registry
	jobChan    chan Job
	workerWg   sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	errHandler func(Job, error)
}

// NewRunner creates a Runner backed by the given store and registry.
// Zero config fields fall back to the defaults.
func NewRunner(jobStore JobStore, registry *Registry, config RunnerConfig, logger *slog.Logger) *Runner {
	defaults := DefaultRunnerConfig()
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaults.WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.StuckJobAge <= 0 {
		config.StuckJobAge = defaults.StuckJobAge
	}
	if config.StuckJobCheckInterval <= 0 {
		config.StuckJobCheckInterval = defaults.StuckJobCheckInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		jobStore: jobStore,
		registry: registry,
		jobChan:  make(chan Job, config.QueueSize),
		config:   config,
		logger:   logger.With("component", "job_runner"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetErrorHandler registers a callback invoked after a job fails and its
// status has been recorded.
func (r *Runner) SetErrorHandler(fn func(Job, error)) {
	r.errHandler = fn
}

// Submit persists a job and hands it to the worker pool. When the queue
// is full the job stays pending in the store and ErrQueueFull is
// returned; the next recovery pass will pick it up.
func (r *Runner) Submit(ctx context.Context, j Job) error {
	if err := r.jobStore.SaveJob(ctx, j); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	select {
	case r.jobChan <- j:
		r.logger.Debug("job queued", "job_id", j.ID(), "job_type", j.Type())
		return nil
	default:
		r.logger.Warn("job queue full, deferring to recovery",
			"job_id", j.ID(),
			"job_type", j.Type())
		return ErrQueueFull
	}
}

// Start recovers unfinished jobs, launches the workers, and begins the
// stuck-job monitor. A recovery failure is logged but does not prevent
// the runner from accepting new work.
func (r *Runner) Start() error {
	r.logger.Info("starting job runner",
		"worker_count", r.config.WorkerCount,
		"queue_size", r.config.QueueSize)

	if err := r.Recover(r.ctx); err != nil {
		r.logger.Error("job recovery failed", "error", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.workerWg.Add(1)
		go r.worker(i)
	}
	go r.stuckJobMonitor()

	return nil
}

// Stop cancels in-flight work and waits for the workers to exit. Submit
// must not be called after Stop.
func (r *Runner) Stop() {
	r.logger.Info("stopping job runner")
	r.cancel()
	close(r.jobChan)
	r.workerWg.Wait()
	r.logger.Info("job runner stopped")
}

// Recover reloads unfinished jobs from the store and requeues them.
// Jobs found in the processing state were interrupted by a previous
// shutdown and are reset to pending first.
func (r *Runner) Recover(ctx context.Context) error {
	pending, err := r.jobStore.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending jobs: %w", err)
	}

	processing, err := r.jobStore.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to load processing jobs: %w", err)
	}
	for _, rec := range processing {
		if err := r.jobStore.UpdateJobStatus(ctx, rec.ID, JobStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset interrupted job",
				"job_id", rec.ID,
				"error", err)
			continue
		}
		pending = append(pending, rec)
	}

	requeued := 0
	for _, rec := range pending {
		if r.requeue(ctx, rec) {
			requeued++
		}
	}
	if len(pending) > 0 {
		r.logger.Info("job recovery finished",
			"found", len(pending),
			"requeued", requeued)
	}
	return nil
}

// requeue hydrates a stored record into a runnable job and puts it back
// on the queue. Records whose type has no registered factory are marked
// failed so they do not reload forever.
func (r *Runner) requeue(ctx context.Context, rec JobRecord) bool {
	j, err := r.registry.Hydrate(rec.Type, rec.Payload)
	if err != nil {
		r.logger.Error("failed to hydrate job",
			"job_id", rec.ID,
			"job_type", rec.Type,
			"error", err)
		if updateErr := r.jobStore.UpdateJobStatus(ctx, rec.ID, JobStatusFailed, err.Error()); updateErr != nil {
			r.logger.Error("failed to mark job failed",
				"job_id", rec.ID,
				"error", updateErr)
		}
		return false
	}

	select {
	case r.jobChan <- &recoveredJob{Job: j, id: rec.ID}:
		return true
	default:
		r.logger.Warn("job queue full during recovery, leaving job pending",
			"job_id", rec.ID)
		return false
	}
}

// recoveredJob preserves the persisted ID of a job rebuilt from storage,
// so status updates land on the original row.
type recoveredJob struct {
	Job
	id uuid.UUID
}

func (j *recoveredJob) ID() uuid.UUID {
	return j.id
}

func (r *Runner) worker(id int) {
	defer r.workerWg.Done()
	logger := r.logger.With("worker_id", id)
	logger.Debug("worker started")

	for {
		select {
		case <-r.ctx.Done():
			logger.Debug("worker stopping")
			return
		case j, ok := <-r.jobChan:
			if !ok {
				logger.Debug("job channel closed, worker stopping")
				return
			}
			r.processJob(j)
		}
	}
}

func (r *Runner) processJob(j Job) {
	logger := r.logger.With("job_id", j.ID(), "job_type", j.Type())

	if err := r.jobStore.UpdateJobStatus(r.ctx, j.ID(), JobStatusProcessing, ""); err != nil {
		logger.Error("failed to mark job processing", "error", err)
		return
	}
	logger.Info("processing job")

	if err := j.Execute(r.ctx); err != nil {
		logger.Error("job failed", "error", err)
		if updateErr := r.jobStore.UpdateJobStatus(r.ctx, j.ID(), JobStatusFailed, err.Error()); updateErr != nil {
			logger.Error("failed to mark job failed", "error", updateErr)
		}
		if r.errHandler != nil {
			r.errHandler(j, err)
		}
		return
	}

	if err := r.jobStore.UpdateJobStatus(r.ctx, j.ID(), JobStatusCompleted, ""); err != nil {
		logger.Error("failed to mark job completed", "error", err)
		return
	}
	logger.Info("job completed")
}

// stuckJobMonitor periodically resets jobs that have been processing for
// longer than the configured age. This covers workers that died without
// recording a final status.
func (r *Runner) stuckJobMonitor() {
	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.resetStuckJobs()
		}
	}
}

func (r *Runner) resetStuckJobs() {
	stuck, err := r.jobStore.GetProcessingJobs(r.ctx, r.config.StuckJobAge)
	if err != nil {
		r.logger.Error("failed to check for stuck jobs", "error", err)
		return
	}

	for _, rec := range stuck {
		r.logger.Warn("resetting stuck job",
			"job_id", rec.ID,
			"job_type", rec.Type,
			"stuck_since", rec.UpdatedAt)
		if err := r.jobStore.UpdateJobStatus(r.ctx, rec.ID, JobStatusPending, "Reset after being stuck in processing"); err != nil {
			r.logger.Error("failed to reset stuck job",
				"job_id", rec.ID,
				"error", err)
			continue
		}
		r.requeue(r.ctx, rec)
	}
}
