package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"readingquest/internal/models"
)

// progressSaver is the write side of the gateway
type progressSaver interface {
	SaveProgress(ctx context.Context, userID string, snapshot *models.ProgressRecord) error
}

type saveJob struct {
	userID   string
	snapshot models.ProgressRecord
}

// SaveDispatcher runs fire-and-forget progress saves on a fixed pool of
// workers. Saves are never awaited by the caller; failures are logged.
type SaveDispatcher struct {
	saver   progressSaver
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	jobs   chan saveJob
	wg     sync.WaitGroup
}

// SaveDispatcherOptions sizes the pool. A zero Timeout leaves saves bounded
// only by the store's own connection settings.
type SaveDispatcherOptions struct {
	Workers int
	Queue   int
	Timeout time.Duration
}

// NewSaveDispatcher starts the workers
func NewSaveDispatcher(saver progressSaver, logger *slog.Logger, opts SaveDispatcherOptions) *SaveDispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	d := &SaveDispatcher{
		saver:   saver,
		logger:  logger,
		timeout: opts.Timeout,
		jobs:    make(chan saveJob, max(opts.Queue, 0)),
	}

	for i := range opts.Workers {
		d.wg.Add(1)
		go d.worker(i + 1)
	}
	logger.Debug("save dispatcher started", "workers", opts.Workers, "queue", opts.Queue)
	return d
}

func (d *SaveDispatcher) worker(id int) {
	defer d.wg.Done()
	for job := range d.jobs {
		ctx, cancel := d.jobContext()
		start := time.Now()
		err := d.saver.SaveProgress(ctx, job.userID, &job.snapshot)
		cancel()
		if err != nil {
			d.logger.Warn("background save failed",
				"worker_id", id,
				"user_id", job.userID,
				"game_type", job.snapshot.GameType,
				"err", err)
			continue
		}
		d.logger.Debug("background save completed",
			"worker_id", id,
			"game_type", job.snapshot.GameType,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func (d *SaveDispatcher) jobContext() (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d.timeout)
}

// Dispatch queues a save and returns immediately. It reports false when
// the queue is full or the dispatcher is closed; the save is then dropped.
func (d *SaveDispatcher) Dispatch(userID string, snapshot models.ProgressRecord) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.jobs <- saveJob{userID: userID, snapshot: snapshot}:
		return true
	default:
		d.logger.Warn("save queue is full, dropping save", "user_id", userID, "game_type", snapshot.GameType)
		return false
	}
}

// Close stops accepting saves and waits for queued ones to finish
func (d *SaveDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
