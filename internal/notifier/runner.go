package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RunnerConfig holds configuration for the notification runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers deliver messages.
	WorkerCount int

	// QueueSize determines the buffer size of the in-memory message queue.
	// When the queue is full, further messages are dropped (and logged),
	// never blocked on.
	QueueSize int

	// SendTimeout bounds a single delivery attempt.
	SendTimeout time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   64,
		SendTimeout: 10 * time.Second,
	}
}

// Runner delivers queued notifications through a Mailer using a small
// worker pool.
type Runner struct {
	mailer     Mailer
	msgChan    chan Message
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewRunner creates a Runner delivering through the given mailer.
func NewRunner(mailer Mailer, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 1
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		mailer:     mailer,
		msgChan:    make(chan Message, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With("component", "notifier"),
	}
}

// Start launches the worker pool. Safe to call once; later calls are no-ops.
func (r *Runner) Start() {
	r.startOnce.Do(func() {
		for i := 0; i < r.config.WorkerCount; i++ {
			r.wg.Add(1)
			go r.worker(i)
		}
		r.logger.Debug("notification workers started",
			"worker_count", r.config.WorkerCount,
			"queue_size", r.config.QueueSize)
	})
}

// Stop drains no further messages and waits for in-flight deliveries.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.cancelFunc()
		r.wg.Wait()
		r.logger.Debug("notification workers stopped")
	})
}

// Submit queues a message for delivery. It never blocks: when the queue is
// full or the runner is stopped the message is dropped with a log line,
// because notifications must never back-pressure a request.
func (r *Runner) Submit(msg Message) {
	select {
	case <-r.ctx.Done():
		r.logger.Warn("notification dropped, runner stopped",
			"subject", msg.Subject)
	case r.msgChan <- msg:
	default:
		r.logger.Warn("notification dropped, queue full",
			"subject", msg.Subject)
	}
}

func (r *Runner) worker(id int) {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case msg := <-r.msgChan:
			sendCtx, cancel := context.WithTimeout(context.Background(), r.config.SendTimeout)
			err := r.mailer.Send(sendCtx, msg)
			cancel()

			if err != nil {
				r.logger.Error("failed to deliver notification",
					"error", err,
					"worker", id,
					"subject", msg.Subject)
				continue
			}
			r.logger.Debug("notification delivered",
				"worker", id,
				"subject", msg.Subject)
		}
	}
}
