package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

type Handler func(ctx context.Context, event Event) error

// Publisher emits events without waiting for delivery.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Config struct {
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

type dispatchJob struct {
	ctx     context.Context
	event   Event
	handler Handler
}

type worker struct {
	id         int
	workerPool chan chan dispatchJob
	jobChannel chan dispatchJob
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan dispatchJob, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan dispatchJob),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, processFunc func(dispatchJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.workerPool <- w.jobChannel:
			case <-ctx.Done():
				return
			}

			select {
			case job := <-w.jobChannel:
				processFunc(job)
			case <-ctx.Done():
				w.logger.Debug("event worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

type EventBus struct {
	handlers map[string][]Handler
	logger   *slog.Logger
	mu       sync.RWMutex

	jobQueue   chan dispatchJob
	workerPool chan chan dispatchJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
	closeOnce  sync.Once
}

func NewEventBus(logger *slog.Logger, config Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	eb := &EventBus{
		handlers:   make(map[string][]Handler),
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan dispatchJob, jobQueueSize),
		workerPool: make(chan chan dispatchJob, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}
	eb.startWorkerPool()

	return eb
}

func (eb *EventBus) startWorkerPool() {
	eb.once.Do(func() {
		for i := 0; i < eb.maxWorkers; i++ {
			w := newWorker(i, eb.workerPool, eb.logger)
			w.start(eb.ctx, &eb.wg, eb.runHandler)
		}

		eb.wg.Add(1)
		go eb.dispatch()

		eb.logger.Info("event bus worker pool started",
			"max_workers", eb.maxWorkers,
			"queue_size", cap(eb.jobQueue))
	})
}

func (eb *EventBus) dispatch() {
	defer eb.wg.Done()

	for {
		select {
		case job := <-eb.jobQueue:
			select {
			case jobChannel := <-eb.workerPool:
				select {
				case jobChannel <- job:
				case <-eb.ctx.Done():
					return
				}
			case <-eb.ctx.Done():
				return
			}
		case <-eb.ctx.Done():
			eb.logger.Info("event dispatcher shutting down")
			return
		}
	}
}

func (eb *EventBus) runHandler(job dispatchJob) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error("event handler panicked",
				"event_type", job.event.EventType(),
				"event_id", job.event.EventID(),
				"panic", r)
		}
	}()

	if err := job.handler(job.ctx, job.event); err != nil {
		eb.logger.Error("event handler failed",
			"event_type", job.event.EventType(),
			"event_id", job.event.EventID(),
			"error", err)
	}
}

func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Info("event handler registered",
		"event_type", eventType,
		"total_handlers", len(eb.handlers[eventType]))
}

func (eb *EventBus) handlersFor(eventType string) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.handlers[eventType]
}

// Publish queues one job per handler and returns immediately. Handlers run
// detached from the caller's cancellation; their failures are only logged.
// A full queue drops the event rather than blocking the caller.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	handlers := eb.handlersFor(event.EventType())
	if len(handlers) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}

	eb.logger.Info("publishing event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers_count", len(handlers))

	detached := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		select {
		case eb.jobQueue <- dispatchJob{ctx: detached, event: event, handler: handler}:
		case <-eb.ctx.Done():
			eb.logger.Warn("event bus stopped, dropping event",
				"event_type", event.EventType(),
				"event_id", event.EventID())
			return nil
		default:
			eb.logger.Warn("event queue full, dropping event",
				"event_type", event.EventType(),
				"event_id", event.EventID())
		}
	}

	return nil
}

func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	handlers := eb.handlersFor(event.EventType())
	if len(handlers) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}

	eb.logger.Info("publishing event synchronously",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers_count", len(handlers))

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			eb.logger.Error("event handler failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
			return fmt.Errorf("handler failed for event %s: %w", event.EventType(), err)
		}
	}

	return nil
}

// Shutdown stops the workers. Jobs still queued are discarded.
func (eb *EventBus) Shutdown() {
	eb.closeOnce.Do(func() {
		eb.logger.Info("shutting down event bus")
		eb.cancel()
		eb.wg.Wait()
		eb.logger.Info("event bus shutdown complete")
	})
}
