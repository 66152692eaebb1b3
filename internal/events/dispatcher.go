// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Dispatcher is a Bus backed by a bounded queue drained by worker goroutines.
// Each event is delivered to every subscriber registered at delivery time.
type Dispatcher struct {
	logger  *slog.Logger
	queue   chan Event
	workers int

	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool

	subMu  sync.RWMutex
	nextID int
	subs   map[int]Handler
}

// Config holds dispatcher configuration.
type Config struct {
	Workers   int // Number of concurrent delivery workers
	QueueSize int // Pending events before Publish starts dropping
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Workers:   2,
		QueueSize: 100,
	}
}

// NewDispatcher creates a new event dispatcher. Call Start before publishing.
func NewDispatcher(logger *slog.Logger, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		logger:  logger,
		queue:   make(chan Event, cfg.QueueSize),
		workers: cfg.Workers,
		done:    make(chan struct{}),
		subs:    make(map[int]Handler),
	}
}

// Start starts the dispatcher workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.logger.Info("starting event dispatcher", "workers", d.workers)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop stops the dispatcher, delivers what is already queued and waits for
// workers to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	d.logger.Info("stopping event dispatcher")
	close(d.done)
	d.wg.Wait()
	d.logger.Info("event dispatcher stopped")
}

// Subscribe implements Bus.
func (d *Dispatcher) Subscribe(h Handler) func() {
	d.subMu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = h
	d.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.subMu.Lock()
			delete(d.subs, id)
			d.subMu.Unlock()
		})
	}
}

// Publish implements Bus. It never blocks: when the queue is full or the
// dispatcher is not running the event is dropped with a warning.
func (d *Dispatcher) Publish(_ context.Context, e Event) {
	d.mu.RLock()
	running := d.running
	d.mu.RUnlock()

	if !running {
		d.logger.Warn("dispatcher not running, dropping event", "event_type", e.Type)
		return
	}

	select {
	case d.queue <- e:
		d.logger.Debug("event queued", "event_type", e.Type)
	default:
		d.logger.Warn("event queue full, dropping event", "event_type", e.Type)
	}
}

// worker processes queued events.
func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	d.logger.Debug("event worker started", "worker_id", id)

	for {
		select {
		case <-d.done:
			d.drain(ctx)
			d.logger.Debug("event worker stopping", "worker_id", id)
			return
		case <-ctx.Done():
			d.logger.Debug("event worker context cancelled", "worker_id", id)
			return
		case e := <-d.queue:
			d.deliver(ctx, e)
		}
	}
}

// drain delivers events still queued at shutdown.
func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case e := <-d.queue:
			d.deliver(ctx, e)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e Event) {
	d.subMu.RLock()
	handlers := make([]Handler, 0, len(d.subs))
	for _, h := range d.subs {
		handlers = append(handlers, h)
	}
	d.subMu.RUnlock()

	for _, h := range handlers {
		if err := d.invoke(ctx, h, e); err != nil {
			d.logger.Error("event subscriber failed", "error", err, "event_type", e.Type)
		}
	}
}

// invoke runs a subscriber and turns a panic into an error.
func (d *Dispatcher) invoke(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	return h(ctx, e)
}

// LogSubscriber returns a Handler that logs every event at debug level.
func LogSubscriber(logger *slog.Logger) Handler {
	return func(_ context.Context, e Event) error {
		logger.Debug("event", "event_type", e.Type, "data", e.Data)
		return nil
	}
}
