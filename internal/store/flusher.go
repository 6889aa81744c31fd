package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tokito/genka-kanri/internal/model"
)

// Saver persists a dataset and reports success.
type Saver interface {
	Save(ctx context.Context, ds model.Dataset) bool
}

// Flusher collapses scheduled snapshots and writes only the latest one
// after the debounce delay. Each Schedule resets the delay.
type Flusher struct {
	saver   Saver
	delay   time.Duration
	timeout time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	pending *model.Dataset
	version uint64
	timer   *time.Timer
	closed  bool

	// writeMu serializes writes so an older snapshot never lands after a
	// newer one.
	writeMu sync.Mutex
}

func NewFlusher(saver Saver, delay time.Duration, log zerolog.Logger) *Flusher {
	return &Flusher{
		saver:   saver,
		delay:   delay,
		timeout: 30 * time.Second,
		log:     log.With().Str("component", "flusher").Logger(),
	}
}

// Schedule replaces any pending snapshot with ds. It returns false once the
// flusher is closed.
func (f *Flusher) Schedule(ds model.Dataset) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	f.pending = &ds
	f.version++
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.delay, f.fire)
	return true
}

// Pending reports whether a snapshot is waiting to be written.
func (f *Flusher) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending != nil
}

func (f *Flusher) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	f.write(ctx)
}

// Flush writes the pending snapshot now. It returns true when nothing is
// left pending afterwards.
func (f *Flusher) Flush(ctx context.Context) bool {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()

	return f.write(ctx)
}

// Close stops accepting snapshots and flushes what is pending.
func (f *Flusher) Close(ctx context.Context) bool {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	return f.Flush(ctx)
}

func (f *Flusher) write(ctx context.Context) bool {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	snapshot, version := f.pending, f.version
	f.mu.Unlock()
	if snapshot == nil {
		return true
	}

	if !f.saver.Save(ctx, *snapshot) {
		f.log.Warn().Uint64("version", version).Msg("save failed, snapshot kept pending")
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.version == version {
		f.pending = nil
		return true
	}
	return false
}
