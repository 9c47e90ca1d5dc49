package logger

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/stackrender/internal/ports"
)

const defaultBufferLimit = 1000

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

type bufferedEntry struct {
	ctx    context.Context
	level  level
	msg    string
	fields []interface{}
}

// Buffer holds log entries while the terminal is owned by a full screen
// program. The oldest entries are dropped once limit is reached.
type Buffer struct {
	mu      sync.Mutex
	limit   int
	entries []bufferedEntry
	dropped int
}

// NewBuffer creates a buffer with the provided capacity (defaults to 1000).
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = defaultBufferLimit
	}
	return &Buffer{
		limit:   limit,
		entries: make([]bufferedEntry, 0, limit),
	}
}

func (b *Buffer) add(entry bufferedEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) == b.limit {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = entry
		b.dropped++
		return
	}
	b.entries = append(b.entries, entry)
}

// Len returns the number of pending entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Flush replays pending entries on delegate in order and empties the buffer.
func (b *Buffer) Flush(delegate ports.Logger) {
	if delegate == nil {
		return
	}
	b.mu.Lock()
	entries := make([]bufferedEntry, len(b.entries))
	copy(entries, b.entries)
	dropped := b.dropped
	b.entries = b.entries[:0]
	b.dropped = 0
	b.mu.Unlock()

	if dropped > 0 {
		delegate.Warn(context.Background(), "log buffer overflowed", "dropped", dropped)
	}
	for _, e := range entries {
		switch e.level {
		case levelDebug:
			delegate.Debug(e.ctx, e.msg, e.fields...)
		case levelWarn:
			delegate.Warn(e.ctx, e.msg, e.fields...)
		case levelError:
			delegate.Error(e.ctx, e.msg, e.fields...)
		default:
			delegate.Info(e.ctx, e.msg, e.fields...)
		}
	}
}

// Buffered implements ports.Logger by recording into a Buffer.
type Buffered struct {
	buffer *Buffer
	fields []interface{}
}

var _ ports.Logger = (*Buffered)(nil)

// NewBuffered returns a logger that stores entries in buffer.
func NewBuffered(buffer *Buffer) *Buffered {
	return &Buffered{buffer: buffer}
}

// Debug records a debug message.
func (l *Buffered) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.record(ctx, levelDebug, msg, fields)
}

// Info records an info message.
func (l *Buffered) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.record(ctx, levelInfo, msg, fields)
}

// Warn records a warning.
func (l *Buffered) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.record(ctx, levelWarn, msg, fields)
}

// Error records an error.
func (l *Buffered) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.record(ctx, levelError, msg, fields)
}

// With returns a child logger sharing the buffer.
func (l *Buffered) With(fields ...interface{}) ports.Logger {
	next := append(append([]interface{}{}, l.fields...), fields...)
	return &Buffered{buffer: l.buffer, fields: next}
}

func (l *Buffered) record(ctx context.Context, lvl level, msg string, fields []interface{}) {
	if l == nil || l.buffer == nil {
		return
	}
	l.buffer.add(bufferedEntry{
		ctx:    ctx,
		level:  lvl,
		msg:    msg,
		fields: append(append([]interface{}{}, l.fields...), fields...),
	})
}
