package trace

import (
	"io"
	"sync"
)

// Recorder stores events in a writer, a ring of the newest events, or
// both. Events that do not pass its level are dropped.
type Recorder struct {
	level  Level
	format Format

	mu   sync.Mutex
	seq  uint64
	w    io.Writer
	ring []Event
	head int
	full bool
}

var _ Tracer = (*Recorder)(nil)

// NewStreamTracer returns a recorder that writes every event to w.
func NewStreamTracer(w io.Writer, level Level, format Format) *Recorder {
	if format == FormatAuto {
		format = FormatText
	}
	return &Recorder{level: level, format: format, w: w}
}

// NewRingTracer returns a recorder that keeps the newest capacity events.
func NewRingTracer(capacity int, level Level) *Recorder {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &Recorder{level: level, format: FormatText, ring: make([]Event, capacity)}
}

// Emit stamps ev with the next sequence number and stores a copy. Write
// errors are dropped.
func (r *Recorder) Emit(ev *Event) {
	if !r.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	stored := *ev
	stored.Seq = r.seq
	if r.w != nil {
		_, _ = r.w.Write(FormatEvent(&stored, r.format))
	}
	if len(r.ring) > 0 {
		r.ring[r.head] = stored
		r.head = (r.head + 1) % len(r.ring)
		r.full = r.full || r.head == 0
	}
}

// Snapshot returns the ring contents, oldest first. It is empty for
// stream-only recorders.
func (r *Recorder) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Event(nil), r.ring[:r.head]...)
	}
	out := make([]Event, 0, len(r.ring))
	out = append(out, r.ring[r.head:]...)
	return append(out, r.ring[:r.head]...)
}

// Dump writes the ring contents to w.
func (r *Recorder) Dump(w io.Writer, format Format) error {
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the writer when it buffers.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the writer when it is closable.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	if c, ok := r.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *Recorder) Level() Level { return r.level }

func (r *Recorder) Enabled() bool { return r.level > LevelOff }
