package trace

import (
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is an open begin/end pair. A disabled span has id 0 and every method
// on it is a no-op, so callers never check whether tracing is on.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

var disabled = &Span{t: Nop}

// Begin opens a span under parent (0 for a root) and emits its begin
// event. It returns the shared disabled span when t would drop the event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(KindSpanBegin, scope) {
		return disabled
	}
	s := &Span{
		t:       t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(&Event{Time: s.started, Kind: KindSpanBegin, Scope: scope, SpanID: s.id, ParentID: parent, Name: name})
	return s
}

// End emits the end event with an outcome detail and returns the span's
// duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	now := time.Now()
	s.t.Emit(&Event{
		Time:     now,
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
	})
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID is 0 for disabled spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	emitInstant(t, KindPoint, scope, name, detail)
}

// Error records err under name. The caller still owns and returns err.
func Error(t Tracer, scope Scope, name string, err error) {
	if err != nil {
		emitInstant(t, KindError, scope, name, err.Error())
	}
}

func emitInstant(t Tracer, kind Kind, scope Scope, name, detail string) {
	if t == nil || !t.Enabled() {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: kind, Scope: scope, Name: name, Detail: detail})
}
