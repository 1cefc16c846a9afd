package trace

import "time"

// Kind is what an Event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindError
)

var kindNames = [...]string{"", "begin", "end", "point", "error"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && k != 0 {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is how coarse an event is; lower values are coarser. Levels admit
// scopes up to a limit.
type Scope uint8

const (
	ScopeHost    Scope = iota + 1 // host commands and warm-up runs
	ScopeModule                   // module registration and load hooks
	ScopeResolve                  // one type or function resolution
	ScopeCall                     // native invocations and sequence pulls
)

var scopeNames = [...]string{"", "host", "module", "resolve", "call"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && s != 0 {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Seq is stamped by the recorder that stores it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64 // zero for points and errors
	ParentID uint64
	Name     string // e.g. "load:System", "type:System.List<System.int>"
	Detail   string
	Extra    map[string]string
}
