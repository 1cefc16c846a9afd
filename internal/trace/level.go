package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level controls how much is recorded.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // failures only
	LevelPhase               // ScopeHost
	LevelDetail              // up to ScopeModule
	LevelDebug               // everything
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a level name; the empty string is LevelOff.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	i := slices.Index(levelNames, s)
	if i < 0 {
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
	}
	return Level(i), nil
}

// finest is the finest scope l admits. Errors are admitted separately.
func (l Level) finest() Scope {
	switch l {
	case LevelPhase:
		return ScopeHost
	case LevelDetail:
		return ScopeModule
	case LevelDebug:
		return ScopeCall
	default:
		return 0
	}
}

// ShouldEmit reports whether an event passes l. Errors pass every level
// except LevelOff.
func (l Level) ShouldEmit(kind Kind, scope Scope) bool {
	if l == LevelOff {
		return false
	}
	return kind == KindError || scope <= l.finest()
}
