package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop drops everything.
var Nop Tracer = nopTracer{}

// StorageMode selects where a recorder keeps events.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write each event as it happens
	ModeRing                          // keep the newest events in memory
	ModeBoth
)

var modeNames = map[string]StorageMode{"": ModeStream, "stream": ModeStream, "ring": ModeRing, "both": ModeBoth}

func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	}
	return "unknown"
}

// ParseMode reads a storage mode name; the empty string is ModeStream.
func ParseMode(s string) (StorageMode, error) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
	}
	return m, nil
}

const defaultRingSize = 4096

// Config describes a tracer. Output wins over OutputPath; an OutputPath of
// "" or "-" is stderr.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer
	OutputPath string
	RingSize   int
}

// New builds the tracer cfg describes. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
	}

	r := &Recorder{level: cfg.Level, format: format}
	switch cfg.Mode {
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		r.w = w
		if cfg.Mode == ModeBoth {
			r.ring = make([]Event, cfg.RingSize)
		}
	case ModeRing:
		r.ring = make([]Event, cfg.RingSize)
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
	return r, nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return stderr{}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// stderr is os.Stderr without Close.
type stderr struct{}

func (stderr) Write(p []byte) (int, error) { return os.Stderr.Write(p) }
