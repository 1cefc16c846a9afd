package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qs/internal/config"
	"qs/internal/trace"
)

// setupTracing builds the tracer from cfg, with any trace flags set on the
// command line taking precedence, and attaches it to the command context.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, func(), error) {
	flags := cmd.Root().PersistentFlags()

	output := cfg.TraceOutputPath()
	levelStr := cfg.Trace.Level
	modeStr := cfg.Trace.Mode
	ringSize := cfg.Trace.RingSize

	if flags.Changed("trace") {
		v, err := flags.GetString("trace")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
		output = v
		// An explicit output with no level means the user wants something.
		if !flags.Changed("trace-level") && levelStr == "off" {
			levelStr = "phase"
		}
	}
	if flags.Changed("trace-level") {
		v, err := flags.GetString("trace-level")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		levelStr = v
	}
	if flags.Changed("trace-mode") {
		v, err := flags.GetString("trace-mode")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
		modeStr = v
	}
	if flags.Changed("trace-ring-size") {
		v, err := flags.GetInt("trace-ring-size")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
		ringSize = v
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}
