package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qs/internal/domain"
	"qs/internal/types"
	"qs/internal/ui"
)

type warmOutcome struct {
	result domain.WarmResult
	err    error
}

// runWarmWithUI warms d while a progress view renders the events. Quitting
// the view cancels the warm-up.
func runWarmWithUI(ctx context.Context, d *domain.Domain, typeVals []types.TypeValue, funcVals []types.FuncValue, limit int) (domain.WarmResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan domain.WarmEvent, 256)
	outcomeCh := make(chan warmOutcome, 1)

	go func() {
		res, err := d.WarmNotify(ctx, typeVals, funcVals, limit, func(ev domain.WarmEvent) {
			events <- ev
		})
		outcomeCh <- warmOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("warming instances", len(typeVals)+len(funcVals), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	final, uiErr := program.Run()
	if uiErr != nil || ui.Interrupted(final) {
		cancel()
	}
	// The view may stop reading early; keep the producer unblocked.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
