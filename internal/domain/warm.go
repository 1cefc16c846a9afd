package domain

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"qs/internal/trace"
	"qs/internal/types"
)

// WarmResult reports what a warm-up pass did.
type WarmResult struct {
	Types  int // type descriptions resolved
	Funcs  int // function descriptions resolved
	Failed int // descriptions that did not resolve
}

// WarmStatus is the state a WarmEvent reports.
type WarmStatus uint8

const (
	WarmStarted WarmStatus = iota + 1
	WarmDone
	WarmFailed
)

// WarmEvent reports progress on one description.
type WarmEvent struct {
	Desc   string
	Status WarmStatus
	Err    error
}

// Warm resolves the given descriptions concurrently, at most limit at a time
// (GOMAXPROCS when limit <= 0). It keeps going past individual failures and
// returns them joined; only cancellation of ctx stops it early.
func (d *Domain) Warm(ctx context.Context, typeVals []types.TypeValue, funcVals []types.FuncValue, limit int) (WarmResult, error) {
	return d.WarmNotify(ctx, typeVals, funcVals, limit, nil)
}

// WarmNotify is Warm with a progress callback. notify may be called from
// several goroutines at once.
func (d *Domain) WarmNotify(ctx context.Context, typeVals []types.TypeValue, funcVals []types.FuncValue, limit int, notify func(WarmEvent)) (WarmResult, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if notify == nil {
		notify = func(WarmEvent) {}
	}
	tr := d.tracerFor(ctx)
	span := trace.Begin(tr, trace.ScopeHost, "warm", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	var (
		mu       sync.Mutex
		res      WarmResult
		failures []error
	)
	record := func(desc string, err error, isType bool) {
		mu.Lock()
		switch {
		case err != nil:
			res.Failed++
			failures = append(failures, fmt.Errorf("warm %s: %w", desc, err))
		case isType:
			res.Types++
		default:
			res.Funcs++
		}
		mu.Unlock()
		if err != nil {
			notify(WarmEvent{Desc: desc, Status: WarmFailed, Err: err})
		} else {
			notify(WarmEvent{Desc: desc, Status: WarmDone})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, tv := range typeVals {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			desc := tv.String()
			notify(WarmEvent{Desc: desc, Status: WarmStarted})
			_, err := d.ResolveType(gctx, tv)
			record(desc, err, true)
			return nil
		})
	}
	for _, fv := range funcVals {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			desc := fv.String()
			notify(WarmEvent{Desc: desc, Status: WarmStarted})
			_, err := d.GetFuncInst(gctx, fv)
			record(desc, err, false)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End("cancelled")
		return res, err
	}

	span.WithExtra("types", strconv.Itoa(res.Types)).
		WithExtra("funcs", strconv.Itoa(res.Funcs)).
		WithExtra("failed", strconv.Itoa(res.Failed)).
		End("")
	return res, errors.Join(failures...)
}
