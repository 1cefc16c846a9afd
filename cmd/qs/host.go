package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qs/internal/config"
	"qs/internal/domain"
	"qs/internal/module"
	"qs/internal/native"
	"qs/internal/trace"
	"qs/internal/typeexpr"
	"qs/internal/types"
)

// host is one command's view of the world: the configuration, a domain with
// the configured modules loaded, and the scope type expressions are read in.
type host struct {
	cfg     config.Config
	domain  *domain.Domain
	native  *native.Module
	scope   *typeexpr.Scope
	tracer  trace.Tracer
	cleanup func()
}

// openHost loads the configuration, sets up tracing and loads the modules.
// The caller must call close.
func openHost(cmd *cobra.Command) (*host, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	tracer, cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return nil, err
	}
	h := &host{cfg: cfg, tracer: tracer, cleanup: cleanup}
	if err := h.load(cmd.Context()); err != nil {
		cleanup()
		return nil, err
	}
	return h, nil
}

func (h *host) close() {
	if h.cleanup != nil {
		h.cleanup()
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	cfg, _, err := config.Discover(wd)
	return cfg, err
}

func (h *host) load(ctx context.Context) error {
	h.domain = domain.New(domain.WithTracer(h.tracer))
	h.scope = typeexpr.NewScope(nil)

	var mods []module.Module
	for _, kind := range h.cfg.Domain.Modules {
		switch kind {
		case "native":
			m, err := native.New(h.cfg.Domain.Namespace)
			if err != nil {
				return err
			}
			h.native = m
			for _, id := range m.IDs().Types() {
				h.scope.DeclareType(id.Last().Name, id)
			}
			mods = append(mods, m)
		default:
			return fmt.Errorf("unknown module kind %q", kind)
		}
	}
	return h.domain.LoadModules(ctx, mods...)
}

// readType reads and evaluates a type expression in the host scope.
func (h *host) readType(text string) (types.TypeValue, error) {
	exps, root, err := typeexpr.Read(text)
	if err != nil {
		return nil, err
	}
	ev := typeexpr.NewEvaluator(exps, h.tracer)
	tv, ok := ev.Eval(root, h.scope)
	if !ok {
		return nil, fmt.Errorf("cannot evaluate %q: unknown name or wrong number of type arguments", text)
	}
	return tv, nil
}

// funcValue turns a member access read as a type, such as List<int>.Add,
// into the function it names on the resolved owner.
func (h *host) funcValue(ctx context.Context, tv types.TypeValue) (types.FuncValue, error) {
	m, ok := tv.(types.Member)
	if !ok {
		return types.FuncValue{}, fmt.Errorf("%s is not a member access", tv)
	}
	owner, err := h.domain.ResolveType(ctx, m.Parent)
	if err != nil {
		return types.FuncValue{}, err
	}
	ot := owner.TypeValue()
	id, err := ot.ID.MakeChild(m.Name, len(m.Args))
	if err != nil {
		return types.FuncValue{}, err
	}
	return types.MakeFunc(id, ot.Args, m.Args), nil
}
