// Package typeexpr turns type expression syntax into type descriptions.
// It works on names and scopes only and never resolves anything through
// the domain.
package typeexpr

import (
	"strconv"

	"qs/internal/ast"
	"qs/internal/trace"
	"qs/internal/types"
)

// Evaluator evaluates the nodes of one TypeExps store. Successful results
// are kept in Results so the analyzer can annotate the nodes afterwards.
// A result is reused only for the scope it was computed in; evaluating a
// node in another scope replaces it.
type Evaluator struct {
	Exps    *ast.TypeExps
	Results map[ast.TypeID]types.TypeValue

	scopes map[ast.TypeID]*Scope
	tracer trace.Tracer
	depth  int
}

func NewEvaluator(exps *ast.TypeExps, tracer trace.Tracer) *Evaluator {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Evaluator{
		Exps:    exps,
		Results: make(map[ast.TypeID]types.TypeValue),
		scopes:  make(map[ast.TypeID]*Scope),
		tracer:  tracer,
	}
}

// Eval returns the description of the node, or false when some name in it
// is not visible. The first failure stops the evaluation; nothing is
// recorded for the failing node or its ancestors.
func (e *Evaluator) Eval(id ast.TypeID, scope *Scope) (types.TypeValue, bool) {
	if !id.IsValid() {
		return nil, false
	}
	if tv, ok := e.Results[id]; ok {
		if e.scopes[id] == scope {
			return tv, true
		}
		delete(e.Results, id)
		delete(e.scopes, id)
	}

	e.depth++
	defer func() { e.depth-- }()

	var span *trace.Span
	if e.tracer.Level() >= trace.LevelDebug && e.depth <= 20 {
		span = trace.Begin(e.tracer, trace.ScopeResolve, "type_exp", 0)
		span.WithExtra("depth", strconv.Itoa(e.depth))
	}

	var tv types.TypeValue
	defer func() {
		if span != nil {
			if tv != nil {
				span.WithExtra("result", tv.String())
			}
			span.End("")
		}
	}()

	switch {
	case e.isKind(id, ast.TypeExpId):
		data, _ := e.Exps.Id(id)
		args, ok := e.evalArgs(data.TypeArgs, scope)
		if !ok {
			return nil, false
		}
		tv, ok = scope.Lookup(data.Name, args)
		if !ok {
			return nil, false
		}
	case e.isKind(id, ast.TypeExpMember):
		data, _ := e.Exps.Member(id)
		parent, ok := e.Eval(data.Parent, scope)
		if !ok {
			return nil, false
		}
		args, ok := e.evalArgs(data.TypeArgs, scope)
		if !ok {
			return nil, false
		}
		tv = types.Member{Parent: parent, Name: data.MemberName, Args: args}
	default:
		return nil, false
	}
	e.Results[id] = tv
	e.scopes[id] = scope
	return tv, true
}

func (e *Evaluator) evalArgs(args []ast.TypeID, scope *Scope) ([]types.TypeValue, bool) {
	if len(args) == 0 {
		return nil, true
	}
	out := make([]types.TypeValue, 0, len(args))
	for _, arg := range args {
		tv, ok := e.Eval(arg, scope)
		if !ok {
			return nil, false
		}
		out = append(out, tv)
	}
	return out, true
}

func (e *Evaluator) isKind(id ast.TypeID, kind ast.TypeExpKind) bool {
	exp := e.Exps.Get(id)
	return exp != nil && exp.Kind == kind
}
