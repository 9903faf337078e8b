// Package compiler drives the module-lowering pass of spec.md §4.9:
// forward-declare every function in a graph.GraphModule, then lower
// each body in turn, producing one llir/llvm IR module plus a debug
// table mapping every node back to its emitted location.
package compiler

import (
	"context"
	"sort"

	"github.com/llir/llvm/ir"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowlang/flc/compiler/llvmgen"
	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/log"
	"github.com/flowlang/flc/nodetype"
	"github.com/flowlang/flc/result"
)

var tracer = otel.Tracer("github.com/flowlang/flc/compiler")

// CompileModule lowers every function of m into irModule, in two
// passes: forward declarations first (so a call to a function
// declared later in the same module still resolves), then bodies, in
// sorted-name order for reproducible output. The returned DebugTable
// lets package debug map an IR location back to the node that
// produced it.
func CompileModule(ctx context.Context, m *graph.GraphModule) (*ir.Module, *nodetype.DebugTable, *result.Result) {
	ctx, span := tracer.Start(ctx, "compiler.CompileModule", trace.WithAttributes(
		attribute.String("module", m.FullName()),
	))
	defer span.End()

	r := result.New()
	irModule := ir.NewModule()
	debug := nodetype.NewDebugTable()

	names := sortedFunctionNames(m)

	_, declareSpan := tracer.Start(ctx, "compiler.declare")
	irFuncs := make(map[string]*ir.Func, len(names))
	for _, name := range names {
		f, _ := m.Function(name)
		mangled := nodetype.MangleFuncName(m.FullName(), name)
		irFuncs[name] = llvmgen.DeclareFunction(irModule, f, mangled)
	}
	declareSpan.End()
	log.Debugf("compiler: declared %d function(s) in module %q", len(names), m.FullName())

	_, lowerSpan := tracer.Start(ctx, "compiler.lower")
	for _, name := range names {
		f, _ := m.Function(name)
		v := graph.Validate(f)
		if !v.Success() {
			log.Warnf("compiler: function %q failed validation: %v", name, v.Err())
			r.Merge(v)
			continue
		}
		r.Merge(llvmgen.LowerBody(irModule, irFuncs[name], f, debug))
	}
	lowerSpan.End()

	if !r.Success() {
		span.RecordError(r.Err())
	}
	return irModule, debug, r
}

func sortedFunctionNames(m *graph.GraphModule) []string {
	names := make([]string, 0, len(m.Functions()))
	for name := range m.Functions() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
