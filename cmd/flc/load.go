package main

import (
	"context"
	"fmt"
	"os"

	"github.com/llir/llvm/ir"

	"github.com/flowlang/flc/chimod"
	"github.com/flowlang/flc/compiler"
	"github.com/flowlang/flc/graph"
	"github.com/flowlang/flc/modreg"
	"github.com/flowlang/flc/nodetype"
)

// loadAndCompile reads a .chimod document from path, reconstructs its
// GraphModule under (fullName, shortName) and lowers every function in
// it. Returned errors already carry enough context to print directly
// to stderr.
func loadAndCompile(ctx context.Context, path, fullName, shortName string) (*graph.GraphModule, *ir.Module, *nodetype.DebugTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	mctx := modreg.NewContext()
	m, r := chimod.Load(mctx, fullName, shortName, raw)
	if !r.Success() {
		return nil, nil, nil, fmt.Errorf("loading %s: %v", path, r.Entries())
	}

	irModule, debug, r2 := compiler.CompileModule(ctx, m)
	if !r2.Success() {
		return m, nil, nil, fmt.Errorf("compiling %s: %v", path, r2.Entries())
	}
	return m, irModule, debug, nil
}
