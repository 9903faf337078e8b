// Package interp is a minimal tree-walking interpreter over the
// specific subset of LLVM IR this backend's node types ever emit
// (package nodetype, package compiler/llvmgen): alloca, store, load,
// getelementptr, br, condbr, switch, call and ret/unreachable
// terminators, plus integer, float, boolean and interned C-string
// constants (SPEC_FULL.md §7 — "flc run"/"flc interpret" work without
// a real LLVM toolchain installed). It is not a general LLVM
// interpreter: it walks whatever *ir.Module it is given — the one
// compiler.CompileModule returns (flc run) or one parsed from IR text
// by llir's asm reader (flc interpret).
package interp

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Cell is a unit of addressable storage backing one alloca of a scalar
// or pointer type, or one caller-supplied output pointer. Loads and
// stores go through a Cell by reference, exactly like the pointer
// parameters compiler/llvmgen passes into Codegen.
type Cell struct {
	V any
}

// aggregate is the storage an alloca of a struct type produces
// (package nodetype represents every struct value as a pointer to one
// of these): one Cell per field, indexed the same way
// structMakeNodeType/structBreakNodeType's getelementptr codegen does
// (a leading zero index, then the field index).
type aggregate struct {
	fields []*Cell
}

// Builtin implements one runtime helper (the rt_* functions package
// nodetype forward-declares via ensureRuntimeFunc) directly in Go,
// since this interpreter never links against a real C runtime.
type Builtin func(args []any) (any, error)

// Machine runs compiled functions against an in-memory *ir.Module.
// Builtins maps a runtime function's linked name (e.g. "rt_strcat") to
// its Go implementation; DefaultBuiltins covers every runtime helper
// package nodetype currently declares.
type Machine struct {
	Module   *ir.Module
	Builtins map[string]Builtin
}

// New builds a Machine over m with the default runtime builtins
// installed.
func New(m *ir.Module) *Machine {
	return &Machine{Module: m, Builtins: DefaultBuiltins()}
}

// DefaultBuiltins returns the runtime helpers every module compiled by
// package compiler may call.
func DefaultBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"rt_strcat": func(args []any) (any, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("interp: rt_strcat wants 2 args, got %d", len(args))
			}
			a, ok1 := args[0].(string)
			b, ok2 := args[1].(string)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("interp: rt_strcat wants string args")
			}
			return a + b, nil
		},
	}
}

// Call runs the function named funcName with the given exec-input id
// and data arguments, and returns the exec-output index the function
// returned along with the values written to its declared data
// outputs, in order (the lowered calling convention: leading
// i32 exec_input_id, then data inputs by value, then data outputs as
// out-pointers).
func (m *Machine) Call(funcName string, execInputID int, dataArgs []any, numOutputs int) (execOut int, outputs []any, err error) {
	f := m.findFunc(funcName)
	if f == nil {
		return 0, nil, fmt.Errorf("interp: no function named %q in module", funcName)
	}
	outCells := make([]*Cell, numOutputs)
	args := make([]any, 0, 1+len(dataArgs)+numOutputs)
	args = append(args, int64(execInputID))
	args = append(args, dataArgs...)
	for i := range outCells {
		outCells[i] = &Cell{}
		args = append(args, outCells[i])
	}
	ret, err := m.runFunc(f, args)
	if err != nil {
		return 0, nil, err
	}
	outputs = make([]any, numOutputs)
	for i, c := range outCells {
		outputs[i] = c.V
	}
	return int(toInt64(ret)), outputs, nil
}

func (m *Machine) findFunc(name string) *ir.Func {
	for _, f := range m.Module.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// runFunc executes f with args bound positionally to f.Params and
// returns its i32 return value. Used both for the top-level Call entry
// point and, recursively, for GraphFuncCall nodes that call another
// compiled function in the same module.
func (m *Machine) runFunc(f *ir.Func, args []any) (any, error) {
	if len(args) != len(f.Params) {
		return nil, fmt.Errorf("interp: %s wants %d args, got %d", f.Name(), len(f.Params), len(args))
	}
	env := make(map[value.Value]any, len(args)+8)
	for i, p := range f.Params {
		env[p] = args[i]
	}
	if len(f.Blocks) == 0 {
		return nil, fmt.Errorf("interp: %s has no basic blocks", f.Name())
	}
	block := f.Blocks[0]
	for {
		for _, inst := range block.Insts {
			if err := m.execInst(inst, env); err != nil {
				return nil, fmt.Errorf("interp: in %s: %w", f.Name(), err)
			}
		}
		next, retVal, done, err := m.execTerm(block.Term, env)
		if err != nil {
			return nil, fmt.Errorf("interp: in %s: %w", f.Name(), err)
		}
		if done {
			return retVal, nil
		}
		block = next
	}
}

func (m *Machine) execInst(inst ir.Instruction, env map[value.Value]any) error {
	switch x := inst.(type) {
	case *ir.InstAlloca:
		if st, ok := x.ElemType.(*types.StructType); ok {
			fields := make([]*Cell, len(st.Fields))
			for i := range fields {
				fields[i] = &Cell{}
			}
			env[x] = &aggregate{fields: fields}
		} else {
			env[x] = &Cell{}
		}
	case *ir.InstGetElementPtr:
		agg, ok := m.get(x.Src, env).(*aggregate)
		if !ok {
			return fmt.Errorf("getelementptr source is not a struct aggregate")
		}
		if len(x.Indices) != 2 {
			return fmt.Errorf("getelementptr: expected a (zero, field) index pair, got %d indices", len(x.Indices))
		}
		field := int(toInt64(m.get(x.Indices[1], env)))
		if field < 0 || field >= len(agg.fields) {
			return fmt.Errorf("getelementptr: field index %d out of range (struct has %d fields)", field, len(agg.fields))
		}
		env[x] = agg.fields[field]
	case *ir.InstStore:
		cell, ok := m.get(x.Dst, env).(*Cell)
		if !ok {
			return fmt.Errorf("store target is not a cell")
		}
		cell.V = m.get(x.Src, env)
	case *ir.InstLoad:
		cell, ok := m.get(x.Src, env).(*Cell)
		if !ok {
			return fmt.Errorf("load source is not a cell")
		}
		env[x] = cell.V
	case *ir.InstCall:
		ret, err := m.call(x.Callee, x.Args, env)
		if err != nil {
			return err
		}
		env[x] = ret
	default:
		return fmt.Errorf("unsupported instruction %T", inst)
	}
	return nil
}

func (m *Machine) call(callee value.Value, argVals []value.Value, env map[value.Value]any) (any, error) {
	callArgs := make([]any, len(argVals))
	for i, a := range argVals {
		callArgs[i] = m.get(a, env)
	}
	fn, ok := callee.(*ir.Func)
	if !ok {
		return nil, fmt.Errorf("call target is not a function")
	}
	if builtin, ok := m.Builtins[fn.Name()]; ok {
		return builtin(callArgs)
	}
	if len(fn.Blocks) == 0 {
		return nil, fmt.Errorf("call to undefined function %q (no builtin registered)", fn.Name())
	}
	return m.runFunc(fn, callArgs)
}

// execTerm executes block.Term, returning either the next block to
// run or, if the function returned, its return value with done=true.
func (m *Machine) execTerm(term ir.Terminator, env map[value.Value]any) (next *ir.Block, retVal any, done bool, err error) {
	switch x := term.(type) {
	case *ir.TermRet:
		if x.X == nil {
			return nil, nil, true, nil
		}
		return nil, m.get(x.X, env), true, nil
	case *ir.TermBr:
		return x.Target, nil, false, nil
	case *ir.TermCondBr:
		if toBool(m.get(x.Cond, env)) {
			return x.TargetTrue, nil, false, nil
		}
		return x.TargetFalse, nil, false, nil
	case *ir.TermSwitch:
		v := toInt64(m.get(x.X, env))
		for _, c := range x.Cases {
			if toInt64(m.get(c.X, env)) == v {
				return c.Target, nil, false, nil
			}
		}
		return x.TargetDefault, nil, false, nil
	case *ir.TermUnreachable:
		return nil, nil, false, fmt.Errorf("reached an unreachable instruction")
	default:
		return nil, nil, false, fmt.Errorf("unsupported terminator %T", term)
	}
}

// get resolves an SSA value to its interpreted Go value: either an
// already-bound local/parameter in env, or a constant evaluated on
// the fly.
func (m *Machine) get(v value.Value, env map[value.Value]any) any {
	if got, ok := env[v]; ok {
		return got
	}
	if c, ok := v.(constant.Constant); ok {
		return evalConstant(c)
	}
	return nil
}

// evalConstant resolves the constants package compiler/llvmgen and
// package nodetype ever emit: integers, floats, booleans (i1 modeled
// as an Int) and interned C-string globals (package nodetype's
// globalCString, a GetElementPtr into a char-array global).
func evalConstant(c constant.Constant) any {
	switch x := c.(type) {
	case *constant.Int:
		return x.X.Int64()
	case *constant.Float:
		f, _ := x.X.Float64()
		return f
	case *constant.GetElementPtr:
		if g, ok := x.Src.(*ir.Global); ok {
			return globalString(g)
		}
	case *ir.Global:
		return globalString(x)
	}
	return nil
}

func globalString(g *ir.Global) any {
	ca, ok := g.Init.(*constant.CharArray)
	if !ok {
		return nil
	}
	return strings.TrimRight(string(ca.X), "\x00")
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case *big.Int:
		return x.Int64()
	default:
		return 0
	}
}

func toBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	default:
		return toInt64(v) != 0
	}
}
