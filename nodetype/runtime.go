package nodetype

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// StringType is the backend representation every "lang:string"-typed
// value uses: a pointer to a null-terminated i8 array, C-style. Kept
// as package state rather than threaded through every call because
// every lang builtin that touches strings (strliteral, strcat,
// strprintf) needs the identical type to agree with the module's lang
// ChiModule, which is the sole place a "lang:string" DataType is
// minted.
var StringType = types.I8Ptr

// ensureRuntimeFunc returns the module-level declaration for a runtime
// helper function, creating a forward declaration (no body) the first
// time it's requested. Multiple nodes across a GraphModule call the
// same runtime helper (rt_strcat, used by both strcat and strprintf),
// so lookups must be idempotent.
func ensureRuntimeFunc(m *ir.Module, name string, retType types.Type, paramTypes ...types.Type) *ir.Func {
	for _, f := range m.Funcs {
		if f.Name() == name {
			return f
		}
	}
	params := make([]*ir.Param, len(paramTypes))
	for i, pt := range paramTypes {
		params[i] = ir.NewParam("", pt)
	}
	return m.NewFunc(name, retType, params...)
}

// globalCString interns s as a module-level null-terminated constant
// and returns an *i8 pointing at its first byte. Used by strliteral
// and by strprintf's literal format segments.
func globalCString(m *ir.Module, name, s string) constant.Constant {
	data := constant.NewCharArrayFromString(s + "\x00")
	g := m.NewGlobalDef(name, data)
	g.Immutable = true
	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(data.Typ, g, zero, zero)
}
