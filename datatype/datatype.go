// Package datatype implements the DataType and NamedDataType value
// types (spec.md §3.2): a named reference to a backend type, scoped to
// the module that declared it.
package datatype

import "fmt"

// BackendHandle is an opaque reference to whatever the backend (the
// LLVM IR builder, in this implementation's case — see package
// compiler/llvmgen) uses to represent a type. Kept as an interface so
// package datatype has no dependency on the backend.
type BackendHandle interface {
	// BackendTypeString renders the handle for diagnostics and for the
	// lowering determinism property (P6): two equal handles must render
	// identically.
	BackendTypeString() string
}

// ModuleRef identifies the module that owns a DataType, without
// depending on the module package (which in turn depends on
// datatype) — avoids an import cycle. Concretely implemented by
// modreg's selfRef and graph's structSelfRef.
type ModuleRef interface {
	// FullName is the module's fully qualified name, e.g. "lang" or
	// "github.com/x/y/main".
	FullName() string
}

// DataType is a named reference to a backend type, scoped to the
// module that produced it (spec.md §3.2). The zero value is invalid.
type DataType struct {
	owner   ModuleRef
	name    string
	backend BackendHandle
}

// New constructs a DataType. Callers are exclusively modules
// implementing ChiModule.TypeFromName; user code never constructs a
// DataType directly.
func New(owner ModuleRef, name string, backend BackendHandle) DataType {
	return DataType{owner: owner, name: name, backend: backend}
}

// Valid reports whether d has both a non-nil owning module and a
// non-nil backend handle (spec.md §3.2).
func (d DataType) Valid() bool {
	return d.owner != nil && d.backend != nil
}

// Name returns the type's local (module-relative) name.
func (d DataType) Name() string {
	return d.name
}

// Module returns the module that declared this type.
func (d DataType) Module() ModuleRef {
	return d.owner
}

// Backend returns the backend type handle.
func (d DataType) Backend() BackendHandle {
	return d.backend
}

// QualifiedName returns "<module_full_name>:<name>", e.g. "lang:i32".
func (d DataType) QualifiedName() string {
	if d.owner == nil {
		return d.name
	}
	return fmt.Sprintf("%s:%s", d.owner.FullName(), d.name)
}

// Equal implements spec.md §4.2: two valid DataTypes are equal iff
// their backend handle strings and their qualified names both match;
// as an implementer-held invariant, two
// DataTypes with the same qualified name produced by the same module
// must always have equal backend handles (enforced by every ChiModule
// caching its produced DataTypes rather than re-synthesizing backend
// handles per call).
func (d DataType) Equal(other DataType) bool {
	if !d.Valid() || !other.Valid() {
		return false
	}
	sameHandle := d.backend.BackendTypeString() == other.backend.BackendTypeString()
	sameName := d.QualifiedName() == other.QualifiedName()
	return sameHandle && sameName
}

func (d DataType) String() string {
	return d.QualifiedName()
}

// NamedDataType pairs a DataType with a name, used uniformly for
// function I/O lists, struct fields, and local variables (spec.md
// §3.2).
type NamedDataType struct {
	Name string
	Type DataType
}
