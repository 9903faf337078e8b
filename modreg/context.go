package modreg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flowlang/flc/datatype"
	"github.com/flowlang/flc/log"
	"github.com/flowlang/flc/nodetype"
)

// Context is the process-wide module registry (spec.md §3.6): it owns
// every loaded ChiModule keyed by full name and resolves cross-module
// references on behalf of the graph package.
type Context struct {
	modules map[string]ChiModule
}

// NewContext returns a Context with the builtin lang module already
// loaded.
func NewContext() *Context {
	c := &Context{modules: make(map[string]ChiModule)}
	c.modules[langModuleName] = newLangModule()
	return c
}

// CycleError reports a module dependency cycle detected at load time
// (supplemented feature, spec.md SPEC_FULL §9 — the original rejects
// this explicitly rather than folding it into "unknown reference").
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("modreg: module dependency cycle: %s", strings.Join(e.Path, " -> "))
}

// LoadModule registers m, rejecting a duplicate full name or a
// dependency cycle introduced by adding m.
func (c *Context) LoadModule(m ChiModule) error {
	name := m.FullName()
	if _, exists := c.modules[name]; exists {
		return fmt.Errorf("modreg: module %q already loaded", name)
	}
	c.modules[name] = m
	if path, ok := c.findCycle(name); ok {
		delete(c.modules, name)
		return &CycleError{Path: path}
	}
	log.Debugf("modreg: loaded module %q (depends on %v)", name, sortedKeys(m.Dependencies()))
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// findCycle performs a DFS from start over the dependency graph formed
// by already-registered modules, returning the offending path if a
// cycle reaches back to a module currently on the stack.
func (c *Context) findCycle(start string) ([]string, bool) {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(c.modules))
	var path []string
	var cyclePath []string

	var visit func(name string) bool
	visit = func(name string) bool {
		if state[name] == onStack {
			path = append(path, name)
			cyclePath = append([]string(nil), path...)
			return true
		}
		if state[name] == done {
			return false
		}
		state[name] = onStack
		path = append(path, name)
		if mod, ok := c.modules[name]; ok {
			for _, dep := range sortedKeys(mod.Dependencies()) {
				if visit(dep) {
					return true
				}
			}
		}
		state[name] = done
		path = path[:len(path)-1]
		return false
	}
	found := visit(start)
	return cyclePath, found
}

// Module looks up a loaded module by full name.
func (c *Context) Module(fullName string) (ChiModule, bool) {
	m, ok := c.modules[fullName]
	return m, ok
}

// Modules returns every loaded module's full name, sorted.
func (c *Context) Modules() []string {
	out := make([]string, 0, len(c.modules))
	for k := range c.modules {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TypeFromModule resolves the type named name within the loaded module
// moduleFullName into a DataType.
func (c *Context) TypeFromModule(moduleFullName, name string) (datatype.DataType, error) {
	mod, ok := c.modules[moduleFullName]
	if !ok {
		return datatype.DataType{}, fmt.Errorf("modreg: unknown module %q", moduleFullName)
	}
	return mod.TypeFromName(name)
}

// TypeFromQualifiedName splits "<module>:<name>" and resolves it,
// defaulting to the lang module when no module prefix is present.
func (c *Context) TypeFromQualifiedName(ref string) (datatype.DataType, error) {
	mod, name := splitQualified(ref)
	return c.TypeFromModule(mod, name)
}

// NodeTypeFromModule resolves a node type by (module, local name,
// config JSON) into a concrete NodeType instance.
//
// "lang:entry"/"lang:exit" are special-cased here rather than inside
// langModule: their config's data ports may reference types owned by
// any loaded module (a GraphFunction can take another module's struct
// as a parameter), and only the Context — not a single ChiModule —
// can resolve a qualified type reference across module boundaries.
func (c *Context) NodeTypeFromModule(moduleFullName, name string, configJSON []byte) (nodetype.NodeType, error) {
	if moduleFullName == langModuleName && (name == "entry" || name == "exit") {
		return c.nodeTypeFromPortConfig(name, configJSON)
	}
	mod, ok := c.modules[moduleFullName]
	if !ok {
		return nil, fmt.Errorf("modreg: unknown module %q", moduleFullName)
	}
	return mod.NodeTypeFromName(name, configJSON)
}

func (c *Context) nodeTypeFromPortConfig(name string, configJSON []byte) (nodetype.NodeType, error) {
	cfg, err := nodetype.DecodePortConfig(configJSON)
	if err != nil {
		return nil, err
	}
	data := make([]datatype.NamedDataType, len(cfg.Data))
	for i, ref := range cfg.Data {
		dt, err := c.TypeFromQualifiedName(ref.TypeRef)
		if err != nil {
			return nil, err
		}
		data[i] = datatype.NamedDataType{Name: ref.Name, Type: dt}
	}
	if name == "entry" {
		return nodetype.NewEntry(langModuleName, data, cfg.Exec), nil
	}
	return nodetype.NewExit(langModuleName, data, cfg.Exec), nil
}

func splitQualified(ref string) (module, name string) {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return langModuleName, ref
}
