// Package script holds the compilation unit: the registry of compiled class
// types and compiled functions that module specialization and function
// compilation populate.
package script

import (
	"fmt"
	"strings"
	"sync"

	"scriptc/ir"
	"scriptc/report"
	"scriptc/types"
	"scriptc/util"
)

// manglePrefix is the namespace atom inserted into mangled names.
const manglePrefix = "___script_mangle_"

// Unit is a compilation unit.  All of its methods are safe for concurrent
// use.
type Unit struct {
	m *sync.Mutex

	classes    map[types.QualifiedName]*types.ClassType
	classOrder []*types.ClassType

	functions map[types.QualifiedName]*Function
	funcOrder []*Function

	// mangleCounter is the next index used to mangle a name.
	mangleCounter int
}

// NewUnit creates a new empty compilation unit.
func NewUnit() *Unit {
	return &Unit{
		m:         &sync.Mutex{},
		classes:   make(map[types.QualifiedName]*types.ClassType),
		functions: make(map[types.QualifiedName]*Function),
	}
}

// GetClass looks up a registered class type by qualified name.
func (u *Unit) GetClass(name types.QualifiedName) (*types.ClassType, bool) {
	u.m.Lock()
	defer u.m.Unlock()

	ct, ok := u.classes[name]
	return ct, ok
}

// RegisterType registers a class type under its name.  Registering two types
// under the same name is an internal error: callers must mangle first.
func (u *Unit) RegisterType(ct *types.ClassType) {
	u.m.Lock()
	defer u.m.Unlock()

	_, exists := u.classes[ct.Name]
	report.Assert(!exists, "class type `%s` is already registered", ct.Name)

	u.classes[ct.Name] = ct
	u.classOrder = append(u.classOrder, ct)
}

// Mangle returns a variant of name that is not used by any registered class or
// function.  The mangling atom is inserted right before the base name:
// `a.b.C` becomes `a.b.___script_mangle_N.C`.
func (u *Unit) Mangle(name types.QualifiedName) types.QualifiedName {
	u.m.Lock()
	defer u.m.Unlock()

	return u.mangle(name)
}

func (u *Unit) mangle(name types.QualifiedName) types.QualifiedName {
	// strip any existing mangling so names don't accumulate atoms
	var atoms []string
	if name.Prefix != "" {
		for _, atom := range strings.Split(name.Prefix, ".") {
			if !strings.HasPrefix(atom, manglePrefix) {
				atoms = append(atoms, atom)
			}
		}
	}

	for {
		mangled := types.QualifiedName{
			Prefix: strings.Join(append(util.CopySlice(atoms), fmt.Sprintf("%s%d", manglePrefix, u.mangleCounter)), "."),
			Name:   name.Name,
		}
		u.mangleCounter++

		if !u.nameInUse(mangled) {
			return mangled
		}
	}
}

func (u *Unit) nameInUse(name types.QualifiedName) bool {
	if _, ok := u.classes[name]; ok {
		return true
	}

	_, ok := u.functions[name]
	return ok
}

// Classes returns the registered class types in registration order.
func (u *Unit) Classes() []*types.ClassType {
	u.m.Lock()
	defer u.m.Unlock()

	return util.CopySlice(u.classOrder)
}

// -----------------------------------------------------------------------------

// DefineFunction registers a compiled function.  The name is mangled if it is
// already in use.  Methods are owned by the class type they were compiled for.
func (u *Unit) DefineFunction(name types.QualifiedName, schema *Schema, graph *ir.Function, owner *types.ClassType) *Function {
	u.m.Lock()
	defer u.m.Unlock()

	if u.nameInUse(name) {
		name = u.mangle(name)
	}

	schema.Name = name.String()
	graph.Name = name.String()

	fn := &Function{
		Name:   name,
		Schema: schema,
		Graph:  graph,
		Owner:  owner,
	}

	u.functions[name] = fn
	u.funcOrder = append(u.funcOrder, fn)
	return fn
}

// GetFunction looks up a compiled function by qualified name.
func (u *Unit) GetFunction(name types.QualifiedName) (*Function, bool) {
	u.m.Lock()
	defer u.m.Unlock()

	fn, ok := u.functions[name]
	return fn, ok
}

// GetMethod looks up a method compiled for a class type.
func (u *Unit) GetMethod(owner *types.ClassType, name string) (*Function, bool) {
	u.m.Lock()
	defer u.m.Unlock()

	for _, fn := range u.funcOrder {
		if fn.Owner == owner && fn.Name.Name == name {
			return fn, true
		}
	}

	return nil, false
}

// Functions returns the compiled functions in definition order.
func (u *Unit) Functions() []*Function {
	u.m.Lock()
	defer u.m.Unlock()

	return util.CopySlice(u.funcOrder)
}
