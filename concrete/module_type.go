// Package concrete implements module specialization: capturing everything
// about a module instance that affects its compiled type, comparing such
// specializations structurally and materializing each distinct one into a
// compiled class type exactly once.
package concrete

import (
	"scriptc/common"
	"scriptc/host"
	"scriptc/report"
	"scriptc/script"
	"scriptc/types"
)

// state is the lifecycle state of a module type.
type state int

// Enumeration of module type states.
const (
	stateOpen = state(iota)
	stateMaterializing
	stateFrozen
)

// Attribute is a compiled data attribute of a module.
type Attribute struct {
	Type        types.Type
	IsParameter bool
}

// FunctionAttribute is a function stored as a module attribute.  Functions are
// not compiled fields: they are tracked separately and resolved on access.
type FunctionAttribute struct {
	Type *types.FuncType

	// Func is the host function (or compiled function handle) stored.
	Func host.Object
}

// ModuleInfo is a single submodule of a module type.
type ModuleInfo struct {
	Name string
	Meta *ConcreteModuleType
}

// ConcreteModuleType is one fully specialized member of the type family of a
// host module class.  It is populated while open, then materialized into a
// compiled class type at most once, after which it is frozen.
type ConcreteModuleType struct {
	state state

	// origin is the host class the module type was derived from.  It is
	// compared by identity.
	origin *host.Class

	constants     map[string]host.Object
	constantOrder []string

	attributes     map[string]Attribute
	attributeOrder []string

	functionAttributes map[string]FunctionAttribute

	overloads map[string][]string

	// failedAttributes maps attributes that could not be converted to the
	// reason why.  It does not take part in equality.
	failedAttributes map[string]string

	modules []ModuleInfo

	jitType *types.ClassType
}

// New creates an open module type for instances of origin.
func New(origin *host.Class) *ConcreteModuleType {
	return &ConcreteModuleType{
		origin:             origin,
		constants:          make(map[string]host.Object),
		attributes:         make(map[string]Attribute),
		functionAttributes: make(map[string]FunctionAttribute),
		overloads:          make(map[string][]string),
		failedAttributes:   make(map[string]string),
	}
}

// assertOpen fails with an internal error if the module type can no longer be
// mutated.
func (cmt *ConcreteModuleType) assertOpen(op string) {
	report.Assert(cmt.state == stateOpen, "%s called on module type of `%s` after it was materialized", op, cmt.origin.Name)
}

// AddConstant records a constant.
func (cmt *ConcreteModuleType) AddConstant(name string, value host.Object) {
	cmt.assertOpen("AddConstant")

	if _, ok := cmt.constants[name]; !ok {
		cmt.constantOrder = append(cmt.constantOrder, name)
	}

	cmt.constants[name] = value
}

// AddAttribute records a data attribute.  Tensor shapes are erased from its
// type.
func (cmt *ConcreteModuleType) AddAttribute(name string, typ types.Type, isParameter bool) {
	cmt.assertOpen("AddAttribute")

	if _, ok := cmt.attributes[name]; !ok {
		cmt.attributeOrder = append(cmt.attributeOrder, name)
	}

	cmt.attributes[name] = Attribute{Type: types.Unshaped(typ), IsParameter: isParameter}
}

// AddFunctionAttribute records a function-valued attribute.
func (cmt *ConcreteModuleType) AddFunctionAttribute(name string, typ *types.FuncType, fn host.Object) {
	cmt.assertOpen("AddFunctionAttribute")
	cmt.functionAttributes[name] = FunctionAttribute{Type: typ, Func: fn}
}

// AddModule records a submodule.  The submodule type must be materialized.
func (cmt *ConcreteModuleType) AddModule(name string, meta *ConcreteModuleType) {
	cmt.assertOpen("AddModule")
	report.Assert(meta.state == stateFrozen, "submodule `%s` added before it was materialized", name)

	cmt.modules = append(cmt.modules, ModuleInfo{Name: name, Meta: meta})
}

// AddOverload records an overload group.
func (cmt *ConcreteModuleType) AddOverload(name string, candidates []string) {
	cmt.assertOpen("AddOverload")

	c := make([]string, len(candidates))
	copy(c, candidates)
	cmt.overloads[name] = c
}

// AddFailedAttribute records an attribute that could not be converted.
func (cmt *ConcreteModuleType) AddFailedAttribute(name, reason string) {
	cmt.assertOpen("AddFailedAttribute")
	cmt.failedAttributes[name] = reason
}

// -----------------------------------------------------------------------------

// Materialize synthesizes and registers the compiled class type.  It may only
// be called once.
func (cmt *ConcreteModuleType) Materialize(unit *script.Unit) *types.ClassType {
	switch cmt.state {
	case stateMaterializing:
		report.ICE("re-entrant materialization of module type of `%s`", cmt.origin.Name)
	case stateFrozen:
		report.ICE("module type of `%s` is already materialized", cmt.origin.Name)
	}

	cmt.state = stateMaterializing

	name := cmt.origin.QualifiedName()
	if name.Prefix == "" {
		name = name.WithPrefix(common.RootNamespace)
	}

	if _, exists := unit.GetClass(name); exists {
		name = unit.Mangle(name)
	}

	ct := types.NewClassType(name, true)
	for _, attrName := range cmt.attributeOrder {
		attr := cmt.attributes[attrName]
		ct.AddField(attrName, attr.Type, attr.IsParameter)
	}

	for _, mi := range cmt.modules {
		ct.AddField(mi.Name, mi.Meta.jitType, false)
	}

	unit.RegisterType(ct)

	cmt.jitType = ct
	cmt.state = stateFrozen

	report.Logger().Debug("materialized module type", "class", cmt.origin.Name, "type", ct.Name.String(), "fields", len(ct.Fields))
	return ct
}

// -----------------------------------------------------------------------------

// Origin returns the host class the module type was derived from.
func (cmt *ConcreteModuleType) Origin() *host.Class {
	return cmt.origin
}

// JitType returns the compiled class type or nil if not materialized.
func (cmt *ConcreteModuleType) JitType() *types.ClassType {
	return cmt.jitType
}

// IsFrozen returns whether the module type has been materialized.
func (cmt *ConcreteModuleType) IsFrozen() bool {
	return cmt.state == stateFrozen
}

// FindConstant looks up a constant.
func (cmt *ConcreteModuleType) FindConstant(name string) (host.Object, bool) {
	v, ok := cmt.constants[name]
	return v, ok
}

// FindAttribute looks up a data attribute.
func (cmt *ConcreteModuleType) FindAttribute(name string) (Attribute, bool) {
	attr, ok := cmt.attributes[name]
	return attr, ok
}

// FindFunctionAttribute looks up a function attribute.
func (cmt *ConcreteModuleType) FindFunctionAttribute(name string) (FunctionAttribute, bool) {
	fa, ok := cmt.functionAttributes[name]
	return fa, ok
}

// FindSubmodule looks up the module type of a submodule.
func (cmt *ConcreteModuleType) FindSubmodule(name string) (*ConcreteModuleType, bool) {
	for _, mi := range cmt.modules {
		if mi.Name == name {
			return mi.Meta, true
		}
	}

	return nil, false
}

// Submodules returns the submodules in order.
func (cmt *ConcreteModuleType) Submodules() []ModuleInfo {
	modules := make([]ModuleInfo, len(cmt.modules))
	copy(modules, cmt.modules)
	return modules
}

// FindOverloads looks up an overload group.
func (cmt *ConcreteModuleType) FindOverloads(name string) ([]string, bool) {
	cands, ok := cmt.overloads[name]
	return cands, ok
}

// FindFailedAttribute looks up the reason an attribute failed conversion.
func (cmt *ConcreteModuleType) FindFailedAttribute(name string) (string, bool) {
	reason, ok := cmt.failedAttributes[name]
	return reason, ok
}

// FailedAttributeNames returns the names of the failed attributes in sorted
// order.
func (cmt *ConcreteModuleType) FailedAttributeNames() []string {
	return sortedKeys(cmt.failedAttributes)
}
