package host

import (
	"sync/atomic"

	"scriptc/ast"
	"scriptc/report"
	"scriptc/types"
)

// identities is the source of host object identities.  Zero is never handed
// out so that an unset identity is recognizable.
var identities atomic.Uint64

func nextIdentity() uint64 {
	return identities.Add(1)
}

// lazyIdentity assigns an identity to an object the first time it is needed.
func lazyIdentity(id *atomic.Uint64) uint64 {
	if v := id.Load(); v != 0 {
		return v
	}

	id.CompareAndSwap(0, nextIdentity())
	return id.Load()
}

// -----------------------------------------------------------------------------

// ParamKind is the kind of a function parameter.  It must be one of the
// enumerated parameter kinds.
type ParamKind int

// Enumeration of parameter kinds.
const (
	ParamPositional = ParamKind(iota)
	ParamKeywordOnly
	ParamVarArgs
	ParamVarKwargs
)

// Param is one declared parameter of a host function.
type Param struct {
	Name string

	// Annotation is the declared type hint.  It is nil if the parameter is
	// unannotated.
	Annotation types.Type

	// Default is the default value.  It is nil if the parameter is required.
	Default Object

	Kind ParamKind
}

// Function is a host function.  A function with a body can be compiled; a
// function without one is implemented by the host and can only be called
// through its signature.
type Function struct {
	Name string

	// Module is the dotted name of the host module defining the function.
	Module string

	Params []Param

	// Returns is the declared return type.  It is nil if unannotated.
	Returns types.Type

	Body []ast.Stmt

	// Globals are the free variables visible to the body: they back the
	// function's resolution callback.
	Globals map[string]Object

	// Span is the location of the function definition.
	Span *report.TextSpan

	id atomic.Uint64
}

// ID returns the identity of the function.
func (f *Function) ID() uint64 {
	return lazyIdentity(&f.id)
}

// QualifiedName returns the qualified name of the function.
func (f *Function) QualifiedName() types.QualifiedName {
	return types.QualifiedName{Prefix: f.Module, Name: f.Name}
}

// Type returns the compiled function type naming this function.
func (f *Function) Type() *types.FuncType {
	return &types.FuncType{Name: f.QualifiedName(), ID: f.ID()}
}

// Compilable returns whether the function has a body that can be compiled.
func (f *Function) Compilable() bool {
	return f.Body != nil
}

// Lookup is the function's resolution callback: it finds a free variable
// referenced by the body.
func (f *Function) Lookup(name string) (Object, bool) {
	if f.Globals == nil {
		return nil, false
	}

	obj, ok := f.Globals[name]
	return obj, ok
}

func (f *Function) TypeName() string {
	return "function"
}

// -----------------------------------------------------------------------------

// BoundMethod is a host function bound to a receiver.
type BoundMethod struct {
	Self Object
	Func *Function
}

func (bm *BoundMethod) TypeName() string {
	return "method"
}

// Builtin is a host-implemented callable such as a method wrapper.  Builtins
// may or may not expose a signature.
type Builtin struct {
	Name string

	// Self is the object the builtin is bound to, if any.
	Self Object

	// HasSignature indicates whether Params and Returns describe the builtin.
	HasSignature bool
	Params       []Param
	Returns      types.Type
}

func (b *Builtin) TypeName() string {
	return "builtin_function_or_method"
}
