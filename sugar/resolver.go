package sugar

import (
	"strconv"

	"scriptc/concrete"
	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/script"

	"github.com/pkg/errors"
)

// FunctionCompiler compiles host functions on demand.  Implementations must
// refuse to compile a function that is already being compiled.
type FunctionCompiler interface {
	// CompileFunction compiles a free function against a signature.
	CompileFunction(loc *report.TextSpan, fn *host.Function, schema *script.Schema) (*script.Function, error)

	// CompileMethod compiles a method of a module type.  The method is compiled
	// once per compiled class and shared by every instance of that class.
	CompileMethod(loc *report.TextSpan, owner *concrete.ConcreteModuleType, module *host.Module, method *host.Function) (*script.Function, error)
}

// Resolver is the single entry point turning host objects into symbolic
// values.
type Resolver struct {
	cache    *concrete.Cache
	compiler FunctionCompiler
}

// NewResolver creates a resolver specializing modules through cache and
// compiling functions with compiler.
func NewResolver(cache *concrete.Cache, compiler FunctionCompiler) *Resolver {
	return &Resolver{cache: cache, compiler: compiler}
}

// Unit returns the compilation unit resolved values are compiled into.
func (r *Resolver) Unit() *script.Unit {
	return r.cache.Unit()
}

// Resolve produces the symbolic value of a host object.  isConstant indicates
// that the object is used where a compile-time constant is expected.
func (r *Resolver) Resolve(obj host.Object, fn *ir.Function, loc *report.TextSpan, isConstant bool) (Value, error) {
	v, err := r.resolve(obj, fn, loc, isConstant)
	if err != nil {
		return nil, err
	}

	report.Logger().Trace("resolved host object", "type", host.TypeString(obj), "kind", v.Kind())
	return v, nil
}

func (r *Resolver) resolve(obj host.Object, fn *ir.Function, loc *report.TextSpan, isConstant bool) (Value, error) {
	switch v := obj.(type) {
	// compiled handles
	case *script.Function:
		return NewCompiledFunction(v), nil
	case *script.Class:
		return NewCompiledClass(v, r.Unit()), nil

	// module instances
	case *host.Module:
		cmt, err := r.Specialize(loc, v)
		if err != nil {
			return nil, err
		}

		self := fn.Emit(loc, ir.OpCapture, cmt.JitType(), v.Class.Name)
		return r.ModuleInstance(cmt, v, self), nil

	// containers
	case *host.Tuple:
		elems := make([]Value, len(v.Elems))
		for i, elem := range v.Elems {
			ev, err := r.Resolve(elem, fn, loc, isConstant)
			if err != nil {
				return nil, err
			}

			elems[i] = ev
		}

		return NewConstantTuple(elems), nil
	case *host.List:
		if celems, ok := host.ConstantElems(v); ok {
			return r.resolveConstantTuple(celems, fn, loc)
		}
	case *host.Dict:
		if !isConstant {
			return r.resolveDict(v, fn, loc)
		}

	// callables
	case *host.Function, *host.Builtin, *host.BoundMethod:
		return &PlainCallable{base: base{kind: "function"}, obj: obj, r: r}, nil
	case *host.OverloadedFunction:
		return r.resolveOverloadedFunction(loc, v)
	case *host.BooleanDispatch:
		return r.resolveBooleanDispatch(v, fn, loc)

	// namespaces
	case *host.Namespace:
		return &NamespaceObject{base: base{kind: "module '" + v.Name + "'"}, obj: v, r: r}, nil
	case *host.Class:
		return &NamespaceObject{base: base{kind: "class '" + v.Name + "'"}, obj: v, r: r}, nil

	// constants
	case *host.Value:
		cv, err := script.ConstantValue(fn, loc, v)
		if err != nil {
			return nil, report.Raise(report.KindUnsupportedValue, loc, "unsupported value for scripting: %s", err)
		}

		return NewSimpleValue(cv), nil
	case *host.Tensor:
		return nil, report.Raise(
			report.KindUnsupportedValue,
			loc,
			"unsupported value for scripting: tensors cannot be used as free values; register the tensor as a parameter or buffer of the module instead",
		)
	}

	return nil, report.Raise(report.KindUnsupportedValue, loc, "unsupported value for scripting: '%s'", host.TypeString(obj))
}

func (r *Resolver) resolveConstantTuple(elems []host.Object, fn *ir.Function, loc *report.TextSpan) (*ConstantTuple, error) {
	values := make([]Value, len(elems))
	for i, elem := range elems {
		ev, err := r.Resolve(elem, fn, loc, true)
		if err != nil {
			return nil, err
		}

		values[i] = ev
	}

	return NewConstantTuple(values), nil
}

// resolveDict exposes the keys, values and items of a dictionary as
// accessors.  Keys must be constants.
func (r *Resolver) resolveDict(d *host.Dict, fn *ir.Function, loc *report.TextSpan) (Value, error) {
	keys, err := r.resolveConstantTuple(d.Keys, fn, loc)
	if err != nil {
		return nil, err
	}

	values := make([]Value, len(d.Values))
	items := make([]Value, len(d.Values))
	for i, value := range d.Values {
		vv, err := r.Resolve(value, fn, loc, false)
		if err != nil {
			return nil, err
		}

		values[i] = vv
		items[i] = NewConstantTuple([]Value{keys.elems[i], vv})
	}

	return &NamespaceObject{
		base: base{kind: "'" + d.TypeName() + "' object"},
		obj:  d,
		members: map[string]Value{
			"keys":   NewConstantTupleAccessor("keys", keys),
			"values": NewConstantTupleAccessor("values", NewConstantTuple(values)),
			"items":  NewConstantTupleAccessor("items", NewConstantTuple(items)),
		},
		r: r,
	}, nil
}

func (r *Resolver) resolveBooleanDispatch(bd *host.BooleanDispatch, fn *ir.Function, loc *report.TextSpan) (Value, error) {
	ifTrue, err := r.Resolve(bd.IfTrue, fn, loc, false)
	if err != nil {
		return nil, err
	}

	ifFalse, err := r.Resolve(bd.IfFalse, fn, loc, false)
	if err != nil {
		return nil, err
	}

	return &BooleanDispatch{base: base{kind: "boolean dispatch '" + bd.Name + "'"}, entry: bd, ifTrue: ifTrue, ifFalse: ifFalse}, nil
}

// resolveOverloadedFunction compiles every overload of a host function.
func (r *Resolver) resolveOverloadedFunction(loc *report.TextSpan, of *host.OverloadedFunction) (Value, error) {
	fns := make([]*script.Function, len(of.Overloads))
	for i, overload := range of.Overloads {
		schema, err := functionSchema(loc, overload, len(overload.Params), 1)
		if err != nil {
			return nil, err
		}

		compiled, err := r.compiler.CompileFunction(loc, overload, schema)
		if err != nil {
			return nil, err
		}

		fns[i] = compiled
	}

	return NewOverloadedByFunctions(of.Name, fns), nil
}

// -----------------------------------------------------------------------------

// Specialize specializes a module instance through the cache.  Failures of
// host equality abort the lookup as host equality errors.
func (r *Resolver) Specialize(loc *report.TextSpan, mod *host.Module) (*concrete.ConcreteModuleType, error) {
	cmt, err := concrete.Specialize(mod, r.cache)
	if err != nil {
		var lce *report.LocalCompileError
		if errors.As(err, &lce) {
			if lce.Span == nil {
				lce.Span = loc
			}

			return nil, lce
		}

		return nil, report.Raise(report.KindHostEquality, loc, "%s", err)
	}

	return cmt, nil
}

// ModuleInstance wraps a specialized module whose value in the function being
// compiled is self.  The host modules backing its submodules are captured
// here so attribute lookups never go back to the host instance.
func (r *Resolver) ModuleInstance(cmt *concrete.ConcreteModuleType, mod *host.Module, self ir.Value) *ModuleInstance {
	return r.newModuleInstance(cmt, mod, captureHandles(cmt, mod), self)
}

func (r *Resolver) newModuleInstance(cmt *concrete.ConcreteModuleType, mod *host.Module, subs map[string]*hostHandles, self ir.Value) *ModuleInstance {
	return &ModuleInstance{
		base:   base{kind: "module '" + cmt.Origin().Name + "'"},
		self:   self,
		module: mod,
		cmt:    cmt,
		subs:   subs,
		r:      r,
	}
}

// resolveBound resolves a function attribute of a module.
func (r *Resolver) resolveBound(obj host.Object, fn *ir.Function, loc *report.TextSpan, self *ModuleInstance) (Value, error) {
	v, err := r.Resolve(obj, fn, loc, false)
	if err != nil {
		return nil, err
	}

	if pc, ok := v.(*PlainCallable); ok {
		pc.self = self
	}

	return v, nil
}

// -----------------------------------------------------------------------------

// schemaError reports a call whose arguments do not match a schema.
func schemaError(loc *report.TextSpan, schema *script.Schema, err error) error {
	return report.Raise(report.KindSchema, loc, "%s\nfor call to: %s", err, schema)
}

func indexAttr(i int) string {
	return strconv.Itoa(i)
}
