package sugar

import (
	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/script"
	"scriptc/types"
)

// PlainCallable is a host callable invoked from compiled code.  Functions with
// a body are compiled on first call; host-implemented functions are called
// through their signature.
type PlainCallable struct {
	base
	obj host.Object

	// self is the module the callable was looked up on, if any.
	self *ModuleInstance

	r *Resolver
}

// Object returns the underlying host callable.
func (pc *PlainCallable) Object() host.Object {
	return pc.obj
}

func (pc *PlainCallable) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	switch v := pc.obj.(type) {
	case *host.Function:
		schema, err := functionSchema(loc, v, len(args)+len(kwargs), nBinders)
		if err != nil {
			return nil, err
		}

		if !v.Compilable() {
			return emitHostCall(loc, fn, v.QualifiedName().String(), schema, args, kwargs)
		}

		compiled, err := pc.r.compiler.CompileFunction(loc, v, schema)
		if err != nil {
			return nil, err
		}

		return emitCall(loc, fn, compiled, nil, args, kwargs)
	case *host.BoundMethod:
		if pc.self == nil || pc.self.module != v.Self {
			return nil, report.Raise(
				report.KindUnsupportedValue,
				loc,
				"unsupported value for scripting: bound method '%s' of a '%s' object can only be called through its module",
				v.Func.Name,
				host.TypeString(v.Self),
			)
		}

		compiled, err := pc.r.compiler.CompileMethod(loc, pc.self.cmt, pc.self.module, v.Func)
		if err != nil {
			return nil, err
		}

		return emitCall(loc, fn, compiled, pc.self.self, args, kwargs)
	case *host.Builtin:
		if !v.HasSignature {
			return nil, report.Raise(report.KindSchema, loc, "builtin '%s' has no signature and cannot be called from compiled code", v.Name)
		}

		schema, err := paramSchema(loc, v.Name, v.Params, v.Returns, len(args)+len(kwargs), nBinders)
		if err != nil {
			return nil, err
		}

		return emitHostCall(loc, fn, v.Name, schema, args, kwargs)
	}

	report.ICE("plain callable over '%s'", host.TypeString(pc.obj))
	return nil, nil
}

func (pc *PlainCallable) Attr(loc *report.TextSpan, fn *ir.Function, field string) (Value, error) {
	if field == "__self__" {
		if pc.self != nil {
			return pc.self, nil
		}

		if b, ok := pc.obj.(*host.Builtin); ok && b.Self != nil {
			return pc.r.Resolve(b.Self, fn, loc, false)
		}
	}

	return pc.base.Attr(loc, fn, field)
}

// -----------------------------------------------------------------------------

// functionSchema infers the signature of a host function for a call with nArgs
// arguments unpacked into nBinders values.
func functionSchema(loc *report.TextSpan, f *host.Function, nArgs, nBinders int) (*script.Schema, error) {
	return paramSchema(loc, f.QualifiedName().String(), f.Params, f.Returns, nArgs, nBinders)
}

// paramSchema builds a schema from declared parameters.  Unannotated
// parameters are tensors.  Without a return annotation, the function returns a
// tensor, or a tuple of tensors if its result is unpacked.
func paramSchema(loc *report.TextSpan, name string, params []host.Param, returns types.Type, nArgs, nBinders int) (*script.Schema, error) {
	schema := &script.Schema{Name: name}

	for _, param := range params {
		switch param.Kind {
		case host.ParamVarArgs:
			return nil, report.Raise(report.KindSchema, loc, "'%s' takes variadic arguments (*%s) which are not supported in compiled code", name, param.Name)
		case host.ParamVarKwargs:
			return nil, report.Raise(report.KindSchema, loc, "'%s' takes variadic keyword arguments (**%s) which are not supported in compiled code", name, param.Name)
		}

		typ := param.Annotation
		if typ == nil {
			typ = types.Tensor
		}

		schema.Args = append(schema.Args, script.Argument{
			Name:      param.Name,
			Type:      typ,
			Default:   param.Default,
			KwargOnly: param.Kind == host.ParamKeywordOnly,
		})
	}

	if nArgs > len(schema.Args) {
		return nil, report.Raise(report.KindSchema, loc, "'%s' takes %d argument(s) but %d were given", name, len(schema.Args), nArgs)
	}

	switch {
	case returns != nil:
		schema.Returns = returns
	case nBinders <= 1:
		schema.Returns = types.Tensor
	default:
		elemTypes := make([]types.Type, nBinders)
		for i := range elemTypes {
			elemTypes[i] = types.Tensor
		}

		schema.Returns = &types.TupleType{ElementTypes: elemTypes}
	}

	return schema, nil
}

// emitCall emits a call to a compiled function.  self is the receiver of
// methods.
func emitCall(loc *report.TextSpan, fn *ir.Function, compiled *script.Function, self ir.Value, args, kwargs []ir.NamedValue) (Value, error) {
	matched, err := script.MatchSchema(fn, loc, compiled.Schema, self, args, kwargs)
	if err != nil {
		return nil, schemaError(loc, compiled.Schema, err)
	}

	if compiled.IsMethod() {
		return NewSimpleValue(fn.Emit(loc, ir.OpCallMethod, matched.Returns, compiled.Name.Name, matched.Inputs...)), nil
	}

	return NewSimpleValue(fn.Emit(loc, ir.OpCall, matched.Returns, compiled.Name.String(), matched.Inputs...)), nil
}

// emitHostCall emits a call to a host-implemented function.
func emitHostCall(loc *report.TextSpan, fn *ir.Function, name string, schema *script.Schema, args, kwargs []ir.NamedValue) (Value, error) {
	matched, err := script.MatchSchema(fn, loc, schema, nil, args, kwargs)
	if err != nil {
		return nil, schemaError(loc, schema, err)
	}

	return NewSimpleValue(fn.Emit(loc, ir.OpHostCall, matched.Returns, name, matched.Inputs...)), nil
}

// -----------------------------------------------------------------------------

// BooleanDispatch selects between two callables at compile time based on the
// constant value of a boolean argument.
type BooleanDispatch struct {
	base
	entry *host.BooleanDispatch

	ifTrue, ifFalse Value
}

func (bd *BooleanDispatch) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	flag := bd.entry.Default

	var arg ir.Value
	if bd.entry.Index >= 0 && bd.entry.Index < len(args) {
		arg = args[bd.entry.Index].Value
	} else {
		for _, kw := range kwargs {
			if kw.Name == bd.entry.ArgName {
				arg = kw.Value
				break
			}
		}
	}

	if arg != nil {
		value, ok := ir.ConstBool(arg)
		if !ok {
			return nil, report.Raise(
				report.KindUnsupportedValue,
				loc,
				"argument '%s' of '%s' must be a compile-time constant bool: it selects between two implementations",
				bd.entry.ArgName,
				bd.entry.Name,
			)
		}

		flag = value
	}

	report.Logger().Trace("boolean dispatch", "function", bd.entry.Name, "flag", flag)

	if flag {
		return bd.ifTrue.Call(loc, fn, args, kwargs, nBinders)
	}

	return bd.ifFalse.Call(loc, fn, args, kwargs, nBinders)
}
