package sugar

import (
	"scriptc/concrete"
	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/types"

	"github.com/zclconf/go-cty/cty"
)

// ModuleInstance is a specialized module instance.  Its attributes are served
// from its module type only, so that every instance sharing a module type
// compiles identically.
type ModuleInstance struct {
	base

	// self is the value of the module in the function being compiled.
	self ir.Value

	module *host.Module
	cmt    *concrete.ConcreteModuleType

	// subs holds the host handles of the submodules, captured when the
	// instance was resolved.
	subs map[string]*hostHandles

	r *Resolver
}

// hostHandles is a host module and the host modules of its submodules.
type hostHandles struct {
	module *host.Module
	subs   map[string]*hostHandles
}

// captureHandles collects the host modules backing the submodules of cmt.
func captureHandles(cmt *concrete.ConcreteModuleType, mod *host.Module) map[string]*hostHandles {
	if mod == nil {
		return nil
	}

	subs := make(map[string]*hostHandles)
	for _, sub := range cmt.Submodules() {
		var hostSub *host.Module
		if member, ok := mod.Get(sub.Name); ok {
			hostSub, _ = member.Value.(*host.Module)
		}

		subs[sub.Name] = &hostHandles{module: hostSub, subs: captureHandles(sub.Meta, hostSub)}
	}

	return subs
}

// Type returns the module type of the instance.
func (mi *ModuleInstance) Type() *concrete.ConcreteModuleType {
	return mi.cmt
}

// Module returns the host module the instance was resolved from, if any.
func (mi *ModuleInstance) Module() *host.Module {
	return mi.module
}

func (mi *ModuleInstance) AsValue(loc *report.TextSpan, fn *ir.Function) (ir.Value, error) {
	return mi.self, nil
}

func (mi *ModuleInstance) Attr(loc *report.TextSpan, fn *ir.Function, field string) (Value, error) {
	cmt := mi.cmt

	if c, ok := cmt.FindConstant(field); ok {
		return mi.r.Resolve(c, fn, loc, true)
	}

	if attr, ok := cmt.FindAttribute(field); ok {
		return NewSimpleValue(fn.Emit(loc, ir.OpGetAttr, attr.Type, field, mi.self)), nil
	}

	if sub, ok := cmt.FindSubmodule(field); ok {
		return mi.submodule(loc, fn, field, sub), nil
	}

	if fa, ok := cmt.FindFunctionAttribute(field); ok {
		return mi.r.resolveBound(fa.Func, fn, loc, mi)
	}

	if names, ok := cmt.FindOverloads(field); ok {
		return &OverloadedByName{
			base:  base{kind: "overloaded method '" + field + "'"},
			name:  field,
			self:  mi,
			names: names,
		}, nil
	}

	if method, ok := cmt.Origin().Method(field); ok {
		return &PlainCallable{
			base: base{kind: "method"},
			obj:  &host.BoundMethod{Self: mi.module, Func: method},
			self: mi,
			r:    mi.r,
		}, nil
	}

	if v, ok := mi.synthetic(loc, fn, field); ok {
		return v, nil
	}

	if reason, ok := cmt.FindFailedAttribute(field); ok {
		return nil, report.Raise(report.KindAttribute, loc, "module '%s' has no attribute '%s' (%s)", cmt.Origin().Name, field, reason)
	}

	return nil, report.Raise(report.KindAttribute, loc, "module '%s' has no attribute '%s'", cmt.Origin().Name, field)
}

// submodule wraps the submodule named name.
func (mi *ModuleInstance) submodule(loc *report.TextSpan, fn *ir.Function, name string, sub *concrete.ConcreteModuleType) *ModuleInstance {
	value := fn.Emit(loc, ir.OpGetAttr, sub.JitType(), name, mi.self)

	handles, ok := mi.subs[name]
	if !ok {
		return mi.r.newModuleInstance(sub, nil, nil, value)
	}

	return mi.r.newModuleInstance(sub, handles.module, handles.subs, value)
}

// synthetic looks up the members every module has: its parameter lists and
// its container view over its submodules.
func (mi *ModuleInstance) synthetic(loc *report.TextSpan, fn *ir.Function, field string) (Value, bool) {
	switch field {
	case "parameters":
		listType := &types.ListType{ElemType: types.Tensor}
		return NewParameterBundle(fn.Emit(loc, ir.OpParameters, listType, "", mi.self)), true
	case "named_parameters":
		listType := &types.ListType{ElemType: &types.TupleType{ElementTypes: []types.Type{types.StrType, types.Tensor}}}
		return NewParameterBundle(fn.Emit(loc, ir.OpNamedParameters, listType, "", mi.self)), true
	case "children", "values":
		return NewConstantTupleAccessor(field, NewConstantTuple(mi.submodules(loc, fn))), true
	case "keys":
		subs := mi.cmt.Submodules()
		keys := make([]Value, len(subs))
		for i, sub := range subs {
			keys[i] = NewSimpleValue(fn.Constant(cty.StringVal(sub.Name), types.StrType))
		}

		return NewConstantTupleAccessor(field, NewConstantTuple(keys)), true
	case "items":
		subs := mi.cmt.Submodules()
		values := mi.submodules(loc, fn)
		items := make([]Value, len(subs))
		for i, sub := range subs {
			key := NewSimpleValue(fn.Constant(cty.StringVal(sub.Name), types.StrType))
			items[i] = NewConstantTuple([]Value{key, values[i]})
		}

		return NewConstantTupleAccessor(field, NewConstantTuple(items)), true
	}

	return nil, false
}

// submodules wraps every submodule in order.
func (mi *ModuleInstance) submodules(loc *report.TextSpan, fn *ir.Function) []Value {
	subs := mi.cmt.Submodules()
	values := make([]Value, len(subs))
	for i, sub := range subs {
		values[i] = mi.submodule(loc, fn, sub.Name, sub.Meta)
	}

	return values
}

// SetAttr assigns a plain attribute.  Constants, submodules and parameters
// cannot be assigned from compiled code.
func (mi *ModuleInstance) SetAttr(loc *report.TextSpan, fn *ir.Function, field string, value ir.Value) error {
	cmt := mi.cmt
	className := cmt.Origin().Name

	if attr, ok := cmt.FindAttribute(field); ok {
		if attr.IsParameter {
			return report.Raise(report.KindAttribute, loc, "cannot assign to parameter '%s' of module '%s'", field, className)
		}

		if !types.IsSubtype(value.Type(), attr.Type) {
			return report.Raise(
				report.KindAttribute,
				loc,
				"wrong type for attribute assignment: expected '%s' but got '%s'",
				attr.Type.Repr(),
				value.Type().Repr(),
			)
		}

		fn.EmitEffect(loc, ir.OpSetAttr, field, mi.self, value)
		return nil
	}

	if _, ok := cmt.FindConstant(field); ok {
		return report.Raise(report.KindAttribute, loc, "cannot re-assign constant '%s' of module '%s'", field, className)
	}

	if _, ok := cmt.FindSubmodule(field); ok {
		return report.Raise(report.KindAttribute, loc, "cannot re-assign submodule '%s' of module '%s'", field, className)
	}

	if reason, ok := cmt.FindFailedAttribute(field); ok {
		return report.Raise(report.KindAttribute, loc, "module '%s' has no attribute '%s' (%s)", className, field, reason)
	}

	return report.Raise(
		report.KindAttribute,
		loc,
		"tried to set nonexistent attribute '%s' of module '%s': attributes must be initialized on the host module",
		field,
		className,
	)
}

// Call calls the module's `forward` method.
func (mi *ModuleInstance) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	forward, err := mi.Attr(loc, fn, "forward")
	if err != nil {
		return nil, err
	}

	return forward.Call(loc, fn, args, kwargs, nBinders)
}

// AsTuple iterates over the submodules in order.
func (mi *ModuleInstance) AsTuple(loc *report.TextSpan, fn *ir.Function, sizeHint int) ([]Value, error) {
	if err := checkSize(loc, len(mi.cmt.Submodules()), sizeHint); err != nil {
		return nil, err
	}

	return mi.submodules(loc, fn), nil
}
