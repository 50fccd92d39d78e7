// Package sugar turns host objects encountered while compiling into symbolic
// values: compile-time entities that the lowering pass can call, index and
// read attributes from.
package sugar

import (
	"scriptc/ir"
	"scriptc/report"
	"scriptc/script"
	"scriptc/types"
)

// NoSizeHint is passed to AsTuple when the number of elements expected is not
// known.
const NoSizeHint = -1

// Value is a symbolic value.
type Value interface {
	// Kind returns a label describing the value for diagnostics.
	Kind() string

	// Call calls the value.  nBinders is the number of values the result is
	// unpacked into at the call site.
	Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error)

	// Attr looks up an attribute of the value.
	Attr(loc *report.TextSpan, fn *ir.Function, field string) (Value, error)

	// SetAttr assigns an attribute of the value.
	SetAttr(loc *report.TextSpan, fn *ir.Function, field string, value ir.Value) error

	// AsTuple unpacks the value into its elements.  If sizeHint is not
	// NoSizeHint, the number of elements must match it.
	AsTuple(loc *report.TextSpan, fn *ir.Function, sizeHint int) ([]Value, error)
}

// Valuer is implemented by symbolic values that can be used as an operand.
type Valuer interface {
	AsValue(loc *report.TextSpan, fn *ir.Function) (ir.Value, error)
}

// AsValue converts a symbolic value into an operand.
func AsValue(loc *report.TextSpan, fn *ir.Function, v Value) (ir.Value, error) {
	if valuer, ok := v.(Valuer); ok {
		return valuer.AsValue(loc, fn)
	}

	return nil, report.Raise(report.KindUnsupportedValue, loc, "%s cannot be used as a value", v.Kind())
}

// -----------------------------------------------------------------------------

// base provides the failing default of every operation.
type base struct {
	kind string
}

func (b base) Kind() string {
	return b.kind
}

func (b base) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	return nil, report.Raise(report.KindUnsupportedValue, loc, "cannot call a %s", b.kind)
}

func (b base) Attr(loc *report.TextSpan, fn *ir.Function, field string) (Value, error) {
	return nil, report.Raise(report.KindAttribute, loc, "attribute lookup is not defined on %s", b.kind)
}

func (b base) SetAttr(loc *report.TextSpan, fn *ir.Function, field string, value ir.Value) error {
	return report.Raise(report.KindAttribute, loc, "attribute assignment is not defined on %s", b.kind)
}

func (b base) AsTuple(loc *report.TextSpan, fn *ir.Function, sizeHint int) ([]Value, error) {
	return nil, report.Raise(report.KindUnsupportedValue, loc, "%s cannot be used as a tuple", b.kind)
}

// checkSize validates the number of unpacked elements against a size hint.
func checkSize(loc *report.TextSpan, n, sizeHint int) error {
	if sizeHint != NoSizeHint && n != sizeHint {
		return report.Raise(report.KindSchema, loc, "expected %d element(s) to unpack but found %d", sizeHint, n)
	}

	return nil
}

// -----------------------------------------------------------------------------

// tensorAttrs are the attributes readable off of a tensor value.
var tensorAttrs = map[string]types.Type{
	"shape":         &types.ListType{ElemType: types.IntType},
	"dtype":         types.StrType,
	"device":        types.DeviceType,
	"requires_grad": types.BoolType,
}

// SimpleValue wraps a single operand.
type SimpleValue struct {
	base
	value ir.Value
}

// NewSimpleValue wraps an operand.
func NewSimpleValue(value ir.Value) *SimpleValue {
	return &SimpleValue{base: base{kind: "value of type '" + value.Type().Repr() + "'"}, value: value}
}

// Value returns the wrapped operand.
func (sv *SimpleValue) Value() ir.Value {
	return sv.value
}

func (sv *SimpleValue) AsValue(loc *report.TextSpan, fn *ir.Function) (ir.Value, error) {
	return sv.value, nil
}

func (sv *SimpleValue) Attr(loc *report.TextSpan, fn *ir.Function, field string) (Value, error) {
	switch v := sv.value.Type().(type) {
	case *types.TensorType:
		if typ, ok := tensorAttrs[field]; ok {
			return NewSimpleValue(fn.Emit(loc, ir.OpGetAttr, typ, field, sv.value)), nil
		}
	case *types.ClassType:
		if cf, ok := v.FindField(field); ok {
			return NewSimpleValue(fn.Emit(loc, ir.OpGetAttr, cf.Type, cf.Name, sv.value)), nil
		}
	}

	return nil, report.Raise(report.KindAttribute, loc, "'%s' object has no attribute '%s'", sv.value.Type().Repr(), field)
}

func (sv *SimpleValue) SetAttr(loc *report.TextSpan, fn *ir.Function, field string, value ir.Value) error {
	if ct, ok := sv.value.Type().(*types.ClassType); ok {
		if cf, ok := ct.FindField(field); ok && !cf.IsParameter {
			if !types.IsSubtype(value.Type(), cf.Type) {
				return report.Raise(report.KindAttribute, loc, "wrong type for attribute assignment: expected '%s' but got '%s'", cf.Type.Repr(), value.Type().Repr())
			}

			fn.EmitEffect(loc, ir.OpSetAttr, field, sv.value, value)
			return nil
		}
	}

	return sv.base.SetAttr(loc, fn, field, value)
}

func (sv *SimpleValue) AsTuple(loc *report.TextSpan, fn *ir.Function, sizeHint int) ([]Value, error) {
	tt, ok := sv.value.Type().(*types.TupleType)
	if !ok {
		return nil, report.Raise(report.KindUnsupportedValue, loc, "cannot unpack a value of type '%s'", sv.value.Type().Repr())
	}

	if err := checkSize(loc, len(tt.ElementTypes), sizeHint); err != nil {
		return nil, err
	}

	elems := make([]Value, len(tt.ElementTypes))
	for i, elemType := range tt.ElementTypes {
		elems[i] = NewSimpleValue(fn.Emit(loc, ir.OpTupleIndex, elemType, indexAttr(i), sv.value))
	}

	return elems, nil
}

// -----------------------------------------------------------------------------

// CompiledFunction is a function that has already been compiled.  Methods
// take their receiver as first argument.
type CompiledFunction struct {
	base
	fn *script.Function
}

// NewCompiledFunction wraps a compiled function handle.
func NewCompiledFunction(fn *script.Function) *CompiledFunction {
	return &CompiledFunction{base: base{kind: "compiled function"}, fn: fn}
}

// Func returns the compiled function.
func (cf *CompiledFunction) Func() *script.Function {
	return cf.fn
}

func (cf *CompiledFunction) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	matched, err := script.MatchSchema(fn, loc, cf.fn.Schema, nil, args, kwargs)
	if err != nil {
		return nil, schemaError(loc, cf.fn.Schema, err)
	}

	return NewSimpleValue(fn.Emit(loc, ir.OpCall, matched.Returns, cf.fn.Name.String(), matched.Inputs...)), nil
}

// CompiledClass is a compiled class type used as a value: its compiled
// methods can be looked up as attributes.
type CompiledClass struct {
	base
	cls  *script.Class
	unit *script.Unit
}

// NewCompiledClass wraps a compiled class handle.
func NewCompiledClass(cls *script.Class, unit *script.Unit) *CompiledClass {
	return &CompiledClass{base: base{kind: "compiled class"}, cls: cls, unit: unit}
}

func (cc *CompiledClass) Attr(loc *report.TextSpan, fn *ir.Function, field string) (Value, error) {
	if method, ok := cc.unit.GetMethod(cc.cls.Type, field); ok {
		return NewCompiledFunction(method), nil
	}

	return nil, report.Raise(report.KindAttribute, loc, "type object '%s' has no attribute '%s'", cc.cls.Type.Name, field)
}

func (cc *CompiledClass) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	return nil, report.Raise(report.KindUnsupportedValue, loc, "compiled class '%s' cannot be constructed in compiled code", cc.cls.Type.Name)
}
