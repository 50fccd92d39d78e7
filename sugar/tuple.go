package sugar

import (
	"scriptc/ir"
	"scriptc/report"
	"scriptc/types"
)

// ConstantTuple is a fixed sequence of symbolic values known at compile time.
type ConstantTuple struct {
	base
	elems []Value
}

// NewConstantTuple creates a constant tuple over elems.
func NewConstantTuple(elems []Value) *ConstantTuple {
	return &ConstantTuple{base: base{kind: "constant tuple"}, elems: elems}
}

func (ct *ConstantTuple) AsTuple(loc *report.TextSpan, fn *ir.Function, sizeHint int) ([]Value, error) {
	if err := checkSize(loc, len(ct.elems), sizeHint); err != nil {
		return nil, err
	}

	elems := make([]Value, len(ct.elems))
	copy(elems, ct.elems)
	return elems, nil
}

// AsValue builds a tuple from the elements.  Every element must be usable as a
// value.
func (ct *ConstantTuple) AsValue(loc *report.TextSpan, fn *ir.Function) (ir.Value, error) {
	values := make([]ir.Value, len(ct.elems))
	elemTypes := make([]types.Type, len(ct.elems))
	for i, elem := range ct.elems {
		v, err := AsValue(loc, fn, elem)
		if err != nil {
			return nil, err
		}

		values[i] = v
		elemTypes[i] = v.Type()
	}

	return fn.Emit(loc, ir.OpTuple, &types.TupleType{ElementTypes: elemTypes}, "", values...), nil
}

// -----------------------------------------------------------------------------

// ConstantTupleAccessor is a method taking no arguments which returns a
// constant tuple: eg. `keys()` of a dictionary.
type ConstantTupleAccessor struct {
	base
	name  string
	tuple *ConstantTuple
}

// NewConstantTupleAccessor creates an accessor named name returning tuple.
func NewConstantTupleAccessor(name string, tuple *ConstantTuple) *ConstantTupleAccessor {
	return &ConstantTupleAccessor{base: base{kind: "builtin method '" + name + "'"}, name: name, tuple: tuple}
}

func (cta *ConstantTupleAccessor) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	if n := len(args) + len(kwargs); n > 0 {
		return nil, report.Raise(report.KindSchema, loc, "'%s' takes no arguments but %d were given", cta.name, n)
	}

	elems := make([]Value, len(cta.tuple.elems))
	copy(elems, cta.tuple.elems)
	return NewConstantTuple(elems), nil
}

// -----------------------------------------------------------------------------

// ParameterBundle is a value holding the list of learnable tensors of a
// module.  Calling it with no arguments returns the list.
type ParameterBundle struct {
	base
	value ir.Value
}

// NewParameterBundle wraps a parameter list value.
func NewParameterBundle(value ir.Value) *ParameterBundle {
	return &ParameterBundle{base: base{kind: "parameter list"}, value: value}
}

func (pb *ParameterBundle) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	if n := len(args) + len(kwargs); n > 0 {
		return nil, report.Raise(report.KindSchema, loc, "parameter list takes no arguments but %d were given", n)
	}

	return NewSimpleValue(pb.value), nil
}

func (pb *ParameterBundle) AsValue(loc *report.TextSpan, fn *ir.Function) (ir.Value, error) {
	return pb.value, nil
}
