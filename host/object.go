// Package host models the objects of the host language that the compiler
// encounters while compiling: constants, tensors, containers, functions,
// classes, module instances and namespaces.
package host

import (
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// Object is any host-language object.
type Object interface {
	// TypeName returns the host-level name of the object's type for use in
	// diagnostics: eg. `int`, `Tensor`, `function`.
	TypeName() string
}

// TypeString returns the host type name of an object, tolerating nil.
func TypeString(obj Object) string {
	if obj == nil {
		return "NoneType"
	}

	return obj.TypeName()
}

// -----------------------------------------------------------------------------

// Value is a host constant: an int, float, bool, str or None.  The payload is a
// cty value so that comparisons follow host equality semantics (`1 == 1.0`).
type Value struct {
	V cty.Value

	// Numbers are untyped in cty: this records whether the host value was
	// written as a float.
	isFloat bool
}

// Int creates a host integer.
func Int(i int64) *Value {
	return &Value{V: cty.NumberIntVal(i)}
}

// Float creates a host float.
func Float(f float64) *Value {
	return &Value{V: cty.NumberFloatVal(f), isFloat: true}
}

// Str creates a host string.
func Str(s string) *Value {
	return &Value{V: cty.StringVal(s)}
}

// Bool creates a host boolean.
func Bool(b bool) *Value {
	return &Value{V: cty.BoolVal(b)}
}

// None creates the host None value.
func None() *Value {
	return &Value{V: cty.NullVal(cty.DynamicPseudoType)}
}

// Unresolved creates a host value whose contents are not yet known: a lazily
// computed host constant.  Comparing it with anything fails.
func Unresolved() *Value {
	return &Value{V: cty.UnknownVal(cty.Number)}
}

// FromCty wraps a cty value.  Numbers that are not whole are marked as floats.
func FromCty(v cty.Value) *Value {
	isFloat := false
	if v.IsKnown() && !v.IsNull() && v.Type() == cty.Number {
		isFloat = !v.AsBigFloat().IsInt()
	}

	return &Value{V: v, isFloat: isFloat}
}

// IsNone returns whether the value is None.
func (v *Value) IsNone() bool {
	return v.V.IsKnown() && v.V.IsNull()
}

// IsFloat returns whether the value is a host float.
func (v *Value) IsFloat() bool {
	return v.isFloat
}

// AsBool returns the value as a boolean if it is a known boolean.
func (v *Value) AsBool() (bool, bool) {
	if v.V.IsKnown() && !v.V.IsNull() && v.V.Type() == cty.Bool {
		return v.V.True(), true
	}

	return false, false
}

// AsInt returns the value as an integer if it is a known whole number.
func (v *Value) AsInt() (int64, bool) {
	if v.V.IsKnown() && !v.V.IsNull() && v.V.Type() == cty.Number && !v.isFloat {
		i, acc := v.V.AsBigFloat().Int64()
		return i, acc == big.Exact
	}

	return 0, false
}

func (v *Value) TypeName() string {
	switch {
	case !v.V.IsKnown():
		return "unresolved"
	case v.V.IsNull():
		return "NoneType"
	case v.V.Type() == cty.Bool:
		return "bool"
	case v.V.Type() == cty.String:
		return "str"
	case v.V.Type() == cty.Number:
		if v.isFloat {
			return "float"
		}

		return "int"
	}

	return v.V.Type().FriendlyName()
}

// -----------------------------------------------------------------------------

// Tensor is a host tensor.  Only its metadata matters to the compiler; Data is
// optional and only used for host equality of single-element tensors.
type Tensor struct {
	DType        string
	Shape        []int
	RequiresGrad bool
	Data         []float64
}

func (t *Tensor) TypeName() string {
	return "Tensor"
}

// Numel returns the number of elements of the tensor.
func (t *Tensor) Numel() int {
	n := 1
	for _, dim := range t.Shape {
		n *= dim
	}

	return n
}

// -----------------------------------------------------------------------------

// Tuple is a host tuple.
type Tuple struct {
	Elems []Object
}

// NewTuple creates a host tuple of the given elements.
func NewTuple(elems ...Object) *Tuple {
	return &Tuple{Elems: elems}
}

func (t *Tuple) TypeName() string {
	return "tuple"
}

// List is a host list.
type List struct {
	Elems []Object
}

// NewList creates a host list of the given elements.
func NewList(elems ...Object) *List {
	return &List{Elems: elems}
}

func (l *List) TypeName() string {
	return "list"
}

// Dict is an insertion-ordered host dictionary.
type Dict struct {
	Keys   []Object
	Values []Object

	// Whether the host type is an OrderedDict rather than a plain dict.
	Ordered bool
}

// Set inserts or replaces an entry.  Keys are matched with host equality;
// keys that cannot be compared are treated as distinct.
func (d *Dict) Set(key, value Object) {
	for i, k := range d.Keys {
		if eq, err := Equal(k, key); err == nil && eq {
			d.Values[i] = value
			return
		}
	}

	d.Keys = append(d.Keys, key)
	d.Values = append(d.Values, value)
}

func (d *Dict) TypeName() string {
	if d.Ordered {
		return "OrderedDict"
	}

	return "dict"
}

// -----------------------------------------------------------------------------

// Namespace is a host module of functions: eg. `math` or a user package.
type Namespace struct {
	Name    string
	Members map[string]Object
}

// NewNamespace creates an empty namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{Name: name, Members: make(map[string]Object)}
}

// Get looks up a member of the namespace.
func (ns *Namespace) Get(name string) (Object, bool) {
	obj, ok := ns.Members[name]
	return obj, ok
}

func (ns *Namespace) TypeName() string {
	return "module"
}

// -----------------------------------------------------------------------------

// BooleanDispatch is a host function that dispatches between two functions
// based on the value of a boolean argument.
type BooleanDispatch struct {
	Name string

	// ArgName and Index locate the dispatch argument by keyword and by
	// position.  Index is -1 if the argument cannot be passed positionally.
	ArgName string
	Index   int

	// Default is used when the dispatch argument is not supplied.
	Default bool

	IfTrue, IfFalse Object
}

func (bd *BooleanDispatch) TypeName() string {
	return "function"
}

// OverloadedFunction is a host function with several declared overloads.
// Each overload is compiled separately and tried in declaration order.
type OverloadedFunction struct {
	Name      string
	Overloads []*Function
}

func (of *OverloadedFunction) TypeName() string {
	return "function"
}
