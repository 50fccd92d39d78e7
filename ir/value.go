package ir

import (
	"fmt"
	"strconv"

	"scriptc/report"
	"scriptc/types"

	"github.com/zclconf/go-cty/cty"
)

// Value represents an operand that can be used in an instruction.
type Value interface {
	Repr() string

	Type() types.Type
}

// ValueBase is the base struct for all values.
type ValueBase struct {
	typ types.Type
}

func NewValueBase(typ types.Type) ValueBase {
	return ValueBase{typ: typ}
}

func (vb *ValueBase) Type() types.Type {
	return vb.typ
}

// -----------------------------------------------------------------------------

// Constant is a compile-time constant.  Its payload is the host value it was
// created from.
type Constant struct {
	ValueBase
	Val cty.Value
}

func (c *Constant) Repr() string {
	return fmt.Sprintf("const %s %s", ConstantRepr(c.Val, types.Equals(c.typ, types.FloatType)), c.typ.Repr())
}

// ConstantRepr returns the textual form of a constant payload.
func ConstantRepr(v cty.Value, isFloat bool) string {
	switch {
	case !v.IsKnown():
		return "<unknown>"
	case v.IsNull():
		return "None"
	case v.Type() == cty.Bool:
		if v.True() {
			return "True"
		}

		return "False"
	case v.Type() == cty.String:
		return strconv.Quote(v.AsString())
	case v.Type() == cty.Number:
		bf := v.AsBigFloat()
		if isFloat {
			f, _ := bf.Float64()
			return strconv.FormatFloat(f, 'g', -1, 64)
		}

		return bf.Text('f', 0)
	}

	return v.GoString()
}

// ConstBool returns the boolean held by a value if it is a boolean constant.
func ConstBool(v Value) (bool, bool) {
	if c, ok := v.(*Constant); ok && types.Equals(c.typ, types.BoolType) {
		if c.Val.IsKnown() && !c.Val.IsNull() {
			return c.Val.True(), true
		}
	}

	return false, false
}

// -----------------------------------------------------------------------------

// Param is a function parameter.
type Param struct {
	ValueBase
	Name string
}

func (p *Param) Repr() string {
	return "$" + p.Name
}

// Local is the name of a local SSA value.
type Local struct {
	ValueBase
	ID int
}

func (l *Local) Repr() string {
	return fmt.Sprintf("$%d", l.ID)
}

// -----------------------------------------------------------------------------

// NamedValue is an argument supplied at a call site.  Positional arguments
// have no name.
type NamedValue struct {
	Name  string
	Value Value
	Span  *report.TextSpan
}

// Positional wraps values as unnamed call arguments.
func Positional(values ...Value) []NamedValue {
	nvs := make([]NamedValue, len(values))
	for i, v := range values {
		nvs[i] = NamedValue{Value: v}
	}

	return nvs
}
