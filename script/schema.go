package script

import (
	"strings"

	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/types"

	"github.com/pkg/errors"
)

// Argument is a single formal argument of a schema.
type Argument struct {
	Name string
	Type types.Type

	// Default is the host default value.  It is nil if the argument is
	// required.
	Default host.Object

	// KwargOnly indicates that the argument can only be passed by keyword.
	KwargOnly bool
}

// Schema is the signature of a compiled or host-implemented function.
type Schema struct {
	Name    string
	Args    []Argument
	Returns types.Type
}

func (s *Schema) String() string {
	sb := strings.Builder{}
	sb.WriteString(s.Name)
	sb.WriteRune('(')

	kwargOnly := false
	for i, arg := range s.Args {
		if i != 0 {
			sb.WriteString(", ")
		}

		if arg.KwargOnly && !kwargOnly {
			sb.WriteString("*, ")
			kwargOnly = true
		}

		sb.WriteString(arg.Type.Repr())
		sb.WriteRune(' ')
		sb.WriteString(arg.Name)

		if arg.Default != nil {
			sb.WriteRune('=')
			sb.WriteString(defaultRepr(arg.Default))
		}
	}

	sb.WriteString(") -> ")
	if s.Returns != nil {
		sb.WriteString(s.Returns.Repr())
	} else {
		sb.WriteRune('?')
	}

	return sb.String()
}

func defaultRepr(obj host.Object) string {
	switch v := obj.(type) {
	case *host.Value:
		return ir.ConstantRepr(v.V, v.IsFloat())
	case *host.Tuple:
		elems := make([]string, len(v.Elems))
		for i, elem := range v.Elems {
			elems[i] = defaultRepr(elem)
		}

		return "(" + strings.Join(elems, ", ") + ")"
	}

	return "<" + host.TypeString(obj) + ">"
}

// -----------------------------------------------------------------------------

// MatchedSchema is the result of matching call arguments against a schema.
type MatchedSchema struct {
	// Inputs holds one value per schema argument, with defaults filled in.
	Inputs []ir.Value

	Returns types.Type
}

// MatchSchema matches the arguments of a call against a schema.  If self is
// not nil, it is passed as the first positional argument.  The returned error
// describes the mismatch; it is not a compile error so that overload
// resolution can aggregate it.
func MatchSchema(fn *ir.Function, span *report.TextSpan, schema *Schema, self ir.Value, args, kwargs []ir.NamedValue) (*MatchedSchema, error) {
	var positional []ir.Value
	if self != nil {
		positional = append(positional, self)
	}

	for _, arg := range args {
		positional = append(positional, arg.Value)
	}

	nPositional := 0
	for _, arg := range schema.Args {
		if !arg.KwargOnly {
			nPositional++
		}
	}

	if len(positional) > nPositional {
		return nil, errors.Errorf("expected at most %d positional argument(s) but found %d", nPositional, len(positional))
	}

	usedKwargs := make(map[string]struct{})
	inputs := make([]ir.Value, len(schema.Args))
	for i, arg := range schema.Args {
		var v ir.Value
		if i < len(positional) {
			v = positional[i]

			if _, ok := findKwarg(kwargs, arg.Name); ok {
				return nil, errors.Errorf("argument '%s' specified both as positional and keyword argument", arg.Name)
			}
		} else if kw, ok := findKwarg(kwargs, arg.Name); ok {
			v = kw.Value
			usedKwargs[arg.Name] = struct{}{}
		} else if arg.Default != nil {
			dv, err := ConstantValue(fn, span, arg.Default)
			if err != nil {
				return nil, errors.Wrapf(err, "default of argument '%s'", arg.Name)
			}

			v = dv
		} else {
			return nil, errors.Errorf("argument '%s' not provided", arg.Name)
		}

		if !types.IsSubtype(v.Type(), arg.Type) {
			return nil, errors.Errorf("expected a value of type '%s' for argument '%s' but instead found type '%s'", arg.Type.Repr(), arg.Name, v.Type().Repr())
		}

		inputs[i] = v
	}

	for _, kw := range kwargs {
		if _, ok := usedKwargs[kw.Name]; !ok {
			return nil, errors.Errorf("keyword argument '%s' unknown", kw.Name)
		}
	}

	return &MatchedSchema{Inputs: inputs, Returns: schema.Returns}, nil
}

func findKwarg(kwargs []ir.NamedValue, name string) (ir.NamedValue, bool) {
	for _, kw := range kwargs {
		if kw.Name == name {
			return kw, true
		}
	}

	return ir.NamedValue{}, false
}
