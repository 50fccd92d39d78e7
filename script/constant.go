package script

import (
	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/types"

	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// ConstantType returns the compiled type of a host constant.
func ConstantType(v *host.Value) (types.Type, error) {
	switch {
	case !v.V.IsKnown():
		return nil, errors.New("value is not yet resolved")
	case v.V.IsNull():
		return types.NoneType, nil
	}

	switch v.V.Type() {
	case cty.Bool:
		return types.BoolType, nil
	case cty.String:
		return types.StrType, nil
	case cty.Number:
		if v.IsFloat() {
			return types.FloatType, nil
		}

		return types.IntType, nil
	}

	return nil, errors.Errorf("unsupported constant of type %s", v.V.Type().FriendlyName())
}

// ConstantValue lowers a host constant or a tuple of constants into fn.
func ConstantValue(fn *ir.Function, span *report.TextSpan, obj host.Object) (ir.Value, error) {
	switch v := obj.(type) {
	case *host.Value:
		typ, err := ConstantType(v)
		if err != nil {
			return nil, err
		}

		return fn.Constant(v.V, typ), nil
	case *host.Tuple:
		elems := make([]ir.Value, len(v.Elems))
		elemTypes := make([]types.Type, len(v.Elems))
		for i, elem := range v.Elems {
			ev, err := ConstantValue(fn, span, elem)
			if err != nil {
				return nil, err
			}

			elems[i] = ev
			elemTypes[i] = ev.Type()
		}

		return fn.Emit(span, ir.OpTuple, &types.TupleType{ElementTypes: elemTypes}, "", elems...), nil
	}

	return nil, errors.Errorf("'%s' is not a constant", host.TypeString(obj))
}
