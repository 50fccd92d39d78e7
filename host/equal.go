package host

import (
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// Equaler is implemented by host objects that define their own equality.  Like
// host equality, the comparison may fail.
type Equaler interface {
	HostEqual(other Object) (bool, error)
}

// Equal performs the equivalent of `a == b` in the host language.  Objects
// without value equality compare by identity.  Failures of the comparison
// itself are returned as errors and must never be read as "not equal".
func Equal(a, b Object) (bool, error) {
	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}

	switch av := a.(type) {
	case *Value:
		bv, ok := b.(*Value)
		if !ok {
			return false, nil
		}

		x, y := av.V, bv.V
		if x.Type().Equals(cty.Bool) && y.Type().Equals(cty.Number) {
			x = boolAsNumber(x)
		} else if x.Type().Equals(cty.Number) && y.Type().Equals(cty.Bool) {
			y = boolAsNumber(y)
		}

		res := x.Equals(y)
		if !res.IsKnown() {
			return false, errors.Errorf("cannot compare %s with %s: value is not yet resolved", av.TypeName(), bv.TypeName())
		}

		return res.True(), nil
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok {
			return false, nil
		}

		return equalElems(av.Elems, bv.Elems)
	case *List:
		bv, ok := b.(*List)
		if !ok {
			return false, nil
		}

		return equalElems(av.Elems, bv.Elems)
	case Equaler:
		return av.HostEqual(b)
	}

	return a == b, nil
}

// boolAsNumber converts a boolean to 0 or 1.  Booleans are numbers in host
// comparisons.
func boolAsNumber(v cty.Value) cty.Value {
	if !v.IsKnown() || v.IsNull() {
		return v
	}

	if v.True() {
		return cty.NumberIntVal(1)
	}

	return cty.NumberIntVal(0)
}

func equalElems(as, bs []Object) (bool, error) {
	if len(as) != len(bs) {
		return false, nil
	}

	for i, a := range as {
		eq, err := Equal(a, bs[i])
		if err != nil || !eq {
			return false, err
		}
	}

	return true, nil
}

// HostEqual compares tensors the way the host does when a boolean result is
// required: only single-element tensors have an unambiguous truth value.
func (t *Tensor) HostEqual(other Object) (bool, error) {
	ot, ok := other.(*Tensor)
	if !ok {
		return false, nil
	}

	if t == ot {
		return true, nil
	}

	if t.Numel() != 1 || ot.Numel() != 1 {
		return false, errors.New("the truth value of a tensor with more than one element is ambiguous")
	}

	if len(t.Data) != 1 || len(ot.Data) != 1 {
		return false, errors.New("cannot compare tensors without materialized data")
	}

	return t.Data[0] == ot.Data[0], nil
}
