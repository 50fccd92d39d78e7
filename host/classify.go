package host

// IsConstant returns whether an object is a valid compile-time constant: a
// host value, or a tuple made only of constants.  Unresolved values are
// constants whose contents are not known yet.
func IsConstant(obj Object) bool {
	switch v := obj.(type) {
	case *Value:
		return true
	case *Tuple:
		for _, elem := range v.Elems {
			if !IsConstant(elem) {
				return false
			}
		}

		return true
	}

	return false
}

// IsCallable returns whether an object can be called in the host.
func IsCallable(obj Object) bool {
	switch obj.(type) {
	case *Function, *BoundMethod, *Builtin, *OverloadedFunction, *BooleanDispatch, *Class:
		return true
	}

	return false
}

// ConstantElems returns the elements of a tuple or list if all of them are
// constants.
func ConstantElems(obj Object) ([]Object, bool) {
	var elems []Object
	switch v := obj.(type) {
	case *Tuple:
		elems = v.Elems
	case *List:
		elems = v.Elems
	default:
		return nil, false
	}

	for _, elem := range elems {
		if !IsConstant(elem) {
			return nil, false
		}
	}

	return elems, true
}
