package concrete

import (
	"fmt"

	"scriptc/common"
	"scriptc/host"
	"scriptc/report"
	"scriptc/script"
	"scriptc/types"

	"github.com/pkg/errors"
)

// Outcome is the classification of a single data member of a module.  It must
// be one of the enumerated outcomes.
type Outcome int

// Enumeration of member classification outcomes.
const (
	OutcomePlain = Outcome(iota)
	OutcomeParameter
	OutcomeDeferredFailure
)

// Classification is the result of classifying a data member.
type Classification struct {
	Outcome Outcome

	// Type is the inferred type for plain and parameter members.
	Type types.Type

	// Reason explains a deferred failure.
	Reason string
}

// Classify decides how a data member of a module is compiled.  Members that
// cannot be converted are not errors: they are deferred failures which only
// surface if the member is accessed from compiled code.
func Classify(member host.Member) Classification {
	typ, err := InferType(member.Value)
	if err != nil {
		return Classification{
			Outcome: OutcomeDeferredFailure,
			Reason: fmt.Sprintf(
				"this attribute exists on the host module, but its host type '%s' could not be converted to a compiled type: %s",
				host.TypeString(member.Value), err,
			),
		}
	}

	if member.Kind == host.MemberParameter {
		return Classification{Outcome: OutcomeParameter, Type: typ}
	}

	return Classification{Outcome: OutcomePlain, Type: typ}
}

// InferType infers the compiled type of a host value from the value itself.
func InferType(obj host.Object) (types.Type, error) {
	switch v := obj.(type) {
	case *host.Value:
		return script.ConstantType(v)
	case *host.Tensor:
		shape := make([]int, len(v.Shape))
		copy(shape, v.Shape)
		return &types.TensorType{DType: v.DType, Shape: shape, Shaped: true}, nil
	case *host.Tuple:
		elemTypes := make([]types.Type, len(v.Elems))
		for i, elem := range v.Elems {
			elemType, err := InferType(elem)
			if err != nil {
				return nil, errors.Wrapf(err, "tuple element %d", i)
			}

			elemTypes[i] = elemType
		}

		return &types.TupleType{ElementTypes: elemTypes}, nil
	case *host.List:
		elemType, err := unifyElems(v.Elems)
		if err != nil {
			return nil, errors.Wrap(err, "list")
		}

		return &types.ListType{ElemType: elemType}, nil
	case *host.Dict:
		keyType, err := unifyElems(v.Keys)
		if err != nil {
			return nil, errors.Wrap(err, "dict keys")
		}

		if !types.Equals(keyType, types.StrType) && !types.Equals(keyType, types.IntType) && !types.Equals(keyType, types.FloatType) {
			return nil, errors.Errorf("dictionary keys must be str, int or float, not '%s'", keyType.Repr())
		}

		valueType, err := unifyElems(v.Values)
		if err != nil {
			return nil, errors.Wrap(err, "dict values")
		}

		return &types.DictType{KeyType: keyType, ValueType: valueType}, nil
	}

	return nil, errors.Errorf("type '%s' is not supported", host.TypeString(obj))
}

// unifyElems infers the single type shared by all elements of a container.
// Shapes are erased first so that tensors of different shapes unify.
func unifyElems(elems []host.Object) (types.Type, error) {
	if len(elems) == 0 {
		return nil, errors.New("cannot infer the element type of an empty container")
	}

	var elemType types.Type
	for i, elem := range elems {
		typ, err := InferType(elem)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}

		typ = types.Unshaped(typ)
		if elemType == nil {
			elemType = typ
		} else if !types.Equals(elemType, typ) {
			return nil, errors.Errorf("elements have different types: '%s' and '%s'", elemType.Repr(), typ.Repr())
		}
	}

	return elemType, nil
}

// -----------------------------------------------------------------------------

// Specialize builds the module type of a host module instance and resolves it
// through the cache: an equal module type already in the cache is returned
// instead of materializing a new one.  Submodules are specialized first.
func Specialize(mod *host.Module, cache *Cache) (*ConcreteModuleType, error) {
	cls := mod.Class
	cmt := New(cls)

	for _, name := range cls.Constants {
		member, ok := mod.Get(name)
		if !ok {
			cmt.AddFailedAttribute(name, fmt.Sprintf("'%s' is declared as a constant of '%s' but is not present on the module", name, cls.Name))
			continue
		}

		if !host.IsConstant(member.Value) {
			return nil, report.Raise(
				report.KindConstant,
				nil,
				"'%s' object for attribute '%s' is not a valid constant: constants must be None, bool, int, float, str or tuples of those",
				host.TypeString(member.Value),
				name,
			)
		}

		cmt.AddConstant(name, member.Value)
	}

	for _, member := range mod.Members() {
		if cls.IsConstantName(member.Name) {
			continue
		}

		switch member.Kind {
		case host.MemberSubmodule:
			sub, err := Specialize(member.Value.(*host.Module), cache)
			if err != nil {
				return nil, err
			}

			cmt.AddModule(member.Name, sub)
			continue
		case host.MemberAttribute:
			if addFunctionAttribute(cmt, member) {
				continue
			}
		}

		c := Classify(member)
		switch c.Outcome {
		case OutcomePlain:
			cmt.AddAttribute(member.Name, c.Type, false)
		case OutcomeParameter:
			cmt.AddAttribute(member.Name, c.Type, true)
		case OutcomeDeferredFailure:
			report.Logger().Trace("deferring attribute failure", "class", cls.Name, "attribute", member.Name)
			cmt.AddFailedAttribute(member.Name, c.Reason)
		}
	}

	for _, name := range sortedKeys(cls.Overloads) {
		cmt.AddOverload(name, cls.Overloads[name])
	}

	return cache.LookupOrMaterialize(cmt)
}

// addFunctionAttribute records a function-valued attribute.  It returns false
// if the member does not hold a function.
func addFunctionAttribute(cmt *ConcreteModuleType, member host.Member) bool {
	switch fn := member.Value.(type) {
	case *host.Function:
		cmt.AddFunctionAttribute(member.Name, fn.Type(), fn)
		return true
	case *script.Function:
		cmt.AddFunctionAttribute(member.Name, &types.FuncType{
			Name: fn.Name,
			ID:   common.GenerateIDFromName(fn.Name.String()),
		}, fn)
		return true
	}

	return false
}
