package types

import (
	"strconv"
	"strings"
)

// Type represents a compiled data type.
type Type interface {
	// Returns whether this type is equal to the other type.  This does not
	// account for inner types/type unwrapping: it should only be called within
	// methods of type instances.
	equals(other Type) bool

	// Returns the representative string for this type.  Equal types always
	// have equal representations.
	Repr() string
}

// Equals returns whether two types are equal.
func Equals(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.equals(b)
}

// -----------------------------------------------------------------------------

// PrimitiveType represents a primitive type.  This must be one of the
// enumerated primitive type values below.
type PrimitiveType int

// Enumeration of the different primitive types.
const (
	PrimTypeNone = PrimitiveType(iota)
	PrimTypeBool
	PrimTypeInt
	PrimTypeFloat
	PrimTypeStr
	PrimTypeDevice
	PrimTypeAny
)

var (
	NoneType   Type = PrimTypeNone
	BoolType   Type = PrimTypeBool
	IntType    Type = PrimTypeInt
	FloatType  Type = PrimTypeFloat
	StrType    Type = PrimTypeStr
	DeviceType Type = PrimTypeDevice
	AnyType    Type = PrimTypeAny
)

func (pt PrimitiveType) equals(other Type) bool {
	if opt, ok := other.(PrimitiveType); ok {
		return pt == opt
	}

	return false
}

func (pt PrimitiveType) Repr() string {
	switch pt {
	case PrimTypeNone:
		return "NoneType"
	case PrimTypeBool:
		return "bool"
	case PrimTypeInt:
		return "int"
	case PrimTypeFloat:
		return "float"
	case PrimTypeStr:
		return "str"
	case PrimTypeDevice:
		return "Device"
	default:
		return "Any"
	}
}

// -----------------------------------------------------------------------------

// TensorType represents a tensor.  A tensor type may carry the data type and
// shape of the value it was inferred from; Unshaped erases both.
type TensorType struct {
	// The element data type name: eg. "float32".  Empty means unknown.
	DType string

	// The concrete shape.  This is only meaningful if Shaped is set.
	Shape []int

	Shaped bool
}

// Tensor is the unshaped tensor type of unknown element type.
var Tensor Type = &TensorType{}

func (tt *TensorType) equals(other Type) bool {
	if ott, ok := other.(*TensorType); ok {
		if tt.DType != ott.DType || tt.Shaped != ott.Shaped {
			return false
		}

		if tt.Shaped {
			if len(tt.Shape) != len(ott.Shape) {
				return false
			}

			for i, dim := range tt.Shape {
				if dim != ott.Shape[i] {
					return false
				}
			}
		}

		return true
	}

	return false
}

func (tt *TensorType) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("Tensor")

	if tt.DType != "" || tt.Shaped {
		sb.WriteRune('(')
		sb.WriteString(tt.DType)

		if tt.Shaped {
			sb.WriteRune('[')
			for i, dim := range tt.Shape {
				if i != 0 {
					sb.WriteString(", ")
				}

				sb.WriteString(strconv.Itoa(dim))
			}
			sb.WriteRune(']')
		}

		sb.WriteRune(')')
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// TupleType represents a tuple type.
type TupleType struct {
	// The element types of the tuple.
	ElementTypes []Type
}

func (tt *TupleType) equals(other Type) bool {
	if ott, ok := other.(*TupleType); ok {
		if len(tt.ElementTypes) == len(ott.ElementTypes) {
			for i, elemType := range tt.ElementTypes {
				if !Equals(elemType, ott.ElementTypes[i]) {
					return false
				}
			}

			return true
		}
	}

	return false
}

func (tt *TupleType) Repr() string {
	sb := strings.Builder{}
	sb.WriteString("Tuple[")

	for i, elemType := range tt.ElementTypes {
		if i != 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(elemType.Repr())
	}

	sb.WriteRune(']')
	return sb.String()
}

// -----------------------------------------------------------------------------

// ListType represents a homogeneous list type.
type ListType struct {
	ElemType Type
}

func (lt *ListType) equals(other Type) bool {
	if olt, ok := other.(*ListType); ok {
		return Equals(lt.ElemType, olt.ElemType)
	}

	return false
}

func (lt *ListType) Repr() string {
	return "List[" + lt.ElemType.Repr() + "]"
}

// -----------------------------------------------------------------------------

// DictType represents a dictionary type.
type DictType struct {
	KeyType, ValueType Type
}

func (dt *DictType) equals(other Type) bool {
	if odt, ok := other.(*DictType); ok {
		return Equals(dt.KeyType, odt.KeyType) && Equals(dt.ValueType, odt.ValueType)
	}

	return false
}

func (dt *DictType) Repr() string {
	return "Dict[" + dt.KeyType.Repr() + ", " + dt.ValueType.Repr() + "]"
}

// -----------------------------------------------------------------------------

// OptionalType represents a value that may be None.
type OptionalType struct {
	ElemType Type
}

func (ot *OptionalType) equals(other Type) bool {
	if oot, ok := other.(*OptionalType); ok {
		return Equals(ot.ElemType, oot.ElemType)
	}

	return false
}

func (ot *OptionalType) Repr() string {
	return "Optional[" + ot.ElemType.Repr() + "]"
}

// -----------------------------------------------------------------------------

// FuncType is the type of a host function used as a value.  Functions are not
// first-class in the compiled type system, so two function types are equal
// only if they name the same host function.
type FuncType struct {
	// The qualified name of the host function.
	Name QualifiedName

	// The identity of the host function: distinct functions sharing a name
	// (eg. two closures) have distinct identities.
	ID uint64
}

func (ft *FuncType) equals(other Type) bool {
	if oft, ok := other.(*FuncType); ok {
		return ft.ID == oft.ID && ft.Name == oft.Name
	}

	return false
}

func (ft *FuncType) Repr() string {
	return "Function<" + ft.Name.String() + ">"
}

// -----------------------------------------------------------------------------

// Unshaped returns the type with every tensor (including tensors nested in
// containers) widened to the plain Tensor type.  Data type and shape are
// runtime properties, not type identity properties.
func Unshaped(typ Type) Type {
	switch v := typ.(type) {
	case *TensorType:
		return Tensor
	case *TupleType:
		elems := make([]Type, len(v.ElementTypes))
		for i, elemType := range v.ElementTypes {
			elems[i] = Unshaped(elemType)
		}

		return &TupleType{ElementTypes: elems}
	case *ListType:
		return &ListType{ElemType: Unshaped(v.ElemType)}
	case *DictType:
		return &DictType{KeyType: Unshaped(v.KeyType), ValueType: Unshaped(v.ValueType)}
	case *OptionalType:
		return &OptionalType{ElemType: Unshaped(v.ElemType)}
	}

	return typ
}

// IsSubtype returns whether a value of type sub can be used where a value of
// type super is expected.
func IsSubtype(sub, super Type) bool {
	if Equals(sub, super) || Equals(super, AnyType) {
		return true
	}

	switch v := super.(type) {
	case *OptionalType:
		return Equals(sub, NoneType) || IsSubtype(sub, v.ElemType)
	case *TensorType:
		// A shaped or typed tensor may flow into a less specific tensor.
		if st, ok := sub.(*TensorType); ok {
			if v.Shaped {
				return false
			}

			return v.DType == "" || v.DType == st.DType
		}
	case *TupleType:
		if st, ok := sub.(*TupleType); ok && len(st.ElementTypes) == len(v.ElementTypes) {
			for i, elemType := range st.ElementTypes {
				if !IsSubtype(elemType, v.ElementTypes[i]) {
					return false
				}
			}

			return true
		}
	case *ListType:
		// Lists are invariant, but an unshaped element view is accepted.
		if st, ok := sub.(*ListType); ok {
			return Equals(Unshaped(st.ElemType), v.ElemType)
		}
	}

	return false
}
