package script

import (
	"scriptc/report"
	"scriptc/types"

	llvm "github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
)

// EmitLLVM produces an LLVM module declaring one named struct type per
// registered class type.  Fields referring to other classes are pointers to
// their struct types.
func (u *Unit) EmitLLVM() *llvm.Module {
	mod := llvm.NewModule()
	structs := make(map[*types.ClassType]*lltypes.StructType)

	// all typedefs are declared before any fields are converted so that
	// classes can refer to classes registered after them.
	classes := u.Classes()
	for _, ct := range classes {
		st := lltypes.NewStruct()
		mod.NewTypeDef(ct.Name.String(), st)
		structs[ct] = st
	}

	for _, ct := range classes {
		st := structs[ct]
		for _, field := range ct.Fields {
			st.Fields = append(st.Fields, convType(structs, field.Type))
		}
	}

	return mod
}

// convType converts a compiled type to its LLVM representation.  Host managed
// values (tensors, strings, containers) are opaque pointers.
func convType(structs map[*types.ClassType]*lltypes.StructType, typ types.Type) lltypes.Type {
	switch v := typ.(type) {
	case types.PrimitiveType:
		switch v {
		case types.PrimTypeBool:
			return lltypes.I1
		case types.PrimTypeInt:
			return lltypes.I64
		case types.PrimTypeFloat:
			return lltypes.Double
		default:
			return lltypes.I8Ptr
		}
	case *types.TupleType:
		fields := make([]lltypes.Type, len(v.ElementTypes))
		for i, elemType := range v.ElementTypes {
			fields[i] = convType(structs, elemType)
		}

		return lltypes.NewStruct(fields...)
	case *types.ClassType:
		st, ok := structs[v]
		report.Assert(ok, "class type `%s` is not registered", v.Name)
		return lltypes.NewPointer(st)
	case *types.TensorType, *types.ListType, *types.DictType, *types.OptionalType, *types.FuncType:
		return lltypes.I8Ptr
	}

	report.ICE("type `%s` has no LLVM representation", typ.Repr())
	return nil
}
