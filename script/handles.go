package script

import (
	"scriptc/ir"
	"scriptc/types"
)

// Function is the handle of a compiled function.  It is a host object so that
// compiled functions can be stored on modules and namespaces like any other
// callable.
type Function struct {
	Name   types.QualifiedName
	Schema *Schema
	Graph  *ir.Function

	// Owner is the class type the function was compiled as a method of.  It is
	// nil for free functions.
	Owner *types.ClassType
}

func (f *Function) TypeName() string {
	return "ScriptFunction"
}

// IsMethod returns whether the function takes a receiver.
func (f *Function) IsMethod() bool {
	return f.Owner != nil
}

// Class is the handle of a compiled class type.
type Class struct {
	Type *types.ClassType
}

func (c *Class) TypeName() string {
	return "ScriptClass"
}
