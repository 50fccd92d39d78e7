package types

// ClassType is a compiled class type.  Module classes are produced by
// materializing a module specialization; the type is registered in a
// compilation unit under its (possibly mangled) qualified name.
type ClassType struct {
	Name QualifiedName

	// Whether this class was materialized from a module.
	IsModule bool

	// Fields enumerates the compiled fields in insertion order.
	Fields []ClassField

	// fieldsByName is an auxilliary map used to look up fields by name instead
	// of by position.
	fieldsByName map[string]int
}

// ClassField is a single compiled field of a class type.
type ClassField struct {
	Name        string
	Type        Type
	IsParameter bool
}

// NewClassType creates a new class type with no fields.
func NewClassType(name QualifiedName, isModule bool) *ClassType {
	return &ClassType{
		Name:         name,
		IsModule:     isModule,
		fieldsByName: make(map[string]int),
	}
}

// AddField appends a field to the class.  It returns false if a field of the
// same name already exists.
func (ct *ClassType) AddField(name string, typ Type, isParameter bool) bool {
	if _, ok := ct.fieldsByName[name]; ok {
		return false
	}

	ct.fieldsByName[name] = len(ct.Fields)
	ct.Fields = append(ct.Fields, ClassField{Name: name, Type: typ, IsParameter: isParameter})
	return true
}

// FindField looks up a field by name.
func (ct *ClassType) FindField(name string) (ClassField, bool) {
	if ndx, ok := ct.fieldsByName[name]; ok {
		return ct.Fields[ndx], true
	}

	return ClassField{}, false
}

// FieldIndex returns the position of a named field or -1.
func (ct *ClassType) FieldIndex(name string) int {
	if ndx, ok := ct.fieldsByName[name]; ok {
		return ndx
	}

	return -1
}

// Class types are nominal: two class types are equal only if they are the
// same registered type.
func (ct *ClassType) equals(other Type) bool {
	if oct, ok := other.(*ClassType); ok {
		return ct == oct
	}

	return false
}

func (ct *ClassType) Repr() string {
	return ct.Name.String()
}
