package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnshapedErasesNestedTensorTypes(t *testing.T) {
	shaped := &TupleType{ElementTypes: []Type{
		&TensorType{DType: "float32", Shape: []int{2, 3}, Shaped: true},
		&ListType{ElemType: &TensorType{Shape: []int{5}, Shaped: true}},
		IntType,
	}}

	got := Unshaped(shaped)
	want := &TupleType{ElementTypes: []Type{
		Tensor,
		&ListType{ElemType: Tensor},
		IntType,
	}}

	if !Equals(got, want) {
		t.Errorf("Unshaped(%s) = %s, want %s", shaped.Repr(), got.Repr(), want.Repr())
	}

	if Equals(shaped, want) {
		t.Errorf("shaped type %s must not equal its unshaped form", shaped.Repr())
	}
}

func TestTensorShapesOnlyMatterWhenShaped(t *testing.T) {
	a := Unshaped(&TensorType{Shape: []int{2, 3}, Shaped: true})
	b := Unshaped(&TensorType{DType: "int64", Shape: []int{5}, Shaped: true})

	if !Equals(a, b) {
		t.Errorf("%s and %s should be equal once unshaped", a.Repr(), b.Repr())
	}
}

func TestIsSubtype(t *testing.T) {
	tests := []struct {
		name       string
		sub, super Type
		want       bool
	}{
		{"same primitive", IntType, IntType, true},
		{"different primitive", IntType, FloatType, false},
		{"anything is any", StrType, AnyType, true},
		{"none is optional", NoneType, &OptionalType{ElemType: IntType}, true},
		{"elem is optional", IntType, &OptionalType{ElemType: IntType}, true},
		{"wrong elem is not optional", StrType, &OptionalType{ElemType: IntType}, false},
		{"shaped tensor is tensor", &TensorType{Shape: []int{1}, Shaped: true}, Tensor, true},
		{"typed tensor is tensor", &TensorType{DType: "int64"}, Tensor, true},
		{"tensor is not typed tensor", Tensor, &TensorType{DType: "int64"}, false},
		{"covariant tuple", &TupleType{ElementTypes: []Type{NoneType}}, &TupleType{ElementTypes: []Type{&OptionalType{ElemType: IntType}}}, true},
		{"tuple arity", &TupleType{ElementTypes: []Type{IntType}}, &TupleType{ElementTypes: []Type{IntType, IntType}}, false},
		{"unshaped list view", &ListType{ElemType: &TensorType{Shape: []int{3}, Shaped: true}}, &ListType{ElemType: Tensor}, true},
		{"untyped tensor into unshaped typed tensor", Tensor, Unshaped(&TensorType{DType: "float32", Shape: []int{3}, Shaped: true}), true},
		{"tensor is not int", Tensor, IntType, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsSubtype(test.sub, test.super); got != test.want {
				t.Errorf("IsSubtype(%s, %s) = %v, want %v", test.sub.Repr(), test.super.Repr(), got, test.want)
			}
		})
	}
}

func TestFuncTypesCompareByIdentity(t *testing.T) {
	name := QualifiedName{Prefix: "lib", Name: "f"}

	if Equals(&FuncType{Name: name, ID: 1}, &FuncType{Name: name, ID: 2}) {
		t.Error("distinct functions sharing a name must have distinct types")
	}

	if !Equals(&FuncType{Name: name, ID: 1}, &FuncType{Name: name, ID: 1}) {
		t.Error("the same function must have equal types")
	}
}

func TestQualifiedName(t *testing.T) {
	qn := ParseQualifiedName("models.encoder.Encoder")

	if diff := cmp.Diff(QualifiedName{Prefix: "models.encoder", Name: "Encoder"}, qn); diff != "" {
		t.Errorf("ParseQualifiedName mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"models", "encoder", "Encoder"}, qn.Atoms()); diff != "" {
		t.Errorf("Atoms mismatch (-want +got):\n%s", diff)
	}

	if got := ParseQualifiedName("Encoder").String(); got != "Encoder" {
		t.Errorf("String() = %q, want %q", got, "Encoder")
	}
}

func TestClassFields(t *testing.T) {
	ct := NewClassType(QualifiedName{Name: "Net"}, true)
	ct.AddField("weight", Tensor, true)
	ct.AddField("depth", IntType, false)

	if ct.AddField("depth", FloatType, false) {
		t.Error("AddField accepted a duplicate field")
	}

	if got := ct.FieldIndex("depth"); got != 1 {
		t.Errorf("FieldIndex(depth) = %d, want 1", got)
	}

	field, ok := ct.FindField("weight")
	if !ok || !field.IsParameter {
		t.Errorf("FindField(weight) = %+v, %v", field, ok)
	}

	if Equals(ct, NewClassType(QualifiedName{Name: "Net"}, true)) {
		t.Error("class types must be nominal")
	}
}
