package host

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
)

func TestEqualUsesHostSemantics(t *testing.T) {
	tests := []struct {
		name string
		a, b Object
		want bool
	}{
		{"int equals float", Int(1), Float(1.0), true},
		{"different ints", Int(1), Int(2), false},
		{"str and int", Str("1"), Int(1), false},
		{"none equals none", None(), None(), true},
		{"none and int", None(), Int(0), false},
		{"bools", Bool(true), Bool(true), true},
		{"true equals one", Bool(true), Int(1), true},
		{"zero float equals false", Float(0), Bool(false), true},
		{"true is not two", Bool(true), Int(2), false},
		{"tuples elementwise", NewTuple(Int(1), Str("x")), NewTuple(Float(1), Str("x")), true},
		{"tuple lengths", NewTuple(Int(1)), NewTuple(Int(1), Int(1)), false},
		{"tuple and list", NewTuple(Int(1)), NewList(Int(1)), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Equal(test.a, test.b)
			if err != nil {
				t.Fatalf("Equal returned error: %s", err)
			}

			if got != test.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", test.a.TypeName(), test.b.TypeName(), got, test.want)
			}
		})
	}
}

func TestEqualPropagatesComparisonFailures(t *testing.T) {
	if _, err := Equal(Unresolved(), Int(1)); err == nil {
		t.Error("comparing an unresolved value must fail")
	}

	if _, err := Equal(NewTuple(Int(1), Unresolved()), NewTuple(Int(1), Int(2))); err == nil {
		t.Error("comparing a tuple holding an unresolved value must fail")
	}

	a := &Tensor{Shape: []int{2, 2}}
	b := &Tensor{Shape: []int{2, 2}}
	_, err := Equal(a, b)
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("comparing multi-element tensors: got %v, want ambiguity error", err)
	}

	if eq, err := Equal(a, a); err != nil || !eq {
		t.Errorf("a tensor must equal itself: got %v, %v", eq, err)
	}

	eq, err := Equal(&Tensor{Shape: []int{1}, Data: []float64{2}}, &Tensor{Shape: []int{1}, Data: []float64{2}})
	if err != nil || !eq {
		t.Errorf("single-element tensors: got %v, %v", eq, err)
	}
}

func TestDictSetMatchesKeysByHostEquality(t *testing.T) {
	d := &Dict{}
	d.Set(Int(1), Str("a"))
	d.Set(Float(1.0), Str("b"))
	d.Set(Str("k"), Str("c"))

	if len(d.Keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(d.Keys))
	}

	if diff := deep.Equal(d.Values[0], Object(Str("b"))); diff != nil {
		t.Error(diff)
	}
}

func TestClassification(t *testing.T) {
	if !IsConstant(NewTuple(Int(1), NewTuple(Str("a"), None()))) {
		t.Error("nested tuple of constants is a constant")
	}

	if IsConstant(NewTuple(Int(1), &Tensor{})) {
		t.Error("tuple holding a tensor is not a constant")
	}

	if IsConstant(NewList(Int(1))) {
		t.Error("lists are not constants")
	}

	if _, ok := ConstantElems(NewList(Int(1), Str("a"))); !ok {
		t.Error("list of constants has constant elements")
	}

	if !IsCallable(&Function{Name: "f"}) || IsCallable(Int(1)) {
		t.Error("IsCallable misclassifies")
	}
}

func TestModuleSetAttr(t *testing.T) {
	cls := NewModuleClass("models", "Net")
	mod := NewModule(cls)
	mod.AddParameter("weight", &Tensor{Shape: []int{3}})
	mod.AddModule("inner", NewModule(NewModuleClass("models", "Inner")))

	if err := mod.SetAttr("weight", Int(1)); err == nil {
		t.Error("assigning a non-tensor to a parameter must fail")
	}

	if err := mod.SetAttr("inner", Int(1)); err == nil {
		t.Error("assigning a non-module to a submodule must fail")
	}

	if err := mod.SetAttr("depth", Int(3)); err != nil {
		t.Fatal(err)
	}

	if err := mod.SetAttr("extra", NewModule(NewModuleClass("models", "Extra"))); err != nil {
		t.Fatal(err)
	}

	var kinds []string
	for _, member := range mod.Members() {
		kinds = append(kinds, member.Name+":"+member.Kind.String())
	}

	want := []string{"weight:parameter", "inner:submodule", "depth:attribute", "extra:submodule"}
	if diff := deep.Equal(kinds, want); diff != nil {
		t.Error(diff)
	}

	if got := len(mod.Submodules()); got != 2 {
		t.Errorf("got %d submodules, want 2", got)
	}
}

func TestIdentitiesAreStable(t *testing.T) {
	f := &Function{Name: "f"}
	g := &Function{Name: "f"}

	if f.ID() == 0 || f.ID() != f.ID() {
		t.Error("function identity must be non-zero and stable")
	}

	if f.ID() == g.ID() {
		t.Error("distinct functions must have distinct identities")
	}
}
