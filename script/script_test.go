package script

import (
	"strings"
	"testing"

	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/types"

	"github.com/google/go-cmp/cmp"
)

func TestMangleAvoidsRegisteredNames(t *testing.T) {
	unit := NewUnit()
	name := types.QualifiedName{Prefix: "models", Name: "Net"}
	unit.RegisterType(types.NewClassType(name, true))

	first := unit.Mangle(name)
	if diff := cmp.Diff("models.___script_mangle_0.Net", first.String()); diff != "" {
		t.Errorf("first mangle mismatch (-want +got):\n%s", diff)
	}

	unit.RegisterType(types.NewClassType(first, true))

	// mangling a mangled name replaces its mangling atom
	second := unit.Mangle(first)
	if diff := cmp.Diff("models.___script_mangle_1.Net", second.String()); diff != "" {
		t.Errorf("second mangle mismatch (-want +got):\n%s", diff)
	}

	if _, ok := unit.GetClass(first); !ok {
		t.Error("mangled class is not registered")
	}
}

func TestRegisterTypeTwiceIsInternalError(t *testing.T) {
	unit := NewUnit()
	name := types.QualifiedName{Name: "Net"}
	unit.RegisterType(types.NewClassType(name, true))

	defer func() {
		if _, ok := recover().(*report.InternalError); !ok {
			t.Error("registering a duplicate class name must panic with an internal error")
		}
	}()

	unit.RegisterType(types.NewClassType(name, true))
}

func TestDefineFunctionMangles(t *testing.T) {
	unit := NewUnit()
	name := types.QualifiedName{Prefix: "lib", Name: "f"}

	a := unit.DefineFunction(name, &Schema{Returns: types.Tensor}, ir.NewFunction("f"), nil)
	b := unit.DefineFunction(name, &Schema{Returns: types.Tensor}, ir.NewFunction("f"), nil)

	if a.Name == b.Name {
		t.Errorf("functions sharing a name were not mangled: %s", a.Name)
	}

	if got, _ := unit.GetFunction(b.Name); got != b {
		t.Error("GetFunction did not find the mangled function")
	}

	if len(unit.Functions()) != 2 {
		t.Errorf("got %d functions, want 2", len(unit.Functions()))
	}
}

func testSchema() *Schema {
	return &Schema{
		Name: "lib.scale",
		Args: []Argument{
			{Name: "x", Type: types.Tensor},
			{Name: "factor", Type: types.FloatType, Default: host.Float(2.0)},
			{Name: "inplace", Type: types.BoolType, Default: host.Bool(false), KwargOnly: true},
		},
		Returns: types.Tensor,
	}
}

func TestSchemaString(t *testing.T) {
	want := "lib.scale(Tensor x, float factor=2, *, bool inplace=False) -> Tensor"
	if diff := cmp.Diff(want, testSchema().String()); diff != "" {
		t.Errorf("schema string mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchSchemaFillsDefaults(t *testing.T) {
	fn := ir.NewFunction("caller")
	x := fn.AddParam("x", types.Tensor)

	matched, err := MatchSchema(fn, nil, testSchema(), nil, ir.Positional(x), nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(matched.Inputs) != 3 {
		t.Fatalf("got %d inputs, want 3", len(matched.Inputs))
	}

	if matched.Inputs[0] != ir.Value(x) {
		t.Error("first input is not the positional argument")
	}

	if b, ok := ir.ConstBool(matched.Inputs[2]); !ok || b {
		t.Errorf("keyword-only default not filled: %s", matched.Inputs[2].Repr())
	}
}

func TestMatchSchemaMismatches(t *testing.T) {
	fn := ir.NewFunction("caller")
	x := fn.AddParam("x", types.Tensor)
	i := fn.AddParam("i", types.IntType)

	tests := []struct {
		name         string
		args, kwargs []ir.NamedValue
		want         string
	}{
		{"missing", nil, nil, "argument 'x' not provided"},
		{"too many", ir.Positional(x, i, i), nil, "expected at most 2 positional argument(s) but found 3"},
		{"wrong type", ir.Positional(i), nil, "expected a value of type 'Tensor' for argument 'x' but instead found type 'int'"},
		{"unknown keyword", ir.Positional(x), []ir.NamedValue{{Name: "scale", Value: i}}, "keyword argument 'scale' unknown"},
		{"specified twice", ir.Positional(x), []ir.NamedValue{{Name: "x", Value: x}}, "argument 'x' specified both"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := MatchSchema(fn, nil, testSchema(), nil, test.args, test.kwargs)
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("got error %v, want it to contain %q", err, test.want)
			}
		})
	}
}

func TestConstantValue(t *testing.T) {
	fn := ir.NewFunction("f")

	v, err := ConstantValue(fn, nil, host.NewTuple(host.Int(1), host.Str("x")))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff("Tuple[int, str]", v.Type().Repr()); diff != "" {
		t.Errorf("tuple type mismatch (-want +got):\n%s", diff)
	}

	if _, err := ConstantValue(fn, nil, host.Unresolved()); err == nil {
		t.Error("an unresolved value has no constant")
	}

	if _, err := ConstantValue(fn, nil, &host.Tensor{}); err == nil {
		t.Error("a tensor is not a constant")
	}
}

func TestEmitLLVM(t *testing.T) {
	unit := NewUnit()

	inner := types.NewClassType(types.QualifiedName{Prefix: "models", Name: "Inner"}, true)
	inner.AddField("weight", types.Tensor, true)

	outer := types.NewClassType(types.QualifiedName{Prefix: "models", Name: "Outer"}, true)
	outer.AddField("depth", types.IntType, false)
	outer.AddField("scale", types.FloatType, false)
	outer.AddField("inner", inner, false)

	unit.RegisterType(outer)
	unit.RegisterType(inner)

	mod := unit.EmitLLVM()
	if len(mod.TypeDefs) != 2 {
		t.Fatalf("got %d type definitions, want 2", len(mod.TypeDefs))
	}

	text := mod.String()
	for _, want := range []string{"models.Outer", "models.Inner", "i64", "double"} {
		if !strings.Contains(text, want) {
			t.Errorf("LLVM output does not contain %q:\n%s", want, text)
		}
	}
}
