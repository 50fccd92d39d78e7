package lower

import (
	"strings"
	"testing"

	"scriptc/ast"
	"scriptc/concrete"
	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/script"
	"scriptc/types"

	"github.com/google/go-cmp/cmp"
)

func newCompiler() *Compiler {
	return NewCompiler(concrete.NewCache(script.NewUnit()))
}

func method(name string, params []host.Param, body ...ast.Stmt) *host.Function {
	return &host.Function{
		Name:   name,
		Module: "models",
		Params: append([]host.Param{{Name: "self"}}, params...),
		Body:   body,
	}
}

func tensorSchema(name string, args ...string) *script.Schema {
	schema := &script.Schema{Name: name, Returns: types.Tensor}
	for _, arg := range args {
		schema.Args = append(schema.Args, script.Argument{Name: arg, Type: types.Tensor})
	}

	return schema
}

func TestRecursiveFunction(t *testing.T) {
	f := &host.Function{Name: "f", Module: "lib", Params: []host.Param{{Name: "x"}}}
	f.Globals = map[string]host.Object{"f": f}
	f.Body = []ast.Stmt{ast.Ret(ast.C(ast.N("f"), ast.N("x")))}

	_, err := newCompiler().CompileFunction(nil, f, tensorSchema("lib.f", "x"))
	if !report.IsKind(err, report.KindRecursion) {
		t.Fatalf("got %v, want a recursion error", err)
	}

	if !strings.Contains(err.Error(), "recursive scripting is not supported: 'lib.f'") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestMutuallyRecursiveMethods(t *testing.T) {
	cls := host.NewModuleClass("models", "Loop")
	cls.AddMethod(method("forward", []host.Param{{Name: "x"}}, ast.Ret(ast.C(ast.A(ast.N("self"), "step"), ast.N("x")))))
	cls.AddMethod(method("step", []host.Param{{Name: "x"}}, ast.Ret(ast.C(ast.A(ast.N("self"), "forward"), ast.N("x")))))

	_, _, err := newCompiler().CompileModule(host.NewModule(cls), "forward")
	if !report.IsKind(err, report.KindRecursion) {
		t.Fatalf("got %v, want a recursion error", err)
	}
}

func TestCompileFunctionCaches(t *testing.T) {
	c := newCompiler()

	f := &host.Function{Name: "id", Module: "lib", Params: []host.Param{{Name: "x"}}}
	f.Body = []ast.Stmt{ast.Ret(ast.N("x"))}

	a, err := c.CompileFunction(nil, f, tensorSchema("lib.id", "x"))
	if err != nil {
		t.Fatal(err)
	}

	b, err := c.CompileFunction(nil, f, tensorSchema("lib.id", "x"))
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("compiling a function twice against the same signature must reuse it")
	}

	if len(c.cache.Unit().Functions()) != 1 {
		t.Errorf("got %d functions, want 1", len(c.cache.Unit().Functions()))
	}
}

func TestAnnotatedReturnMismatch(t *testing.T) {
	f := &host.Function{
		Name:    "size",
		Module:  "lib",
		Params:  []host.Param{{Name: "x"}},
		Returns: types.IntType,
		Body:    []ast.Stmt{ast.Ret(ast.N("x"))},
	}

	_, err := newCompiler().CompileFunction(nil, f, tensorSchema("lib.size", "x"))
	if !report.IsKind(err, report.KindSchema) {
		t.Fatalf("got %v, want a schema error", err)
	}
}

func newEncoderClass() *host.Class {
	cls := host.NewModuleClass("models", "Encoder")
	cls.AddMethod(method("forward", []host.Param{{Name: "x"}},
		&ast.Assign{Targets: []ast.Expr{ast.A(ast.N("self"), "calls")}, Value: ast.Int(1)},
		ast.Ret(ast.N("x")),
	))

	return cls
}

func newEncoder(cls *host.Class, width int) *host.Module {
	mod := host.NewModule(cls)
	mod.AddParameter("weight", &host.Tensor{Shape: []int{width, width}})
	mod.SetAttr("calls", host.Int(0))
	return mod
}

func TestMethodsAreSharedByModuleType(t *testing.T) {
	c := newCompiler()
	cls := newEncoderClass()

	a, ta, err := c.CompileModule(newEncoder(cls, 2), "forward")
	if err != nil {
		t.Fatal(err)
	}

	b, tb, err := c.CompileModule(newEncoder(cls, 8), "forward")
	if err != nil {
		t.Fatal(err)
	}

	if ta != tb || a != b {
		t.Error("instances sharing a module type must share compiled methods")
	}

	if diff := cmp.Diff("models.Encoder.forward", a.Name.String()); diff != "" {
		t.Errorf("method name mismatch (-want +got):\n%s", diff)
	}

	if a.Graph.CountOps(ir.OpSetAttr) != 1 {
		t.Errorf("attribute assignment was not lowered:\n%s", a.Graph.Repr())
	}
}

func TestCompileModuleThroughSubmodules(t *testing.T) {
	c := newCompiler()
	encoder := newEncoderClass()

	cls := host.NewModuleClass("models", "Model")
	cls.AddMethod(method("forward", []host.Param{{Name: "x"}},
		&ast.Assign{
			Targets: []ast.Expr{ast.N("a"), ast.N("b")},
			Value:   ast.C(ast.A(ast.N("self"), "split"), ast.N("x")),
		},
		&ast.Assign{
			Targets: []ast.Expr{ast.N("first"), ast.N("second")},
			Value:   ast.N("self"),
		},
		&ast.Assign{
			Targets: []ast.Expr{ast.N("y")},
			Value:   ast.C(ast.N("first"), ast.N("a")),
		},
		ast.Ret(ast.C(ast.N("second"), ast.N("y"))),
	))

	split := &host.Function{Name: "split", Module: "ops", Params: []host.Param{{Name: "x"}}}

	mod := host.NewModule(cls)
	mod.AddModule("enc1", newEncoder(encoder, 4))
	mod.AddModule("enc2", newEncoder(encoder, 16))
	mod.SetAttr("split", split)

	forward, cmt, err := c.CompileModule(mod, "forward")
	if err != nil {
		t.Fatal(err)
	}

	subs := cmt.Submodules()
	if len(subs) != 2 || subs[0].Meta != subs[1].Meta {
		t.Error("equal submodules must share a module type")
	}

	if _, ok := cmt.FindFunctionAttribute("split"); !ok {
		t.Error("split was not recorded as a function attribute")
	}

	graph := forward.Graph
	if graph.CountOps(ir.OpHostCall) != 1 || graph.CountOps(ir.OpTupleIndex) != 2 {
		t.Errorf("host call result was not unpacked:\n%s", graph.Repr())
	}

	if graph.CountOps(ir.OpCallMethod) != 2 {
		t.Errorf("got %d method calls, want 2:\n%s", graph.CountOps(ir.OpCallMethod), graph.Repr())
	}

	if !types.Equals(forward.Schema.Returns, types.Tensor) {
		t.Errorf("got return type %s, want Tensor", forward.Schema.Returns.Repr())
	}

	// one method shared by both encoders, plus the entry point
	if n := len(c.cache.Unit().Functions()); n != 2 {
		t.Errorf("got %d compiled functions, want 2", n)
	}
}

func TestMissingEntryPoint(t *testing.T) {
	cls := host.NewModuleClass("models", "Empty")

	_, cmt, err := newCompiler().CompileModule(host.NewModule(cls), "forward")
	if !report.IsKind(err, report.KindAttribute) {
		t.Fatalf("got %v, want an attribute error", err)
	}

	if cmt == nil || !cmt.IsFrozen() {
		t.Error("the module must be specialized even if it has no entry point")
	}
}

func TestUndefinedName(t *testing.T) {
	f := &host.Function{Name: "f", Module: "lib", Body: []ast.Stmt{ast.Ret(ast.N("missing"))}}

	_, err := newCompiler().CompileFunction(nil, f, tensorSchema("lib.f"))
	if err == nil || !strings.Contains(err.Error(), "undefined value 'missing'") {
		t.Errorf("got %v, want an undefined value error", err)
	}
}

func TestImplicitNoneReturn(t *testing.T) {
	f := &host.Function{Name: "noop", Module: "lib", Body: []ast.Stmt{}}

	compiled, err := newCompiler().CompileFunction(nil, f, tensorSchema("lib.noop"))
	if err != nil {
		t.Fatal(err)
	}

	if !types.Equals(compiled.Schema.Returns, types.NoneType) {
		t.Errorf("got return type %s, want NoneType", compiled.Schema.Returns.Repr())
	}
}
