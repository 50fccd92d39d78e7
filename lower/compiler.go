// Package lower compiles host functions and module methods: it lowers their
// bodies into IR by resolving every operand through the symbolic value
// resolver.
package lower

import (
	"scriptc/concrete"
	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/script"
	"scriptc/sugar"
	"scriptc/types"
)

// callKey identifies a callable being compiled: a host function, or a method
// of a compiled class.
type callKey struct {
	fnID   uint64
	owner  *types.ClassType
	method string
}

// Compiler compiles host functions on demand.  It is not safe for concurrent
// use; independent compilers may share a cache.
type Compiler struct {
	cache    *concrete.Cache
	resolver *sugar.Resolver

	// inProgress is the set of callables currently being compiled.
	inProgress map[callKey]struct{}

	// functions caches compiled free functions by identity and signature.
	functions map[callKey]map[string]*script.Function

	// methods caches compiled methods by class and name.
	methods map[callKey]*script.Function
}

// NewCompiler creates a compiler specializing modules through cache.
func NewCompiler(cache *concrete.Cache) *Compiler {
	c := &Compiler{
		cache:      cache,
		inProgress: make(map[callKey]struct{}),
		functions:  make(map[callKey]map[string]*script.Function),
		methods:    make(map[callKey]*script.Function),
	}

	c.resolver = sugar.NewResolver(cache, c)
	return c
}

// Resolver returns the resolver used by the compiler.
func (c *Compiler) Resolver() *sugar.Resolver {
	return c.resolver
}

// enter marks a callable as being compiled.  Re-entering a callable is a
// recursion error.
func (c *Compiler) enter(loc *report.TextSpan, key callKey, name string) error {
	if _, ok := c.inProgress[key]; ok {
		return report.Raise(report.KindRecursion, loc, "recursive scripting is not supported: '%s' is already being compiled", name)
	}

	c.inProgress[key] = struct{}{}
	return nil
}

func (c *Compiler) exit(key callKey) {
	delete(c.inProgress, key)
}

// CompileFunction compiles a free host function against schema.
func (c *Compiler) CompileFunction(loc *report.TextSpan, fn *host.Function, schema *script.Schema) (*script.Function, error) {
	key := callKey{fnID: fn.ID()}
	signature := schema.String()

	if compiled, ok := c.functions[key][signature]; ok {
		return compiled, nil
	}

	if err := c.enter(loc, key, fn.QualifiedName().String()); err != nil {
		return nil, err
	}
	defer c.exit(key)

	report.Logger().Debug("compiling function", "function", fn.QualifiedName().String(), "schema", signature)

	graph := ir.NewFunction(fn.QualifiedName().String())
	env := make(map[string]sugar.Value)
	for _, arg := range schema.Args {
		env[arg.Name] = sugar.NewSimpleValue(graph.AddParam(arg.Name, arg.Type))
	}

	returns, err := c.lowerBody(graph, fn, env)
	if err != nil {
		return nil, err
	}

	compiledSchema, err := resolveReturns(fn, schema, returns)
	if err != nil {
		return nil, err
	}

	compiled := c.cache.Unit().DefineFunction(fn.QualifiedName(), compiledSchema, graph, nil)

	if c.functions[key] == nil {
		c.functions[key] = make(map[string]*script.Function)
	}
	c.functions[key][signature] = compiled

	return compiled, nil
}

// CompileMethod compiles a method of a module type.  The receiver is typed by
// the compiled class of the module type, so every instance sharing the module
// type shares the compiled method.
func (c *Compiler) CompileMethod(loc *report.TextSpan, owner *concrete.ConcreteModuleType, module *host.Module, method *host.Function) (*script.Function, error) {
	ct := owner.JitType()
	report.Assert(ct != nil, "method `%s` compiled for a module type that is not materialized", method.Name)

	key := callKey{owner: ct, method: method.Name}
	if compiled, ok := c.methods[key]; ok {
		return compiled, nil
	}

	if len(method.Params) == 0 || method.Params[0].Kind != host.ParamPositional {
		return nil, report.Raise(report.KindSchema, loc, "method '%s' of module '%s' must take the module as its first argument", method.Name, owner.Origin().Name)
	}

	name := types.QualifiedName{Prefix: ct.Name.String(), Name: method.Name}
	if err := c.enter(loc, key, name.String()); err != nil {
		return nil, err
	}
	defer c.exit(key)

	report.Logger().Debug("compiling method", "method", name.String())

	schema, err := methodSchema(loc, ct, method)
	if err != nil {
		return nil, err
	}

	graph := ir.NewFunction(name.String())
	env := make(map[string]sugar.Value)

	self := graph.AddParam(method.Params[0].Name, ct)
	env[method.Params[0].Name] = c.resolver.ModuleInstance(owner, module, self)

	for _, arg := range schema.Args[1:] {
		env[arg.Name] = sugar.NewSimpleValue(graph.AddParam(arg.Name, arg.Type))
	}

	returns, err := c.lowerBody(graph, method, env)
	if err != nil {
		return nil, err
	}

	compiledSchema, err := resolveReturns(method, schema, returns)
	if err != nil {
		return nil, err
	}

	compiled := c.cache.Unit().DefineFunction(name, compiledSchema, graph, ct)
	c.methods[key] = compiled

	return compiled, nil
}

// CompileModule specializes a module instance and compiles its entry method.
func (c *Compiler) CompileModule(mod *host.Module, entry string) (*script.Function, *concrete.ConcreteModuleType, error) {
	cmt, err := c.resolver.Specialize(nil, mod)
	if err != nil {
		return nil, nil, err
	}

	method, ok := mod.Class.Method(entry)
	if !ok {
		return nil, cmt, report.Raise(report.KindAttribute, nil, "module '%s' has no method '%s'", mod.Class.Name, entry)
	}

	compiled, err := c.CompileMethod(method.Span, cmt, mod, method)
	if err != nil {
		return nil, cmt, err
	}

	return compiled, cmt, nil
}

// -----------------------------------------------------------------------------

// methodSchema builds the schema of a method: the receiver followed by the
// declared parameters, unannotated parameters being tensors.
func methodSchema(loc *report.TextSpan, ct *types.ClassType, method *host.Function) (*script.Schema, error) {
	schema := &script.Schema{
		Args:    []script.Argument{{Name: method.Params[0].Name, Type: ct}},
		Returns: method.Returns,
	}

	for _, param := range method.Params[1:] {
		if param.Kind == host.ParamVarArgs || param.Kind == host.ParamVarKwargs {
			return nil, report.Raise(report.KindSchema, loc, "method '%s' takes variadic arguments which are not supported in compiled code", method.Name)
		}

		typ := param.Annotation
		if typ == nil {
			typ = types.Tensor
		}

		schema.Args = append(schema.Args, script.Argument{
			Name:      param.Name,
			Type:      typ,
			Default:   param.Default,
			KwargOnly: param.Kind == host.ParamKeywordOnly,
		})
	}

	return schema, nil
}

// resolveReturns fixes the return type of a compiled schema from the type the
// body actually returns.  A declared return type must accept it.
func resolveReturns(fn *host.Function, schema *script.Schema, returns types.Type) (*script.Schema, error) {
	compiled := *schema
	compiled.Args = append([]script.Argument(nil), schema.Args...)

	if fn.Returns != nil {
		if !types.IsSubtype(returns, fn.Returns) {
			return nil, report.Raise(
				report.KindSchema,
				fn.Span,
				"'%s' is annotated to return '%s' but returns '%s'",
				fn.QualifiedName(),
				fn.Returns.Repr(),
				returns.Repr(),
			)
		}

		compiled.Returns = fn.Returns
	} else {
		compiled.Returns = returns
	}

	return &compiled, nil
}
