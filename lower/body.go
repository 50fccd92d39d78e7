package lower

import (
	"math/big"

	"scriptc/ast"
	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/sugar"
	"scriptc/types"

	"github.com/zclconf/go-cty/cty"
)

// bodyLowerer lowers the body of one host function.
type bodyLowerer struct {
	c     *Compiler
	graph *ir.Function
	fn    *host.Function

	// env maps local names to their symbolic values.
	env map[string]sugar.Value
}

// lowerBody lowers the body of fn into graph and returns the type it returns.
// A body without a return statement returns None.
func (c *Compiler) lowerBody(graph *ir.Function, fn *host.Function, env map[string]sugar.Value) (types.Type, error) {
	bl := &bodyLowerer{c: c, graph: graph, fn: fn, env: env}

	for _, stmt := range fn.Body {
		done, err := bl.lowerStmt(stmt)
		if err != nil {
			return nil, err
		}

		if done {
			return graph.Returns, nil
		}
	}

	graph.EmitReturn(fn.Span, graph.Constant(cty.NullVal(cty.DynamicPseudoType), types.NoneType))
	return graph.Returns, nil
}

// lowerStmt lowers a statement.  It returns true if the statement returned.
func (bl *bodyLowerer) lowerStmt(stmt ast.Stmt) (bool, error) {
	switch v := stmt.(type) {
	case *ast.Return:
		var value ir.Value
		if v.Value == nil {
			value = bl.graph.Constant(cty.NullVal(cty.DynamicPseudoType), types.NoneType)
		} else {
			sv, err := bl.lowerExpr(v.Value, 1)
			if err != nil {
				return false, err
			}

			value, err = sugar.AsValue(v.Span(), bl.graph, sv)
			if err != nil {
				return false, err
			}
		}

		bl.graph.EmitReturn(v.Span(), value)
		return true, nil
	case *ast.Assign:
		return false, bl.lowerAssign(v)
	case *ast.ExprStmt:
		_, err := bl.lowerExpr(v.Value, 0)
		return false, err
	}

	report.ICE("unknown statement: %T", stmt)
	return false, nil
}

func (bl *bodyLowerer) lowerAssign(assign *ast.Assign) error {
	nBinders := len(assign.Targets)

	rhs, err := bl.lowerExpr(assign.Value, nBinders)
	if err != nil {
		return err
	}

	if nBinders == 1 {
		return bl.assignTo(assign.Targets[0], rhs)
	}

	elems, err := rhs.AsTuple(assign.Span(), bl.graph, nBinders)
	if err != nil {
		return err
	}

	for i, target := range assign.Targets {
		if err := bl.assignTo(target, elems[i]); err != nil {
			return err
		}
	}

	return nil
}

// assignTo binds a symbolic value to an assignment target.
func (bl *bodyLowerer) assignTo(target ast.Expr, value sugar.Value) error {
	switch v := target.(type) {
	case *ast.Name:
		bl.env[v.Ident] = value
		return nil
	case *ast.Attr:
		obj, err := bl.lowerExpr(v.Value, 1)
		if err != nil {
			return err
		}

		iv, err := sugar.AsValue(v.Span(), bl.graph, value)
		if err != nil {
			return err
		}

		return obj.SetAttr(v.Span(), bl.graph, v.Field, iv)
	}

	return report.Raise(report.KindUnsupportedValue, target.Span(), "cannot assign to this expression")
}

// lowerExpr lowers an expression into a symbolic value.  nBinders is the
// number of values the result is unpacked into.
func (bl *bodyLowerer) lowerExpr(expr ast.Expr, nBinders int) (sugar.Value, error) {
	switch v := expr.(type) {
	case *ast.Name:
		if sv, ok := bl.env[v.Ident]; ok {
			return sv, nil
		}

		if obj, ok := bl.fn.Lookup(v.Ident); ok {
			return bl.c.resolver.Resolve(obj, bl.graph, v.Span(), false)
		}

		return nil, report.Raise(report.KindUnsupportedValue, v.Span(), "undefined value '%s'", v.Ident)
	case *ast.Attr:
		obj, err := bl.lowerExpr(v.Value, 1)
		if err != nil {
			return nil, err
		}

		return obj.Attr(v.Span(), bl.graph, v.Field)
	case *ast.Call:
		callee, err := bl.lowerExpr(v.Func, 1)
		if err != nil {
			return nil, err
		}

		args := make([]ir.NamedValue, len(v.Args))
		for i, arg := range v.Args {
			av, err := bl.lowerValue(arg)
			if err != nil {
				return nil, err
			}

			args[i] = ir.NamedValue{Value: av, Span: arg.Span()}
		}

		kwargs := make([]ir.NamedValue, len(v.Kwargs))
		for i, kw := range v.Kwargs {
			kv, err := bl.lowerValue(kw.Value)
			if err != nil {
				return nil, err
			}

			kwargs[i] = ir.NamedValue{Name: kw.Name, Value: kv, Span: kw.Value.Span()}
		}

		return callee.Call(v.Span(), bl.graph, args, kwargs, nBinders)
	case *ast.Const:
		return bl.c.resolver.Resolve(constToHost(v), bl.graph, v.Span(), true)
	case *ast.Tuple:
		elems := make([]ir.Value, len(v.Elems))
		elemTypes := make([]types.Type, len(v.Elems))
		for i, elem := range v.Elems {
			ev, err := bl.lowerValue(elem)
			if err != nil {
				return nil, err
			}

			elems[i] = ev
			elemTypes[i] = ev.Type()
		}

		return sugar.NewSimpleValue(bl.graph.Emit(v.Span(), ir.OpTuple, &types.TupleType{ElementTypes: elemTypes}, "", elems...)), nil
	}

	report.ICE("unknown expression: %T", expr)
	return nil, nil
}

// lowerValue lowers an expression used as an operand.
func (bl *bodyLowerer) lowerValue(expr ast.Expr) (ir.Value, error) {
	sv, err := bl.lowerExpr(expr, 1)
	if err != nil {
		return nil, err
	}

	return sugar.AsValue(expr.Span(), bl.graph, sv)
}

// constToHost converts a literal to the host value it denotes.
func constToHost(c *ast.Const) *host.Value {
	if c.IsFloat {
		f, _ := c.Value.AsBigFloat().Float64()
		return host.Float(f)
	}

	if c.Value.Type() == cty.Number {
		if i, acc := c.Value.AsBigFloat().Int64(); acc == big.Exact {
			return host.Int(i)
		}
	}

	return host.FromCty(c.Value)
}
