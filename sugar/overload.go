package sugar

import (
	"scriptc/ir"
	"scriptc/report"
	"scriptc/script"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// OverloadedByName is a method of a module declared as a group of overloads:
// the first overload whose schema accepts the arguments is called.
type OverloadedByName struct {
	base
	name  string
	self  *ModuleInstance
	names []string
}

func (obn *OverloadedByName) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	var mismatches *multierror.Error
	for _, name := range obn.names {
		method, ok := obn.self.cmt.Origin().Method(name)
		if !ok {
			mismatches = multierror.Append(mismatches, errors.Errorf("%s: method is not defined on '%s'", name, obn.self.cmt.Origin().Name))
			continue
		}

		compiled, err := obn.self.r.compiler.CompileMethod(loc, obn.self.cmt, obn.self.module, method)
		if err != nil {
			return nil, err
		}

		matched, err := script.MatchSchema(fn, loc, compiled.Schema, obn.self.self, args, kwargs)
		if err != nil {
			mismatches = multierror.Append(mismatches, errors.Wrap(err, compiled.Schema.String()))
			continue
		}

		report.Logger().Trace("selected overload", "method", obn.name, "overload", name)
		return NewSimpleValue(fn.Emit(loc, ir.OpCallMethod, matched.Returns, compiled.Name.Name, matched.Inputs...)), nil
	}

	return nil, overloadError(loc, obn.name, mismatches)
}

// OverloadedByFunctions is a group of compiled functions: the first function
// whose schema accepts the arguments is called.
type OverloadedByFunctions struct {
	base
	name string
	fns  []*script.Function
}

// NewOverloadedByFunctions creates an overload group over compiled functions
// in declaration order.
func NewOverloadedByFunctions(name string, fns []*script.Function) *OverloadedByFunctions {
	return &OverloadedByFunctions{base: base{kind: "overloaded function '" + name + "'"}, name: name, fns: fns}
}

func (obf *OverloadedByFunctions) Call(loc *report.TextSpan, fn *ir.Function, args, kwargs []ir.NamedValue, nBinders int) (Value, error) {
	var mismatches *multierror.Error
	for _, candidate := range obf.fns {
		matched, err := script.MatchSchema(fn, loc, candidate.Schema, nil, args, kwargs)
		if err != nil {
			mismatches = multierror.Append(mismatches, errors.Wrap(err, candidate.Schema.String()))
			continue
		}

		return NewSimpleValue(fn.Emit(loc, ir.OpCall, matched.Returns, candidate.Name.String(), matched.Inputs...)), nil
	}

	return nil, overloadError(loc, obf.name, mismatches)
}

// overloadError reports that no overload accepts the arguments of a call,
// listing why each candidate was rejected.
func overloadError(loc *report.TextSpan, name string, mismatches *multierror.Error) error {
	if mismatches == nil {
		return report.Raise(report.KindOverload, loc, "'%s' has no overloads", name)
	}

	return report.Raise(report.KindOverload, loc, "no overload of '%s' accepts the given arguments: %s", name, mismatches.Error())
}
