package sugar

import (
	"scriptc/host"
	"scriptc/ir"
	"scriptc/report"
	"scriptc/script"
)

// NamespaceObject is a host namespace: a module of functions, a class used for
// its functions, or the accessor view of a dictionary.
type NamespaceObject struct {
	base
	obj host.Object

	// members are synthetic members taking precedence over the object's.
	members map[string]Value

	r *Resolver
}

func (ns *NamespaceObject) Attr(loc *report.TextSpan, fn *ir.Function, field string) (Value, error) {
	if member, ok := ns.members[field]; ok {
		return member, nil
	}

	switch v := ns.obj.(type) {
	case *host.Namespace:
		member, ok := v.Get(field)
		if !ok {
			return nil, report.Raise(report.KindAttribute, loc, "module '%s' has no attribute '%s'", v.Name, field)
		}

		switch member.(type) {
		case *host.Namespace, *script.Function, *script.Class:
			return ns.r.Resolve(member, fn, loc, false)
		}

		if host.IsCallable(member) {
			return ns.r.Resolve(member, fn, loc, false)
		}

		return nil, report.Raise(
			report.KindAttribute,
			loc,
			"unsupported attribute of module '%s': '%s' of type '%s' cannot be used in compiled code",
			v.Name,
			field,
			host.TypeString(member),
		)
	case *host.Class:
		if method, ok := v.Method(field); ok {
			return ns.r.Resolve(method, fn, loc, false)
		}

		return nil, report.Raise(report.KindAttribute, loc, "type object '%s' has no attribute '%s'", v.Name, field)
	}

	return nil, report.Raise(report.KindAttribute, loc, "%s has no attribute '%s'", ns.kind, field)
}
