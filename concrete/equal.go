package concrete

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"scriptc/host"
	"scriptc/types"

	"github.com/pkg/errors"
)

// Equal reports whether two module types are structurally the same
// specialization: the same origin class, equal constants under host equality,
// the same attributes by name, structurally equal submodules in the same
// order, the same overload groups and the same function attributes.
// Failed attributes are diagnostic only and never compared.  An error from
// host equality is returned as is: it never means "not equal".
func (cmt *ConcreteModuleType) Equal(other *ConcreteModuleType) (bool, error) {
	if cmt == other {
		return true, nil
	}

	if cmt.origin != other.origin {
		return false, nil
	}

	if len(cmt.constants) != len(other.constants) {
		return false, nil
	}

	for _, name := range cmt.constantOrder {
		ov, ok := other.constants[name]
		if !ok {
			return false, nil
		}

		eq, err := host.Equal(cmt.constants[name], ov)
		if err != nil {
			return false, errors.Wrapf(err, "comparing constant '%s' of module '%s'", name, cmt.origin.Name)
		} else if !eq {
			return false, nil
		}
	}

	if len(cmt.attributes) != len(other.attributes) {
		return false, nil
	}

	for name, a := range cmt.attributes {
		oa, ok := other.attributes[name]
		if !ok || a.IsParameter != oa.IsParameter || !types.Equals(a.Type, oa.Type) {
			return false, nil
		}
	}

	if len(cmt.modules) != len(other.modules) {
		return false, nil
	}

	for i, mi := range cmt.modules {
		omi := other.modules[i]
		if mi.Name != omi.Name {
			return false, nil
		}

		eq, err := mi.Meta.Equal(omi.Meta)
		if err != nil || !eq {
			return false, err
		}
	}

	if len(cmt.overloads) != len(other.overloads) {
		return false, nil
	}

	for name, cands := range cmt.overloads {
		ocands, ok := other.overloads[name]
		if !ok || len(cands) != len(ocands) {
			return false, nil
		}

		for i, cand := range cands {
			if ocands[i] != cand {
				return false, nil
			}
		}
	}

	if len(cmt.functionAttributes) != len(other.functionAttributes) {
		return false, nil
	}

	for name, fa := range cmt.functionAttributes {
		ofa, ok := other.functionAttributes[name]
		if !ok || !types.Equals(fa.Type, ofa.Type) {
			return false, nil
		}
	}

	return true, nil
}

// Hash returns a hash consistent with Equal.  Constant values are not hashed
// since host equality can equate values of different representations.
func (cmt *ConcreteModuleType) Hash() uint64 {
	h := fnv.New64a()

	writeString := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	writeUint := func(n uint64) {
		var buff [8]byte
		binary.LittleEndian.PutUint64(buff[:], n)
		h.Write(buff[:])
	}

	writeUint(cmt.origin.ID())

	for _, name := range sortedKeys(cmt.constants) {
		writeString(name)
	}

	for _, name := range sortedKeys(cmt.attributes) {
		attr := cmt.attributes[name]
		writeString(name)
		writeString(attr.Type.Repr())

		if attr.IsParameter {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}

	for _, mi := range cmt.modules {
		writeString(mi.Name)
		writeUint(mi.Meta.Hash())
	}

	for _, name := range sortedKeys(cmt.overloads) {
		writeString(name)
		for _, cand := range cmt.overloads[name] {
			writeString(cand)
		}
	}

	for _, name := range sortedKeys(cmt.functionAttributes) {
		writeString(name)
		writeString(cmt.functionAttributes[name].Type.Repr())
	}

	return h.Sum64()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}
