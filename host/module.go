package host

import (
	"fmt"
	"sync/atomic"

	"scriptc/types"
)

// Class is a host class.  Module classes declare the names of their
// constants and their method overload groups at class level.
type Class struct {
	Name string

	// Module is the dotted name of the host module defining the class.
	Module string

	// IsModuleClass indicates whether instances of this class are modules.
	IsModuleClass bool

	// Constants lists the names of instance attributes that are compile-time
	// constants.
	Constants []string

	// Overloads maps a method name to the ordered names of its overloads.
	Overloads map[string][]string

	Methods map[string]*Function

	id atomic.Uint64
}

// NewModuleClass creates a module class with no members.
func NewModuleClass(module, name string) *Class {
	return &Class{
		Name:          name,
		Module:        module,
		IsModuleClass: true,
		Overloads:     make(map[string][]string),
		Methods:       make(map[string]*Function),
	}
}

// ID returns the identity of the class.
func (c *Class) ID() uint64 {
	return lazyIdentity(&c.id)
}

// QualifiedName returns the qualified name of the class.
func (c *Class) QualifiedName() types.QualifiedName {
	return types.QualifiedName{Prefix: c.Module, Name: c.Name}
}

// AddMethod defines a method on the class.
func (c *Class) AddMethod(fn *Function) {
	if c.Methods == nil {
		c.Methods = make(map[string]*Function)
	}

	c.Methods[fn.Name] = fn
}

// Method looks up a method by name.
func (c *Class) Method(name string) (*Function, bool) {
	fn, ok := c.Methods[name]
	return fn, ok
}

// IsConstantName returns whether the class declares name as a constant.
func (c *Class) IsConstantName(name string) bool {
	for _, cname := range c.Constants {
		if cname == name {
			return true
		}
	}

	return false
}

func (c *Class) TypeName() string {
	return "type"
}

// -----------------------------------------------------------------------------

// MemberKind is the declared kind of a module member.  It must be one of the
// enumerated member kinds.
type MemberKind int

// Enumeration of module member kinds.
const (
	MemberAttribute = MemberKind(iota)
	MemberParameter
	MemberBuffer
	MemberSubmodule
)

func (mk MemberKind) String() string {
	switch mk {
	case MemberParameter:
		return "parameter"
	case MemberBuffer:
		return "buffer"
	case MemberSubmodule:
		return "submodule"
	default:
		return "attribute"
	}
}

// Member is a single named member of a module instance.
type Member struct {
	Name  string
	Kind  MemberKind
	Value Object
}

// Module is a host module instance: a stateful unit with parameters, buffers,
// plain attributes and submodules, all kept in declaration order.
type Module struct {
	Class *Class

	members []Member

	// membersByName is an auxilliary map used to look up members by name.
	membersByName map[string]int
}

// NewModule creates an empty instance of a module class.
func NewModule(cls *Class) *Module {
	return &Module{
		Class:         cls,
		membersByName: make(map[string]int),
	}
}

func (m *Module) define(name string, kind MemberKind, value Object) {
	if ndx, ok := m.membersByName[name]; ok {
		m.members[ndx] = Member{Name: name, Kind: kind, Value: value}
		return
	}

	m.membersByName[name] = len(m.members)
	m.members = append(m.members, Member{Name: name, Kind: kind, Value: value})
}

// AddParameter registers a learnable tensor.
func (m *Module) AddParameter(name string, t *Tensor) {
	m.define(name, MemberParameter, t)
}

// AddBuffer registers a non-learnable tensor.
func (m *Module) AddBuffer(name string, t *Tensor) {
	m.define(name, MemberBuffer, t)
}

// AddModule registers a submodule.
func (m *Module) AddModule(name string, sub *Module) {
	m.define(name, MemberSubmodule, sub)
}

// SetAttr sets a member.  Setting an existing member keeps its kind; setting a
// new name creates a plain attribute.  Assigning a module instance to a new
// name registers it as a submodule.
func (m *Module) SetAttr(name string, value Object) error {
	if ndx, ok := m.membersByName[name]; ok {
		kind := m.members[ndx].Kind
		switch kind {
		case MemberParameter, MemberBuffer:
			t, isTensor := value.(*Tensor)
			if !isTensor {
				return fmt.Errorf("cannot assign '%s' as %s '%s' (Tensor expected)", TypeString(value), kind, name)
			}

			m.members[ndx].Value = t
		case MemberSubmodule:
			sub, isModule := value.(*Module)
			if !isModule {
				return fmt.Errorf("cannot assign '%s' as child module '%s'", TypeString(value), name)
			}

			m.members[ndx].Value = sub
		default:
			m.members[ndx].Value = value
		}

		return nil
	}

	if sub, ok := value.(*Module); ok {
		m.define(name, MemberSubmodule, sub)
	} else {
		m.define(name, MemberAttribute, value)
	}

	return nil
}

// Get looks up a member by name.
func (m *Module) Get(name string) (Member, bool) {
	if ndx, ok := m.membersByName[name]; ok {
		return m.members[ndx], true
	}

	return Member{}, false
}

// Members returns all members in declaration order.
func (m *Module) Members() []Member {
	members := make([]Member, len(m.members))
	copy(members, m.members)
	return members
}

// Submodules returns the submodule members in declaration order.
func (m *Module) Submodules() []Member {
	var subs []Member
	for _, member := range m.members {
		if member.Kind == MemberSubmodule {
			subs = append(subs, member)
		}
	}

	return subs
}

func (m *Module) TypeName() string {
	return m.Class.Name
}
