package cmd

import (
	"fmt"
	"os"
	"sort"

	"scriptc/common"
	"scriptc/host"
	"scriptc/types"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// tomlManifest represents a manifest of host modules as it is encoded in TOML.
type tomlManifest struct {
	Version   string          `toml:"scriptc-version"`
	Classes   []*tomlClass    `toml:"class"`
	Instances []*tomlInstance `toml:"instance"`
}

// tomlClass represents a host module class as it is encoded in TOML.
type tomlClass struct {
	Name      string              `toml:"name"`
	Module    string              `toml:"module"`
	Constants []string            `toml:"constants,omitempty"`
	Overloads map[string][]string `toml:"overloads,omitempty"`
	Methods   []*tomlMethod       `toml:"method,omitempty"`
}

// tomlMethod represents a host-implemented method as it is encoded in TOML.
type tomlMethod struct {
	Name    string   `toml:"name"`
	Params  []string `toml:"params"`
	Returns string   `toml:"returns,omitempty"`
}

// tomlInstance represents a host module instance as it is encoded in TOML.
type tomlInstance struct {
	Name    string        `toml:"name"`
	Class   string        `toml:"class"`
	Members []*tomlMember `toml:"member"`
}

// tomlMember represents a single member of a module instance as it is encoded
// in TOML.  Members holding tensors give a dtype and a shape; members holding
// constants give a value.
type tomlMember struct {
	Name       string      `toml:"name"`
	Kind       string      `toml:"kind"`
	DType      string      `toml:"dtype,omitempty"`
	Shape      []int64     `toml:"shape,omitempty"`
	Value      interface{} `toml:"value,omitempty"`
	Instance   string      `toml:"instance,omitempty"`
	Function   string      `toml:"function,omitempty"`
	Unresolved bool        `toml:"unresolved"`
}

// Manifest is a loaded manifest: host module instances in declaration order.
type Manifest struct {
	Path string

	// VersionMismatch is set if the manifest requires a different compiler
	// version.
	VersionMismatch string

	Instances []*NamedInstance
}

// NamedInstance is a module instance named in the manifest.
type NamedInstance struct {
	Name   string
	Module *host.Module
}

// LoadManifest loads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tm := &tomlManifest{}
	if err := toml.Unmarshal(buff, tm); err != nil {
		return nil, errors.Wrapf(err, "error parsing manifest %s", path)
	}

	m := &Manifest{Path: path}

	if tm.Version != "" {
		constraint, err := semver.NewConstraint(tm.Version)
		if err != nil {
			return nil, errors.Wrap(err, "invalid scriptc-version constraint")
		}

		if !constraint.Check(semver.MustParse(common.ScriptcVersion)) {
			m.VersionMismatch = fmt.Sprintf("manifest requires scriptc %s but this is scriptc %s", tm.Version, common.ScriptcVersion)
		}
	}

	classes := make(map[string]*host.Class)
	for _, tc := range tm.Classes {
		cls, err := loadClass(tc)
		if err != nil {
			return nil, err
		}

		key := cls.QualifiedName().String()
		if _, ok := classes[key]; ok {
			return nil, errors.Errorf("class %s is declared multiple times", key)
		}

		classes[key] = cls
	}

	ld := &loader{
		classes:   classes,
		functions: make(map[string]*host.Function),
		instances: make(map[string]*host.Module),
	}

	for _, ti := range tm.Instances {
		mod, err := ld.loadInstance(ti)
		if err != nil {
			return nil, errors.Wrapf(err, "instance %s", ti.Name)
		}

		if _, ok := ld.instances[ti.Name]; ok {
			return nil, errors.Errorf("instance %s is declared multiple times", ti.Name)
		}

		ld.instances[ti.Name] = mod
		m.Instances = append(m.Instances, &NamedInstance{Name: ti.Name, Module: mod})
	}

	return m, nil
}

func loadClass(tc *tomlClass) (*host.Class, error) {
	if tc.Name == "" {
		return nil, errors.New("missing class name")
	}

	cls := host.NewModuleClass(tc.Module, tc.Name)
	cls.Constants = tc.Constants

	for name, cands := range tc.Overloads {
		cls.Overloads[name] = cands
	}

	for _, tm := range tc.Methods {
		params := make([]host.Param, len(tm.Params))
		for i, pname := range tm.Params {
			params[i] = host.Param{Name: pname}
		}

		var returns types.Type
		if tm.Returns != "" {
			typ, err := parseTypeName(tm.Returns)
			if err != nil {
				return nil, errors.Wrapf(err, "method %s.%s", tc.Name, tm.Name)
			}

			returns = typ
		}

		cls.AddMethod(&host.Function{Name: tm.Name, Module: cls.QualifiedName().String(), Params: params, Returns: returns})
	}

	return cls, nil
}

// parseTypeName converts the name of a primitive or tensor type.
func parseTypeName(name string) (types.Type, error) {
	switch name {
	case "Tensor":
		return types.Tensor, nil
	case "int":
		return types.IntType, nil
	case "float":
		return types.FloatType, nil
	case "bool":
		return types.BoolType, nil
	case "str":
		return types.StrType, nil
	case "None":
		return types.NoneType, nil
	}

	return nil, errors.Errorf("unknown type name %s", name)
}

// -----------------------------------------------------------------------------

// loader builds module instances.  Instances may only refer to instances
// declared before them.
type loader struct {
	classes   map[string]*host.Class
	functions map[string]*host.Function
	instances map[string]*host.Module
}

func (ld *loader) loadInstance(ti *tomlInstance) (*host.Module, error) {
	cls, ok := ld.classes[ti.Class]
	if !ok {
		return nil, errors.Errorf("unknown class %s", ti.Class)
	}

	mod := host.NewModule(cls)
	for _, tmem := range ti.Members {
		if err := ld.loadMember(mod, tmem); err != nil {
			return nil, errors.Wrapf(err, "member %s", tmem.Name)
		}
	}

	return mod, nil
}

func (ld *loader) loadMember(mod *host.Module, tmem *tomlMember) error {
	switch tmem.Kind {
	case "parameter":
		mod.AddParameter(tmem.Name, loadTensor(tmem))
		return nil
	case "buffer":
		mod.AddBuffer(tmem.Name, loadTensor(tmem))
		return nil
	case "submodule":
		sub, ok := ld.instances[tmem.Instance]
		if !ok {
			return errors.Errorf("unknown instance %s", tmem.Instance)
		}

		mod.AddModule(tmem.Name, sub)
		return nil
	case "function":
		fn, ok := ld.functions[tmem.Function]
		if !ok {
			qn := types.ParseQualifiedName(tmem.Function)
			fn = &host.Function{Name: qn.Name, Module: qn.Prefix}
			ld.functions[tmem.Function] = fn
		}

		return mod.SetAttr(tmem.Name, fn)
	case "attribute", "":
		switch {
		case tmem.Unresolved:
			return mod.SetAttr(tmem.Name, host.Unresolved())
		case tmem.DType != "" || tmem.Shape != nil:
			return mod.SetAttr(tmem.Name, loadTensor(tmem))
		}

		value, err := loadValue(tmem.Value)
		if err != nil {
			return err
		}

		return mod.SetAttr(tmem.Name, value)
	}

	return errors.Errorf("unknown member kind %s", tmem.Kind)
}

func loadTensor(tmem *tomlMember) *host.Tensor {
	shape := make([]int, len(tmem.Shape))
	for i, dim := range tmem.Shape {
		shape[i] = int(dim)
	}

	return &host.Tensor{DType: tmem.DType, Shape: shape, RequiresGrad: tmem.Kind == "parameter"}
}

// loadValue converts a TOML value into a host object.  Arrays become tuples and
// tables become dictionaries ordered by key.
func loadValue(v interface{}) (host.Object, error) {
	switch tv := v.(type) {
	case nil:
		return host.None(), nil
	case int64:
		return host.Int(tv), nil
	case float64:
		return host.Float(tv), nil
	case string:
		return host.Str(tv), nil
	case bool:
		return host.Bool(tv), nil
	case []interface{}:
		elems := make([]host.Object, len(tv))
		for i, elem := range tv {
			ev, err := loadValue(elem)
			if err != nil {
				return nil, err
			}

			elems[i] = ev
		}

		return host.NewTuple(elems...), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(tv))
		for key := range tv {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		d := &host.Dict{Ordered: true}
		for _, key := range keys {
			ev, err := loadValue(tv[key])
			if err != nil {
				return nil, err
			}

			d.Set(host.Str(key), ev)
		}

		return d, nil
	}

	return nil, errors.Errorf("unsupported value %v", v)
}
