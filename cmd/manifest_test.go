package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scriptc/concrete"
	"scriptc/host"
	"scriptc/script"

	"github.com/go-test/deep"
)

const testManifest = `
scriptc-version = ">= 0.1.0"

[[class]]
name = "Linear"
module = "models"

  [[class.method]]
  name = "forward"
  params = ["self", "x"]

[[class]]
name = "Model"
module = "models"
constants = ["depth"]

  [class.overloads]
  forward = ["forward_a", "forward_b"]

[[instance]]
name = "small"
class = "models.Linear"

  [[instance.member]]
  name = "weight"
  kind = "parameter"
  dtype = "float32"
  shape = [2, 2]

[[instance]]
name = "large"
class = "models.Linear"

  [[instance.member]]
  name = "weight"
  kind = "parameter"
  dtype = "float32"
  shape = [64, 64]

[[instance]]
name = "model"
class = "models.Model"

  [[instance.member]]
  name = "depth"
  value = 2

  [[instance.member]]
  name = "sizes"
  value = [1, 2, 3]

  [[instance.member]]
  name = "act"
  kind = "function"
  function = "ops.relu"

  [[instance.member]]
  name = "layer"
  kind = "submodule"
  instance = "small"
`

func writeManifest(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "models.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, testManifest))
	if err != nil {
		t.Fatal(err)
	}

	if m.VersionMismatch != "" {
		t.Errorf("unexpected version mismatch: %s", m.VersionMismatch)
	}

	var names []string
	for _, inst := range m.Instances {
		names = append(names, inst.Name)
	}

	if diff := deep.Equal(names, []string{"small", "large", "model"}); diff != nil {
		t.Error(diff)
	}

	model := m.Instances[2].Module

	var kinds []string
	for _, member := range model.Members() {
		kinds = append(kinds, member.Name+":"+member.Kind.String())
	}

	want := []string{"depth:attribute", "sizes:attribute", "act:attribute", "layer:submodule"}
	if diff := deep.Equal(kinds, want); diff != nil {
		t.Error(diff)
	}

	sizes, _ := model.Get("sizes")
	if tuple, ok := sizes.Value.(*host.Tuple); !ok || len(tuple.Elems) != 3 {
		t.Errorf("array value was not loaded as a tuple: %s", host.TypeString(sizes.Value))
	}

	layer, _ := model.Get("layer")
	if layer.Value != host.Object(m.Instances[0].Module) {
		t.Error("submodule does not refer to the declared instance")
	}

	if diff := deep.Equal(model.Class.Overloads["forward"], []string{"forward_a", "forward_b"}); diff != nil {
		t.Error(diff)
	}

	if _, ok := m.Instances[0].Module.Class.Method("forward"); !ok {
		t.Error("method not loaded")
	}
}

func TestManifestInstancesShareTypes(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, testManifest))
	if err != nil {
		t.Fatal(err)
	}

	cache := concrete.NewCache(script.NewUnit())

	var typeNames []string
	for _, inst := range m.Instances {
		row, ok := specializeInstance(m.Path, cache, inst)
		if !ok {
			t.Fatalf("specializing %s failed", inst.Name)
		}

		typeNames = append(typeNames, row[2])
	}

	if diff := deep.Equal(typeNames, []string{"models.Linear", "models.Linear", "models.Model"}); diff != nil {
		t.Error(diff)
	}

	if cache.Len() != 2 {
		t.Errorf("got %d distinct types, want 2", cache.Len())
	}
}

func TestManifestVersionMismatch(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, `scriptc-version = ">= 9.0"`))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(m.VersionMismatch, "manifest requires scriptc >= 9.0") {
		t.Errorf("unexpected version mismatch: %q", m.VersionMismatch)
	}
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{
			"duplicate class",
			"[[class]]\nname = \"A\"\n[[class]]\nname = \"A\"\n",
			"class A is declared multiple times",
		},
		{
			"unknown class",
			"[[instance]]\nname = \"a\"\nclass = \"B\"\n",
			"unknown class B",
		},
		{
			"unknown submodule",
			"[[class]]\nname = \"A\"\n[[instance]]\nname = \"a\"\nclass = \"A\"\n[[instance.member]]\nname = \"sub\"\nkind = \"submodule\"\ninstance = \"b\"\n",
			"unknown instance b",
		},
		{
			"unknown kind",
			"[[class]]\nname = \"A\"\n[[instance]]\nname = \"a\"\nclass = \"A\"\n[[instance.member]]\nname = \"x\"\nkind = \"weight\"\n",
			"unknown member kind weight",
		},
		{
			"bad constraint",
			"scriptc-version = \"not a version\"\n",
			"invalid scriptc-version constraint",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, test.text))
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("got %v, want an error containing %q", err, test.want)
			}
		})
	}
}
