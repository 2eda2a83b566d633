package trait

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Def is the static display metadata for a trait, loaded from YAML. The rule
// effects themselves are compiled into the engine; Def exists so hosts can
// present names and descriptions without duplicating the table.
type Def struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Parameterized bool   `yaml:"parameterized"` // true for traits like armored(N)
}

// Registry holds all known trait Defs keyed by ID.
type Registry struct {
	defs map[ID]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[ID]*Def)}
}

// Register adds def under id, overwriting any existing entry.
//
// Precondition: def must not be nil and id must not be Unknown.
func (r *Registry) Register(id ID, def *Def) {
	if def == nil {
		panic("trait: Registry.Register precondition violated: def must not be nil")
	}
	if id == Unknown {
		panic("trait: Registry.Register precondition violated: id must not be Unknown")
	}
	r.defs[id] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id ID) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def keyed by
// the file's base name (e.g. "flying.yaml" -> Flying), and returns a
// populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or names an unknown trait.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading trait dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		id, err := ParseID(strings.TrimSuffix(e.Name(), ".yaml"))
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		reg.Register(id, &def)
	}
	return reg, nil
}
