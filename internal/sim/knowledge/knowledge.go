// Package knowledge loads the immutable configuration a run consumes:
// materials, organisms, assets, processes and rules, one YAML directory per
// kind. Every document is validated against an embedded JSON Schema before
// decoding, so malformed definitions fail with the offending file named
// instead of surfacing mid-run.
package knowledge

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"bioforge.ai/internal/schema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Base is the loaded knowledge base, each kind keyed by its id.
type Base struct {
	Assets    map[string]schema.Asset
	Materials map[string]schema.Material
	Organisms map[string]schema.Organism
	Processes map[string]schema.Process
	Rules     map[string]schema.Rule
}

// ConfigError names the file a configuration failure came from.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config %s: %v", e.Path, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads the knowledge base rooted at dir. Missing kind directories load
// as empty sets; duplicate ids within a kind are an error.
func Load(dir string) (*Base, error) {
	b := &Base{
		Assets:    map[string]schema.Asset{},
		Materials: map[string]schema.Material{},
		Organisms: map[string]schema.Organism{},
		Processes: map[string]schema.Process{},
		Rules:     map[string]schema.Rule{},
	}

	err := loadKind(dir, "materials", func(raw []byte) error {
		var f schema.MaterialFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return err
		}
		for _, m := range f.Materials {
			if err := insert(b.Materials, m.MaterialID, m, "material"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = loadKind(dir, "organisms", func(raw []byte) error {
		var f schema.OrganismFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return err
		}
		for _, o := range f.Organisms {
			if err := insert(b.Organisms, o.OrganismID, o, "organism"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = loadKind(dir, "assets", func(raw []byte) error {
		var f schema.AssetFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return err
		}
		for _, a := range f.Assets {
			if err := insert(b.Assets, a.AssetID, a, "asset"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = loadKind(dir, "processes", func(raw []byte) error {
		var f schema.ProcessFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return err
		}
		for _, p := range f.Processes {
			if err := insert(b.Processes, p.ProcessID, p, "process"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = loadKind(dir, "rules", func(raw []byte) error {
		var f schema.RuleFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return err
		}
		for _, r := range f.Rules {
			if err := insert(b.Rules, r.Name, r, "rule"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return b, nil
}

func insert[T any](m map[string]T, id string, v T, kind string) error {
	if id == "" {
		return fmt.Errorf("%s with empty id", kind)
	}
	if _, dup := m[id]; dup {
		return fmt.Errorf("duplicate %s id %q", kind, id)
	}
	m[id] = v
	return nil
}

// loadKind reads every .yaml/.yml file under dir/kind in lexical order,
// validates it against the kind's schema, then hands the raw document to
// decode.
func loadKind(dir, kind string, decode func(raw []byte) error) error {
	sub := filepath.Join(dir, kind)
	entries, err := os.ReadDir(sub)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &ConfigError{Path: sub, Err: err}
	}

	sch, err := compiledSchema(kind)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(sub, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return &ConfigError{Path: path, Err: err}
		}
		if err := validate(sch, raw); err != nil {
			return &ConfigError{Path: path, Err: err}
		}
		if err := decode(raw); err != nil {
			return &ConfigError{Path: path, Err: err}
		}
	}
	return nil
}

// validate checks a YAML document against a JSON Schema. The document is
// round-tripped through encoding/json first so the validator sees canonical
// JSON value types.
func validate(sch *jsonschema.Schema, raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var jsonDoc any
	if err := json.Unmarshal(jsonBytes, &jsonDoc); err != nil {
		return err
	}
	return sch.Validate(jsonDoc)
}

func compiledSchema(kind string) (*jsonschema.Schema, error) {
	name := kind + ".schema.json"
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("embedded schema %s: %w", name, err)
	}
	sch, err := jsonschema.CompileString(name, string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return sch, nil
}
