package preset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/propkit/propkit"
)

// Config represents a preset.yaml file.
type Config struct {
	// Name identifies the preset, e.g. the design system it belongs to.
	Name string `yaml:"name"`

	// Defaults maps native kind names to the default value the namespace's
	// convenience getters apply (e.g. string: "", number: 0).
	Defaults map[string]any `yaml:"defaults,omitempty"`

	// Validators declares named validators to register on the namespace.
	Validators []ValidatorConfig `yaml:"validators,omitempty"`
}

// ValidatorConfig declares one named validator.
type ValidatorConfig struct {
	Name string `yaml:"name"`

	// Type is the base native kind name (string, number, integer, bool,
	// func, array, object, any). Empty means any.
	Type string `yaml:"type,omitempty"`

	Required bool `yaml:"required,omitempty"`
	Default  any  `yaml:"default,omitempty"`

	// OneOf enumerates the accepted values; mutually exclusive with Expr.
	OneOf []any `yaml:"one_of,omitempty"`

	// Expr is a CEL expression over `value` producing a boolean.
	Expr string `yaml:"expr,omitempty"`
}

// kindTags maps preset kind names onto coarse value tags.
var kindTags = map[string]propkit.ValueType{
	"string":  propkit.TypeString,
	"number":  propkit.TypeNumber,
	"integer": propkit.TypeInteger,
	"bool":    propkit.TypeBoolean,
	"boolean": propkit.TypeBoolean,
	"func":    propkit.TypeFunction,
	"array":   propkit.TypeArray,
	"object":  propkit.TypeObject,
}

var kindNames = map[string]propkit.Kind{
	"any":     propkit.KindAny,
	"string":  propkit.KindString,
	"number":  propkit.KindNumber,
	"integer": propkit.KindInteger,
	"bool":    propkit.KindBool,
	"boolean": propkit.KindBool,
	"func":    propkit.KindFunc,
	"array":   propkit.KindArray,
	"object":  propkit.KindObject,
}

// Load reads and parses a preset.yaml file from the given path. If the path
// is a directory, it looks for preset.yaml or preset.yml in that directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		yamlPath := filepath.Join(path, "preset.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "preset.yml")
			if _, err := os.Stat(ymlPath); err != nil {
				return nil, fmt.Errorf("no preset.yaml or preset.yml found in %s", path)
			}
			configPath = ymlPath
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}
	return Parse(data)
}

// LoadFromDir searches for preset.yaml starting from the given directory and
// walking up to parent directories until found or root is reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		config, err := Load(absDir)
		if err == nil {
			return config, nil
		}
		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no preset.yaml found in %s or parent directories", dir)
		}
		absDir = parent
	}
}

// Parse parses preset YAML content and validates the declarations.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}

	for kind := range config.Defaults {
		if _, ok := kindNames[kind]; !ok {
			return nil, propkit.NewConfigError("preset.Parse",
				fmt.Errorf("unknown kind %q in defaults", kind))
		}
	}
	for _, v := range config.Validators {
		if v.Name == "" {
			return nil, propkit.NewConfigError("preset.Parse",
				fmt.Errorf("validator with empty name"))
		}
		if v.Type != "" {
			if _, ok := kindNames[v.Type]; !ok {
				return nil, propkit.NewConfigError("preset.Parse",
					fmt.Errorf("validator %q: unknown type %q", v.Name, v.Type))
			}
		}
		if len(v.OneOf) > 0 && v.Expr != "" {
			return nil, propkit.NewConfigError("preset.Parse",
				fmt.Errorf("validator %q: one_of and expr are mutually exclusive", v.Name))
		}
	}
	return &config, nil
}

// Apply registers the preset's defaults and validators onto the namespace.
// Validator names collide like any Extend call; the first failure aborts.
func (c *Config) Apply(ns *propkit.Namespace) error {
	for kind, value := range c.Defaults {
		ns.SetDefault(kindNames[kind], value)
	}

	for _, v := range c.Validators {
		spec, err := c.buildSpec(ns, v)
		if err != nil {
			return err
		}
		if err := ns.Extend(spec); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) buildSpec(ns *propkit.Namespace, v ValidatorConfig) (propkit.ExtendSpec, error) {
	spec := propkit.ExtendSpec{
		Name:     v.Name,
		Required: v.Required,
		Default:  v.Default,
	}

	switch {
	case len(v.OneOf) > 0:
		spec.Type = ns.OneOf(v.OneOf...)
	case v.Expr != "":
		base, err := propkit.Expr(v.Expr)
		if err != nil {
			return propkit.ExtendSpec{}, err
		}
		spec.Type = base
		if tag, ok := kindTags[v.Type]; ok {
			// Constrain the expression validator to the declared
			// coarse type as well.
			spec.Type = propkit.FromType(v.Name, propkit.PropSpec{Type: []propkit.ValueType{tag}}, base.Check)
		}
	case v.Type != "" && v.Type != "any":
		spec.Type = kindTags[v.Type]
	}
	return spec, nil
}
