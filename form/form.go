// Package form runs YAML-defined prompt sequences. A form names its fields,
// their target types, defaults, allowed options and whether the answer is
// secret; running a form asks every field through the validated prompt loop
// and collects the typed answers.
package form

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/askline/askline/convert"
)

// Field describes one prompt in a form.
type Field struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Type     string   `yaml:"type"`
	Default  string   `yaml:"default"`
	Required bool     `yaml:"required"`
	Secret   bool     `yaml:"secret"`
	Options  []string `yaml:"options,omitempty"`
}

// displayLabel is the prompt label, falling back to the field name.
func (fld Field) displayLabel() string {
	if fld.Label != "" {
		return fld.Label
	}
	return fld.Name
}

// typeName is the declared target type, defaulting to string.
func (fld Field) typeName() string {
	if fld.Type != "" {
		return fld.Type
	}
	return "string"
}

// Form is an ordered sequence of fields answered one after another.
type Form struct {
	Title  string  `yaml:"title"`
	Fields []Field `yaml:"fields"`
}

// Load reads a form definition from a YAML file.
func Load(path string) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read form file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a form definition from YAML.
func Parse(data []byte) (*Form, error) {
	var f Form
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &f, nil
}

// Save writes the form definition to a YAML file.
func (f *Form) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal form: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create form directory: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the definition against a conversion registry: every field
// needs a unique name and a registered type, defaults and options must parse
// as that type, and a default must be one of the options when options are
// given.
func (f *Form) Validate(reg *convert.Registry) error {
	if len(f.Fields) == 0 {
		return fmt.Errorf("form has no fields")
	}

	seen := make(map[string]bool, len(f.Fields))
	for _, fld := range f.Fields {
		if fld.Name == "" {
			return fmt.Errorf("field with empty name")
		}
		if seen[fld.Name] {
			return fmt.Errorf("duplicate field name: %s", fld.Name)
		}
		seen[fld.Name] = true

		parse, ok := reg.Lookup(fld.typeName())
		if !ok {
			return fmt.Errorf("field %s: unknown type %q (known: %s)",
				fld.Name, fld.typeName(), strings.Join(reg.Names(), ", "))
		}

		if fld.Default != "" {
			if _, err := parse(fld.Default); err != nil {
				return fmt.Errorf("field %s: default %q does not parse as %s: %w",
					fld.Name, fld.Default, fld.typeName(), err)
			}
		}
		for _, opt := range fld.Options {
			if _, err := parse(opt); err != nil {
				return fmt.Errorf("field %s: option %q does not parse as %s: %w",
					fld.Name, opt, fld.typeName(), err)
			}
		}
		if fld.Default != "" && len(fld.Options) > 0 && !containsOption(fld.Options, fld.Default) {
			return fmt.Errorf("field %s: default %q must be one of: %s",
				fld.Name, fld.Default, strings.Join(fld.Options, ", "))
		}
	}

	return nil
}
