package steps

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// registryFile is the on-disk form of a set of step patterns:
//
//	steps:
//	  - pattern: "I enter <value>"
//	    description: types into the focused field
type registryFile struct {
	Steps []struct {
		Pattern     string `yaml:"pattern"`
		Description string `yaml:"description"`
	} `yaml:"steps"`
}

// LoadPatterns reads a YAML registry file. The definitions it returns have
// no handlers; they are enough to check that steps bind.
func LoadPatterns(r io.Reader) ([]*Definition, error) {
	var f registryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding step registry: %w", err)
	}

	defs := make([]*Definition, 0, len(f.Steps))
	for i, s := range f.Steps {
		if s.Pattern == "" {
			return nil, fmt.Errorf("step %d: missing pattern", i+1)
		}
		p, err := Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		defs = append(defs, &Definition{Pattern: p, Description: s.Description})
	}
	return defs, nil
}

// LoadFile reads the registry file at path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening step registry: %w", err)
	}
	defer f.Close()

	defs, err := LoadPatterns(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewRegistry(defs...), nil
}
