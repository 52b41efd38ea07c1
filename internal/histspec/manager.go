package histspec

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate checks required fields after parsing. A document that decodes but
// fails validation is treated the same as one that does not decode.
var validate = validator.New()

// Parse deserializes and validates a plan document.
func Parse(data []byte) (*Specification, error) {
	var spec Specification
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	if err := validate.Struct(&spec); err != nil {
		return nil, fmt.Errorf("validate plan: %w", err)
	}
	return &spec, nil
}

// Load reads and parses the plan document at path.
func Load(path string) (*Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Marshal serializes the plan with 4-space indentation. The output re-parses
// to an equal value.
func Marshal(spec *Specification) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(spec); err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return buf.Bytes(), nil
}

// Save persists the plan to path. Called after every commit attempt; this is
// the system's only recovery point, so a failed save is fatal to the run.
func Save(spec *Specification, path string) error {
	data, err := Marshal(spec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write plan file: %w", err)
	}
	return nil
}
