// Package job defines the job definition format and its discovery rules.
// One JSON file in the prompts directory describes one render → generate →
// publish task; the file's base name is the job's identity.
package job

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	definitionExt = ".json"
	templateExt   = ".txt"
	promptSuffix  = "_prompt"
)

var validate = validator.New()

// Definition is one job definition record. It is read once per run and
// never mutated afterwards.
type Definition struct {
	// Name is the definition file's base name without extension.
	Name string `json:"-"`

	// Variables fill both the prompt template and the output filename template.
	Variables map[string]any `json:"variables" validate:"required"`
	// OutputFile is the artifact filename, itself a template string.
	OutputFile string `json:"output_file" validate:"required"`
	// Template optionally names the prompt template file relative to the
	// templates directory. When empty, the template is derived from Name.
	Template string `json:"template,omitempty"`
	// MakeIndex requests a second upload of the artifact under the fixed
	// index key within the run's prefix.
	MakeIndex bool `json:"make_index,omitempty"`
}

// Load reads, parses and validates a single definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job definition: %w", err)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse job definition %s: %w", filepath.Base(path), err)
	}
	def.Name = Name(path)

	if err := validate.Struct(&def); err != nil {
		return nil, fmt.Errorf("invalid job definition %s: %w", def.Name, err)
	}
	return &def, nil
}

// Discover returns the definition file paths under dir. Glob order is
// lexical, which fixes the last-write-wins outcome when two jobs render to
// the same output filename.
func Discover(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+definitionExt))
	if err != nil {
		return nil, fmt.Errorf("list job definitions: %w", err)
	}
	return paths, nil
}

// Name returns the job identity for a definition file path.
func Name(path string) string {
	return strings.TrimSuffix(filepath.Base(path), definitionExt)
}

// TemplatePath resolves the prompt template file for the definition. An
// explicit Template field wins; otherwise the naming convention applies:
// strip the "_prompt" suffix from the job name and append ".txt".
func (d *Definition) TemplatePath(templatesDir string) string {
	if d.Template != "" {
		return filepath.Join(templatesDir, d.Template)
	}
	return filepath.Join(templatesDir, strings.TrimSuffix(d.Name, promptSuffix)+templateExt)
}
