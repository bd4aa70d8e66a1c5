package crew

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Crew names present in the built-in definitions.
const (
	QA        = "qa"
	Keywords  = "keywords"
	Summary   = "summary"
	MCQ       = "mcq"
	MCQParser = "mcq_parser"
)

//go:embed crews.yaml
var builtin []byte

// Definition is the prompt configuration of one crew.
type Definition struct {
	Name           string  `yaml:"-"`
	Role           string  `yaml:"role" validate:"required"`
	Goal           string  `yaml:"goal" validate:"required"`
	Backstory      string  `yaml:"backstory"`
	Task           string  `yaml:"task" validate:"required"`
	ExpectedOutput string  `yaml:"expected_output"`
	Temperature    float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens      int     `yaml:"max_tokens" validate:"gte=0"`
	MaxSteps       int     `yaml:"max_steps" validate:"gte=0"`
}

// Definitions maps crew names to their definitions.
type Definitions map[string]Definition

var validate = validator.New()

// LoadDefinitions reads crew definitions from path, or the built-in set when
// path is empty.
func LoadDefinitions(path string) (Definitions, error) {
	data := builtin
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read crew definitions: %w", err)
		}
	}
	return ParseDefinitions(data)
}

// ParseDefinitions decodes and validates YAML crew definitions.
func ParseDefinitions(data []byte) (Definitions, error) {
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse crew definitions: %w", err)
	}
	for name, def := range defs {
		if err := validate.Struct(def); err != nil {
			return nil, fmt.Errorf("crew %q: %w", name, err)
		}
		def.Name = name
		defs[name] = def
	}
	return defs, nil
}

// Get returns the named definition.
func (d Definitions) Get(name string) (Definition, error) {
	def, ok := d[name]
	if !ok {
		return Definition{}, fmt.Errorf("crew %q not defined", name)
	}
	return def, nil
}

// SystemPrompt renders the agent persona.
func (d Definition) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s\nYour personal goal is: %s", d.Role, strings.TrimSpace(d.Backstory), d.Goal)
	return b.String()
}

// TaskPrompt renders the task with inputs substituted for {placeholders}.
// Placeholders without an input are left untouched.
func (d Definition) TaskPrompt(inputs map[string]string) string {
	prompt := interpolate(d.Task, inputs)
	if d.ExpectedOutput != "" {
		prompt += "\n\nThis is the expected criteria for your final answer: " +
			strings.TrimSpace(interpolate(d.ExpectedOutput, inputs))
	}
	return prompt
}

func interpolate(text string, inputs map[string]string) string {
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", inputs[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
