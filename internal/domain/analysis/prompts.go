package analysis

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

// Prompt holds the fixed instructions for one analysis kind.
type Prompt struct {
	System    string   `yaml:"system"`
	LeadIn    string   `yaml:"lead_in"`
	Demo      string   `yaml:"demo"`
	ArrayKeys []string `yaml:"array_keys"`
}

// Prompts maps each kind to its prompt.
type Prompts map[Kind]Prompt

// LoadPrompts parses the embedded prompt catalogue and checks every kind is present.
func LoadPrompts() (Prompts, error) {
	return parsePrompts(promptsYAML)
}

func parsePrompts(raw []byte) (Prompts, error) {
	var prompts Prompts
	if err := yaml.Unmarshal(raw, &prompts); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	for _, kind := range Kinds {
		p, ok := prompts[kind]
		if !ok || p.System == "" || p.LeadIn == "" {
			return nil, fmt.Errorf("prompt for %q is missing", kind)
		}
	}
	if prompts[KindAnalyzeImage].Demo == "" {
		return nil, fmt.Errorf("demo prompt for %q is missing", KindAnalyzeImage)
	}
	return prompts, nil
}

// MustLoadPrompts is LoadPrompts for the embedded catalogue, which is fixed at build time.
func MustLoadPrompts() Prompts {
	prompts, err := LoadPrompts()
	if err != nil {
		panic(err)
	}
	return prompts
}
