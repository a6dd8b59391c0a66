// Package scenario loads declarative analysis inputs: which bindings
// exist, what each origin contributes, and how bindings feed each other.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/funtype/internal/analyzer"
	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/inference"
	"github.com/funvibe/funtype/internal/typesystem"
)

// Scenario is the top-level scenario file.
type Scenario struct {
	Bindings []BindingSpec `yaml:"bindings"`
	Rules    []RuleSpec    `yaml:"rules,omitempty"`
}

// BindingSpec declares one binding and its direct contributions.
type BindingSpec struct {
	Name string `yaml:"name"`

	// Contributions are fixed types submitted under the given origins,
	// e.g. the types observed at distinct assignment sites.
	Contributions []ContributionSpec `yaml:"contributions,omitempty"`
}

// ContributionSpec is one origin's contributed type, as a type
// expression (see typesystem.ParseType).
type ContributionSpec struct {
	Origin int    `yaml:"origin"`
	Type   string `yaml:"type"`
}

// RuleSpec derives a contribution for Target from other bindings.
// Op is one of copy, elem, union.
type RuleSpec struct {
	Target string   `yaml:"target"`
	Origin int      `yaml:"origin"`
	Op     string   `yaml:"op"`
	From   []string `yaml:"from"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	if !hasScenarioExt(path) {
		return nil, fmt.Errorf("scenario file %s: unsupported extension (want %s)",
			path, strings.Join(config.ScenarioFileExtensions, ", "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks structural constraints without parsing type
// expressions; those are checked by Configure.
func (s *Scenario) Validate() error {
	if len(s.Bindings) == 0 {
		return fmt.Errorf("scenario declares no bindings")
	}
	names := make(map[string]bool, len(s.Bindings))
	for i, b := range s.Bindings {
		if b.Name == "" {
			return fmt.Errorf("binding %d has no name", i)
		}
		if names[b.Name] {
			return fmt.Errorf("duplicate binding %q", b.Name)
		}
		names[b.Name] = true

		origins := make(map[int]bool, len(b.Contributions))
		for _, c := range b.Contributions {
			if c.Type == "" {
				return fmt.Errorf("binding %q: contribution for origin %d has no type", b.Name, c.Origin)
			}
			if origins[c.Origin] {
				return fmt.Errorf("binding %q: duplicate origin %d", b.Name, c.Origin)
			}
			origins[c.Origin] = true
		}
		for _, r := range s.Rules {
			if r.Target == b.Name && origins[r.Origin] {
				return fmt.Errorf("binding %q: origin %d used by both a contribution and a rule", b.Name, r.Origin)
			}
		}
	}
	for i, r := range s.Rules {
		if r.Target == "" {
			return fmt.Errorf("rule %d has no target", i)
		}
		if !names[r.Target] {
			return fmt.Errorf("rule %d targets unknown binding %q", i, r.Target)
		}
		for _, src := range r.From {
			if !names[src] {
				return fmt.Errorf("rule %d reads unknown binding %q", i, src)
			}
		}
	}
	return nil
}

// Configure registers the scenario's bindings and rules on an engine.
// Direct contributions become const rules under their origins.
func (s *Scenario) Configure(e *analyzer.Engine) error {
	for _, b := range s.Bindings {
		if err := e.AddBinding(b.Name); err != nil {
			return err
		}
	}
	for _, b := range s.Bindings {
		for _, c := range b.Contributions {
			t, err := typesystem.ParseType(c.Type)
			if err != nil {
				return fmt.Errorf("binding %q, origin %d: %w", b.Name, c.Origin, err)
			}
			rule := analyzer.Rule{
				Target: b.Name,
				Origin: inference.OriginID(c.Origin),
				Op:     analyzer.OpConst,
				Type:   t,
			}
			if err := e.AddRule(rule); err != nil {
				return err
			}
		}
	}
	for i, r := range s.Rules {
		rule := analyzer.Rule{
			Target: r.Target,
			Origin: inference.OriginID(r.Origin),
			Op:     analyzer.RuleOp(r.Op),
			From:   r.From,
		}
		if err := e.AddRule(rule); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

func hasScenarioExt(path string) bool {
	for _, ext := range config.ScenarioFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
