// Package policy handles loading and validating streak/reward policies.
package policy

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/default.yaml
var builtinDefault []byte

// Policy holds the tunables for one computation run. Runs with different
// policies can coexist; nothing here is process-global.
type Policy struct {
	GracePeriodLimitDays float64 `yaml:"grace_period_limit_days"`
	FirstDayMultiplier   float64 `yaml:"first_day_multiplier"`
	MaxMultiplier        float64 `yaml:"max_multiplier"`
	EnrichConcurrency    int     `yaml:"enrich_concurrency"`
}

// LoadBuiltin loads the embedded default policy.
func LoadBuiltin() (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(builtinDefault, &p); err != nil {
		return nil, fmt.Errorf("policy.LoadBuiltin: parse builtin: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("policy.LoadBuiltin: %w", err)
	}
	return &p, nil
}

// Load reads a policy from a yaml file.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy.Load: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("policy.Load: parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("policy.Load: %s: %w", path, err)
	}
	return &p, nil
}

// Validate checks the policy for values the pipeline cannot work with.
func (p *Policy) Validate() error {
	if p.GracePeriodLimitDays < 0 {
		return fmt.Errorf("grace_period_limit_days must be >= 0, got %v", p.GracePeriodLimitDays)
	}
	if p.MaxMultiplier < 1 {
		return fmt.Errorf("max_multiplier must be >= 1, got %v", p.MaxMultiplier)
	}
	if p.FirstDayMultiplier < 0 {
		return fmt.Errorf("first_day_multiplier must be >= 0, got %v", p.FirstDayMultiplier)
	}
	if p.EnrichConcurrency < 0 {
		return fmt.Errorf("enrich_concurrency must be >= 0, got %v", p.EnrichConcurrency)
	}
	return nil
}
