// Package config loads the archgate boundary policy: the path conventions
// that map directories to layer tags, the globs that identify contract
// modules, and the import fragments forbidden in pure business logic.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Policy holds all tunable conventions for a validation run
type Policy struct {
	Layers          map[string]string `mapstructure:"layers"`
	ContractModules []string          `mapstructure:"contract_modules"`
	DomainDenyList  []string          `mapstructure:"domain_deny_list"`
	Exclude         []string          `mapstructure:"exclude"`
}

var defaultPolicy = Policy{
	Layers: map[string]string{
		"domain":         "pure-logic",
		"core":           "pure-logic",
		"ports":          "port",
		"port":           "port",
		"app":            "orchestration",
		"application":    "orchestration",
		"usecase":        "orchestration",
		"usecases":       "orchestration",
		"adapters":       "adapter",
		"adapter":        "adapter",
		"infra":          "infrastructure",
		"infrastructure": "infrastructure",
		"transport":      "infrastructure",
		"persistence":    "infrastructure",
		"storage":        "infrastructure",
		"api":            "contract",
		"contract":       "contract",
		"contracts":      "contract",
	},
	ContractModules: []string{
		"**/contracts",
		"**/*-contract",
		"**/*-api",
	},
	DomainDenyList: []string{
		"net/http",
		"database/sql",
		"github.com/go-git/go-git",
		"github.com/spf13/viper",
		"gorm.io/",
	},
	Exclude: []string{},
}

// DefaultPolicy returns a copy of the compiled-in policy.
func DefaultPolicy() Policy {
	p := defaultPolicy
	p.Layers = make(map[string]string, len(defaultPolicy.Layers))
	for k, v := range defaultPolicy.Layers {
		p.Layers[k] = v
	}
	p.ContractModules = append([]string(nil), defaultPolicy.ContractModules...)
	p.DomainDenyList = append([]string(nil), defaultPolicy.DomainDenyList...)
	p.Exclude = append([]string(nil), defaultPolicy.Exclude...)
	return p
}

// LoadPolicy reads the policy for a target tree. When explicitPath is empty
// the loader looks for .archgate.yaml / .archgate.yml at the target root and
// falls back to the compiled-in defaults when neither exists. A policy file
// that exists but fails schema validation or unmarshalling is an error: a
// half-read policy would silently change which rules fire.
func LoadPolicy(target string, explicitPath string) (Policy, error) {
	path := explicitPath
	if path == "" {
		for _, candidate := range []string{".archgate.yaml", ".archgate.yml"} {
			p := filepath.Join(target, candidate)
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return DefaultPolicy(), nil
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- policy path comes from the operator
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	if err := ValidatePolicy(raw); err != nil {
		return Policy{}, fmt.Errorf("policy file %s: %w", path, err)
	}

	v := viper.New()
	setPolicyDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType(configTypeFor(path))
	if err := v.ReadInConfig(); err != nil {
		return Policy{}, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}

	// Decode into a zero value: viper's defaults fill missing keys, and a
	// pre-populated struct would keep stale default slice entries when the
	// file declares a shorter list.
	var policy Policy
	if err := v.Unmarshal(&policy); err != nil {
		return Policy{}, fmt.Errorf("failed to unmarshal policy file %s: %w", path, err)
	}
	return policy, nil
}

func setPolicyDefaults(v *viper.Viper) {
	v.SetDefault("layers", defaultPolicy.Layers)
	v.SetDefault("contract_modules", defaultPolicy.ContractModules)
	v.SetDefault("domain_deny_list", defaultPolicy.DomainDenyList)
	v.SetDefault("exclude", defaultPolicy.Exclude)
}

func configTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

// LayerFor maps a directory segment to its layer tag, or "" when the
// segment carries no convention.
func (p Policy) LayerFor(segment string) string {
	return p.Layers[strings.ToLower(segment)]
}
