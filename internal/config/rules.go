package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rewrite-router/internal/common/errors"
	"rewrite-router/internal/routing"
)

// RulesDocument is the top-level structure of the YAML rules file.
type RulesDocument struct {
	Rules []routing.RouteRule `yaml:"rules"`
}

// LoadRules reads the YAML rules file at path and returns the declared rules
// in file order. Structural validation of each rule happens when the rule is
// registered with the engine, not here.
func LoadRules(path string) ([]routing.RouteRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError(fmt.Sprintf("rules file %s", path))
		}
		return nil, errors.InternalError(fmt.Sprintf("read rules file %s", path), err)
	}

	var doc RulesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("parse rules file %s: %v", path, err))
	}

	if len(doc.Rules) == 0 {
		return nil, errors.ConfigError(fmt.Sprintf("rules file %s declares no rules", path))
	}

	return doc.Rules, nil
}
