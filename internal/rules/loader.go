package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spendlens/spendlens/internal/model"
)

// rulesFile is the on-disk YAML layout for user-supplied merchant rules.
type rulesFile struct {
	Rules []struct {
		Fragment string `yaml:"fragment"`
		Category string `yaml:"category"`
	} `yaml:"rules"`
}

// LoadFile reads merchant rules from a YAML file. Every entry must name a
// category from the closed set; an entry that does not is a configuration
// error, not a silent drop.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	out := make([]Rule, 0, len(file.Rules))
	for i, entry := range file.Rules {
		if entry.Fragment == "" {
			return nil, fmt.Errorf("rule %d: fragment is required", i)
		}
		category, err := model.ParseCategory(entry.Category)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i, entry.Fragment, err)
		}
		out = append(out, Rule{Fragment: entry.Fragment, Category: category})
	}

	return out, nil
}
