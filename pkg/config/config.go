package config

import (
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Known stop-rule types, mirrored by the suggestion engine's rule kinds.
var knownStopRuleTypes = map[string]bool{
	"semverMajorUpgrade": true,
	"semverDowngrade":    true,
	"versionFormat":      true,
	"numeric":            true,
}

// Config is the promotion configuration: where to promote from and to,
// which files to consider, the transform rules to apply on the way, and the
// stop rules that may block a promotion.
type Config struct {
	From       string           `yaml:"from" json:"from"`
	To         string           `yaml:"to" json:"to"`
	Files      []string         `yaml:"files,omitempty" json:"files,omitempty"`
	Transforms []TransformGroup `yaml:"transforms,omitempty" json:"transforms,omitempty"`
	StopRules  []StopRuleGroup  `yaml:"stopRules,omitempty" json:"stop_rules,omitempty"`
	Suggest    SuggestOptions   `yaml:"suggest,omitempty" json:"suggest,omitempty"`
}

// TransformGroup scopes a set of transform rules to a file glob pattern.
type TransformGroup struct {
	Pattern   string        `yaml:"pattern" json:"pattern"`
	Content   []ContentRule `yaml:"content,omitempty" json:"content,omitempty"`
	Filename  []ContentRule `yaml:"filename,omitempty" json:"filename,omitempty"`
	SkipPaths []string      `yaml:"skipPaths,omitempty" json:"skip_paths,omitempty"`
}

// ContentRule is one find→replace substitution. Find is a regular
// expression for content rules and for filename rules alike.
type ContentRule struct {
	Find    string `yaml:"find" json:"find"`
	Replace string `yaml:"replace" json:"replace"`
}

// StopRuleGroup scopes stop rules to a file glob pattern.
type StopRuleGroup struct {
	Pattern string          `yaml:"pattern" json:"pattern"`
	Rules   []StopRuleEntry `yaml:"rules" json:"rules"`
}

// StopRuleEntry is the serialized form of a stop rule. VPrefix applies to
// versionFormat rules, Min/Max to numeric rules.
type StopRuleEntry struct {
	Type    string `yaml:"type" json:"type"`
	Path    string `yaml:"path" json:"path"`
	VPrefix string `yaml:"vPrefix,omitempty" json:"v_prefix,omitempty"`
	Min     *int   `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *int   `yaml:"max,omitempty" json:"max,omitempty"`
}

// SuggestOptions tunes the suggestion engine.
type SuggestOptions struct {
	MinConfidence float64 `yaml:"minConfidence,omitempty" json:"min_confidence,omitempty"`
}

// Load reads and validates a promotion configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a promotion configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Files) == 0 {
		cfg.Files = []string{"**/*.yaml", "**/*.yml"}
	}
	return &cfg, nil
}

// Validate checks structural requirements the YAML schema cannot express.
func (c *Config) Validate() error {
	if c.From == "" {
		return errors.New("config: 'from' directory is required")
	}
	if c.To == "" {
		return errors.New("config: 'to' directory is required")
	}
	for _, group := range c.Transforms {
		if group.Pattern == "" {
			return errors.New("config: transform group without pattern")
		}
		for _, rule := range append(append([]ContentRule{}, group.Content...), group.Filename...) {
			if rule.Find == "" {
				return errors.Errorf("config: transform rule without find in group %s", group.Pattern)
			}
		}
	}
	for _, group := range c.StopRules {
		if group.Pattern == "" {
			return errors.New("config: stop rule group without pattern")
		}
		for _, rule := range group.Rules {
			if !knownStopRuleTypes[rule.Type] {
				return errors.Errorf("config: unknown stop rule type %q", rule.Type)
			}
			if rule.Path == "" {
				return errors.Errorf("config: stop rule of type %s without path", rule.Type)
			}
			if rule.Type == "versionFormat" && rule.VPrefix != "required" && rule.VPrefix != "forbidden" {
				return errors.Errorf("config: versionFormat rule on %s needs vPrefix required or forbidden", rule.Path)
			}
		}
	}
	return nil
}

// ContentRulesFor returns the content transforms applying to a file path.
func (c *Config) ContentRulesFor(filePath string) []ContentRule {
	var rules []ContentRule
	for _, group := range c.Transforms {
		if matchesPattern(group.Pattern, filePath) {
			rules = append(rules, group.Content...)
		}
	}
	return rules
}

// FilenameRulesFor returns the filename transforms applying to a file path.
func (c *Config) FilenameRulesFor(filePath string) []ContentRule {
	var rules []ContentRule
	for _, group := range c.Transforms {
		if matchesPattern(group.Pattern, filePath) {
			rules = append(rules, group.Filename...)
		}
	}
	return rules
}

// SkipPathsFor returns the configured skip paths applying to a file path.
func (c *Config) SkipPathsFor(filePath string) []string {
	var paths []string
	for _, group := range c.Transforms {
		if matchesPattern(group.Pattern, filePath) {
			paths = append(paths, group.SkipPaths...)
		}
	}
	return paths
}

// StopRulesFor returns the stop rules applying to a file path.
func (c *Config) StopRulesFor(filePath string) []StopRuleEntry {
	var rules []StopRuleEntry
	for _, group := range c.StopRules {
		if matchesPattern(group.Pattern, filePath) {
			rules = append(rules, group.Rules...)
		}
	}
	return rules
}

// HasContentRule reports whether the exact find→replace pair is already
// adopted in any transform group.
func (c *Config) HasContentRule(find, replace string) bool {
	for _, group := range c.Transforms {
		for _, rule := range group.Content {
			if rule.Find == find && rule.Replace == replace {
				return true
			}
		}
	}
	return false
}

// HasStopRule reports whether a stop rule of the given type already exists
// for the given path in any group.
func (c *Config) HasStopRule(ruleType, path string) bool {
	for _, group := range c.StopRules {
		for _, rule := range group.Rules {
			if rule.Type == ruleType && rule.Path == path {
				return true
			}
		}
	}
	return false
}

func matchesPattern(pattern, filePath string) bool {
	matched, err := doublestar.Match(pattern, filePath)
	return err == nil && matched
}
