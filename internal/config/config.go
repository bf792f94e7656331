package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration for ic10-lint
type Config struct {
	// Limits holds the chip's physical script limits
	Limits LimitsConfig `json:"limits,omitempty"`

	// Files is a list of glob patterns for IC10 scripts to analyze
	Files []string `json:"files,omitempty"`

	// Lint contains linting rule configuration
	Lint LintConfig `json:"lint,omitempty"`

	// Analysis contains analysis options
	Analysis AnalysisConfig `json:"analysis,omitempty"`
}

// LimitsConfig mirrors the in-game IC housing constraints. Scripts that
// exceed them load truncated or not at all on the chip.
type LimitsConfig struct {
	// MaxLines is the highest line count the chip accepts
	MaxLines int `json:"maxLines,omitempty"`

	// MaxColumns is the highest column the editor displays
	MaxColumns int `json:"maxColumns,omitempty"`

	// MaxBytes is the script size limit; newlines count as two bytes
	MaxBytes int `json:"maxBytes,omitempty"`
}

// LintConfig contains linting configuration
type LintConfig struct {
	// Rules maps rule names to severity: "off", "warning", "error"
	Rules map[string]string `json:"rules,omitempty"`

	// IgnorePatterns is a list of file patterns to skip linting entirely
	IgnorePatterns []string `json:"ignorePatterns,omitempty"`

	// WarnOverlineComment reports comments past the line limit
	WarnOverlineComment *bool `json:"warnOverlineComment,omitempty"`

	// WarnOvercolumnComment reports comments past the column limit
	WarnOvercolumnComment *bool `json:"warnOvercolumnComment,omitempty"`
}

// AnalysisConfig contains analysis options
type AnalysisConfig struct {
	// MaxParallelFiles limits concurrent file processing (0 = auto)
	MaxParallelFiles int `json:"maxParallelFiles,omitempty"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxLines:   128,
			MaxColumns: 90,
			MaxBytes:   4096,
		},
		Files: []string{"*.ic10", "**/*.ic10"},
		Lint: LintConfig{
			Rules:                 map[string]string{},
			IgnorePatterns:        []string{},
			WarnOverlineComment:   boolPtr(true),
			WarnOvercolumnComment: boolPtr(true),
		},
		Analysis: AnalysisConfig{
			MaxParallelFiles: 0, // auto
		},
	}
}

func boolPtr(v bool) *bool {
	return &v
}

// Load finds and loads the configuration file
// Search order:
//  1. ./ic10_lint.json (current working directory)
//  2. ./.ic10_lint.json (current working directory)
//  3. <rootPath>/ic10_lint.json (if different from cwd)
//  4. ~/.config/ic10_lint/config.json
//
// Returns DefaultConfig if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, "ic10_lint.json"),
		filepath.Join(cwd, ".ic10_lint.json"),
	}

	// If rootPath is a directory and different from cwd, also check there
	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, "ic10_lint.json"),
				filepath.Join(rootPath, ".ic10_lint.json"),
			)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "ic10_lint", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	// No config found, return defaults
	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing fields
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Limits.MaxLines == 0 {
		c.Limits.MaxLines = 128
	}
	if c.Limits.MaxColumns == 0 {
		c.Limits.MaxColumns = 90
	}
	if c.Limits.MaxBytes == 0 {
		c.Limits.MaxBytes = 4096
	}

	if len(c.Files) == 0 {
		c.Files = []string{"*.ic10", "**/*.ic10"}
	}

	if c.Lint.Rules == nil {
		c.Lint.Rules = make(map[string]string)
	}
	if c.Lint.WarnOverlineComment == nil {
		c.Lint.WarnOverlineComment = boolPtr(true)
	}
	if c.Lint.WarnOvercolumnComment == nil {
		c.Lint.WarnOvercolumnComment = boolPtr(true)
	}
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetRuleSeverity returns the severity for a rule, or the default if not configured
func (c *Config) GetRuleSeverity(rule string, defaultSeverity string) string {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity
	}
	return defaultSeverity
}

// IsRuleEnabled returns true if the rule is not set to "off"
func (c *Config) IsRuleEnabled(rule string) bool {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity != "off"
	}
	return true // enabled by default
}

// ShouldIgnoreFile checks if a file should be skipped entirely
func (c *Config) ShouldIgnoreFile(filePath string) bool {
	for _, pattern := range c.Lint.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, filePath); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(filePath)); matched {
			return true
		}
	}
	return false
}
