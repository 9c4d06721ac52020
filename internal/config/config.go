package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents repograder configuration options
type Config struct {
	// Org is the hosting organization that holds the student repositories
	Org string `yaml:"org"`

	// Prefix is the course prefix repository names must contain
	Prefix string `yaml:"prefix"`

	// RosterFile is the path to the semicolon-delimited roster table.
	// When empty, the roster is read from the ALUMNOS_CSV environment variable
	RosterFile string `yaml:"roster_file"`

	// AnswerKeyFile is the path to the JSON answer key.
	// When empty, the key is read from the RESPUESTAS_JSON environment variable
	AnswerKeyFile string `yaml:"answer_key_file"`

	// OutputFile is the path of the CSV summary report
	OutputFile string `yaml:"output_file"`

	// Workdir is the directory repositories are cloned into
	Workdir string `yaml:"workdir"`

	// Mode selects the driving collection: "repos" or "roster"
	Mode string `yaml:"mode"`

	// ListLimit caps how many repositories one discovery call returns
	ListLimit int `yaml:"list_limit"`

	// Timeout is the maximum duration of a single hosting call
	Timeout time.Duration `yaml:"timeout"`

	// Notify enables posting a result issue on each evaluated repository
	Notify bool `yaml:"notify"`

	// IdentifierPattern is an optional regex whose first capture group
	// extracts the login from a repository name. Empty selects the
	// default split after the last "-"
	IdentifierPattern string `yaml:"identifier_pattern"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		OutputFile: "resumen_final.csv",
		Workdir:    ".repograder/repos",
		Mode:       "repos",
		ListLimit:  200,
		Timeout:    2 * time.Minute,
		Notify:     true,
		LogLevel:   "info",
		LogDir:     ".repograder/logs",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	// Use a temporary struct to handle duration parsing and to detect
	// which fields were actually set
	type yamlConfig struct {
		Org               *string `yaml:"org"`
		Prefix            *string `yaml:"prefix"`
		RosterFile        *string `yaml:"roster_file"`
		AnswerKeyFile     *string `yaml:"answer_key_file"`
		OutputFile        *string `yaml:"output_file"`
		Workdir           *string `yaml:"workdir"`
		Mode              *string `yaml:"mode"`
		ListLimit         *int    `yaml:"list_limit"`
		Timeout           *string `yaml:"timeout"`
		Notify            *bool   `yaml:"notify"`
		IdentifierPattern *string `yaml:"identifier_pattern"`
		LogLevel          *string `yaml:"log_level"`
		LogDir            *string `yaml:"log_dir"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply values present in the file (merging with defaults)
	if yamlCfg.Org != nil {
		cfg.Org = *yamlCfg.Org
	}
	if yamlCfg.Prefix != nil {
		cfg.Prefix = *yamlCfg.Prefix
	}
	if yamlCfg.RosterFile != nil {
		cfg.RosterFile = *yamlCfg.RosterFile
	}
	if yamlCfg.AnswerKeyFile != nil {
		cfg.AnswerKeyFile = *yamlCfg.AnswerKeyFile
	}
	if yamlCfg.OutputFile != nil {
		cfg.OutputFile = *yamlCfg.OutputFile
	}
	if yamlCfg.Workdir != nil {
		cfg.Workdir = *yamlCfg.Workdir
	}
	if yamlCfg.Mode != nil {
		cfg.Mode = *yamlCfg.Mode
	}
	if yamlCfg.ListLimit != nil {
		cfg.ListLimit = *yamlCfg.ListLimit
	}
	if yamlCfg.Timeout != nil {
		timeout, err := time.ParseDuration(*yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", *yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.Notify != nil {
		cfg.Notify = *yamlCfg.Notify
	}
	if yamlCfg.IdentifierPattern != nil {
		cfg.IdentifierPattern = *yamlCfg.IdentifierPattern
	}
	if yamlCfg.LogLevel != nil {
		cfg.LogLevel = *yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != nil {
		cfg.LogDir = *yamlCfg.LogDir
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .repograder/config.yaml in the
// specified directory
// If the directory or file doesn't exist, returns default configuration
// without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".repograder", "config.yaml")
	return LoadConfig(configPath)
}

// Flags holds the CLI flag values that may override configuration.
// Nil pointers mean the flag was not set on the command line.
type Flags struct {
	Org               *string
	Prefix            *string
	RosterFile        *string
	AnswerKeyFile     *string
	OutputFile        *string
	Workdir           *string
	Mode              *string
	ListLimit         *int
	Timeout           *time.Duration
	Notify            *bool
	IdentifierPattern *string
	LogDir            *string
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(f Flags) {
	if f.Org != nil {
		c.Org = *f.Org
	}
	if f.Prefix != nil {
		c.Prefix = *f.Prefix
	}
	if f.RosterFile != nil {
		c.RosterFile = *f.RosterFile
	}
	if f.AnswerKeyFile != nil {
		c.AnswerKeyFile = *f.AnswerKeyFile
	}
	if f.OutputFile != nil {
		c.OutputFile = *f.OutputFile
	}
	if f.Workdir != nil {
		c.Workdir = *f.Workdir
	}
	if f.Mode != nil {
		c.Mode = *f.Mode
	}
	if f.ListLimit != nil {
		c.ListLimit = *f.ListLimit
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.Notify != nil {
		c.Notify = *f.Notify
	}
	if f.IdentifierPattern != nil {
		c.IdentifierPattern = *f.IdentifierPattern
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.Org == "" {
		return fmt.Errorf("org must be set")
	}

	if c.Mode != "repos" && c.Mode != "roster" {
		return fmt.Errorf("invalid mode %q, must be one of: repos, roster", c.Mode)
	}

	if c.ListLimit <= 0 {
		return fmt.Errorf("list_limit must be > 0, got %d", c.ListLimit)
	}

	// Timeout can be 0 (no timeout) or positive, negative is invalid
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.OutputFile == "" {
		return fmt.Errorf("output_file cannot be empty")
	}

	if c.Workdir == "" {
		return fmt.Errorf("workdir cannot be empty")
	}

	return nil
}
