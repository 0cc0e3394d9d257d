package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorkerConfig is one worker entry: its lane and working directory.
type WorkerConfig struct {
	ID   string `yaml:"id"`
	Lane string `yaml:"lane"`
	Dir  string `yaml:"dir,omitempty"`
}

// WindowConfig groups workers that share a layout page.
type WindowConfig struct {
	Workers []WorkerConfig `yaml:"workers"`
}

// TaskSourceConfig selects and configures the task source.
type TaskSourceConfig struct {
	Kind string `yaml:"kind"` // "yaml" | "github"
	Path string `yaml:"path,omitempty"`
}

// Config is the parsed shape of a project's .hive.yaml.
type Config struct {
	Session    string             `yaml:"session"`
	Architect  string             `yaml:"architect"` // "claude" | "codex"
	Workers    string             `yaml:"workers"`   // default backend for workers
	Theme      string             `yaml:"theme,omitempty"`
	Windows    []WindowConfig     `yaml:"windows"`
	TaskSource TaskSourceConfig   `yaml:"task_source,omitempty"`
	Setup      []string           `yaml:"setup,omitempty"`
}

// ConfigError wraps a load failure; per §7 it is fatal at startup (CLI
// exit code 2).
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// Load reads and validates a .hive.yaml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("read %s: %w", path, err)}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("parse %s: %w", path, err)}
	}

	if err := cfg.validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session == "" {
		return fmt.Errorf("session name is required")
	}
	if c.Architect != "claude" && c.Architect != "codex" {
		return fmt.Errorf("architect must be \"claude\" or \"codex\", got %q", c.Architect)
	}
	if c.Workers != "claude" && c.Workers != "codex" {
		return fmt.Errorf("workers must be \"claude\" or \"codex\", got %q", c.Workers)
	}
	seenLanes := make(map[string]bool)
	for wi, win := range c.Windows {
		for pi, w := range win.Workers {
			if w.ID == "" {
				return fmt.Errorf("windows[%d].workers[%d]: id is required", wi, pi)
			}
			if w.Lane == "" {
				return fmt.Errorf("windows[%d].workers[%d]: lane is required", wi, pi)
			}
			if seenLanes[w.Lane] {
				return fmt.Errorf("lane %q is assigned to more than one worker", w.Lane)
			}
			seenLanes[w.Lane] = true
		}
	}
	if c.TaskSource.Kind != "" && c.TaskSource.Kind != "yaml" && c.TaskSource.Kind != "github" {
		return fmt.Errorf("task_source.kind must be \"yaml\" or \"github\", got %q", c.TaskSource.Kind)
	}
	return nil
}
