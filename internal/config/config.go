// Package config loads the report configuration. The schema matches the
// /api/report surface so the same JSON describes both a run and what the
// dashboard displays about it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harbor-data/model.report/internal/labels"
)

// Config holds the knobs for one monitoring run. Fields are pointers so a
// partial JSON file keeps defaults for everything it omits.
type Config struct {
	// Artifact board location. Path is a local sqlite board; URL, when set,
	// selects the remote HTTP board instead.
	BoardPath *string `json:"board_path,omitempty"`
	BoardURL  *string `json:"board_url,omitempty"`

	// Pin names to resolve.
	ModelPin   *string `json:"model_pin,omitempty"`
	DatasetPin *string `json:"dataset_pin,omitempty"`

	// Rolling window size as a duration string like "672h" (28 days).
	Period *string `json:"period,omitempty"`

	// Metric names in display order.
	Metrics []string `json:"metrics,omitempty"`

	// Declared label -> code table for truth and predicted labels.
	Labels map[string]float64 `json:"labels,omitempty"`

	// URL the dashboard's API tab embeds. Defaults to the built-in model API.
	DocsURL *string `json:"docs_url,omitempty"`

	// Listen address for the dashboard server.
	Listen *string `json:"listen,omitempty"`

	// Directory for archival PNG trend plots; empty disables plotting.
	PlotDir *string `json:"plot_dir,omitempty"`
}

// Load reads a Config from a JSON file. Omitted fields keep their defaults,
// so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Period != nil && *c.Period != "" {
		d, err := time.ParseDuration(*c.Period)
		if err != nil {
			return fmt.Errorf("invalid period %q: %w", *c.Period, err)
		}
		if d <= 0 {
			return fmt.Errorf("period must be positive, got %q", *c.Period)
		}
	}

	if c.BoardPath != nil && c.BoardURL != nil {
		return fmt.Errorf("board_path and board_url are mutually exclusive")
	}

	if c.Labels != nil {
		if err := labels.Mapping(c.Labels).Validate(); err != nil {
			return fmt.Errorf("invalid label mapping: %w", err)
		}
	}

	return nil
}

// GetBoardPath returns the local board path or the default.
func (c *Config) GetBoardPath() string {
	if c.BoardPath == nil || *c.BoardPath == "" {
		return "model_report.db"
	}
	return *c.BoardPath
}

// GetBoardURL returns the remote board URL, or "" for a local board.
func (c *Config) GetBoardURL() string {
	if c.BoardURL == nil {
		return ""
	}
	return *c.BoardURL
}

// GetModelPin returns the model pin name or the default.
func (c *Config) GetModelPin() string {
	if c.ModelPin == nil || *c.ModelPin == "" {
		return "inspection-model"
	}
	return *c.ModelPin
}

// GetDatasetPin returns the dataset pin name or the default.
func (c *Config) GetDatasetPin() string {
	if c.DatasetPin == nil || *c.DatasetPin == "" {
		return "inspections-latest"
	}
	return *c.DatasetPin
}

// GetPeriod parses and returns the rolling window size. Defaults to 28 days.
func (c *Config) GetPeriod() time.Duration {
	if c.Period == nil || *c.Period == "" {
		return 28 * 24 * time.Hour
	}
	d, err := time.ParseDuration(*c.Period)
	if err != nil || d <= 0 {
		return 28 * 24 * time.Hour
	}
	return d
}

// GetMetrics returns the configured metric names in declared order.
func (c *Config) GetMetrics() []string {
	if len(c.Metrics) == 0 {
		return []string{"accuracy", "recall"}
	}
	return c.Metrics
}

// GetLabels returns the declared label mapping.
func (c *Config) GetLabels() labels.Mapping {
	if len(c.Labels) == 0 {
		return labels.Default()
	}
	return labels.Mapping(c.Labels)
}

// GetDocsURL returns the URL embedded in the dashboard's API tab. The
// default points at the built-in model API docs page.
func (c *Config) GetDocsURL() string {
	if c.DocsURL == nil || *c.DocsURL == "" {
		return "/model/__docs__"
	}
	return *c.DocsURL
}

// GetListen returns the dashboard listen address.
func (c *Config) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetPlotDir returns the plot output directory, or "" when plotting is off.
func (c *Config) GetPlotDir() string {
	if c.PlotDir == nil {
		return ""
	}
	return *c.PlotDir
}
