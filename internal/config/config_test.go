package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{"period": "168h", "metrics": ["accuracy"]}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.GetPeriod())
	assert.Equal(t, []string{"accuracy"}, cfg.GetMetrics())
	// Everything omitted keeps its default.
	assert.Equal(t, "model_report.db", cfg.GetBoardPath())
	assert.Equal(t, "inspection-model", cfg.GetModelPin())
	assert.Equal(t, "inspections-latest", cfg.GetDatasetPin())
	assert.Equal(t, ":8080", cfg.GetListen())
	assert.Equal(t, "/model/__docs__", cfg.GetDocsURL())
	assert.Equal(t, "", cfg.GetPlotDir())
	assert.NoError(t, cfg.GetLabels().Validate())
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"bad period", `{"period": "four weeks"}`},
		{"negative period", `{"period": "-24h"}`},
		{"both boards", `{"board_path": "a.db", "board_url": "http://b"}`},
		{"duplicate label codes", `{"labels": {"PASS": 0, "OK": 0}}`},
		{"empty label table", `{"labels": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, tt.body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.Equal(t, 28*24*time.Hour, cfg.GetPeriod())
	assert.Equal(t, []string{"accuracy", "recall"}, cfg.GetMetrics())
	assert.Equal(t, "", cfg.GetBoardURL())
}
