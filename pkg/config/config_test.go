package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ordstat/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".ordstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
solver:
  nmax: 5000
  ptol: 1.0e-6
  confidence: 0.9
batch:
  workers: 16
output:
  format: json
  color: false
logging:
  level: debug
  json: true
server:
  host: "0.0.0.0"
  port: 9000
  read_timeout: "15s"
  write_timeout: "2m"
  max_body_size: "512KB"
  rate_limit: 2.5
  rate_burst: 5
telemetry:
  otlp_endpoint: "localhost:4317"
  otlp_insecure: true
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Solver.NMax)
	assert.InDelta(t, 1e-6, cfg.Solver.PTol, 1e-12)
	assert.InDelta(t, 0.9, cfg.Solver.Confidence, 1e-12)
	assert.Equal(t, 16, cfg.Batch.Workers)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)

	maxBody, err := cfg.Server.MaxBodyBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(512_000), maxBody)
	assert.InDelta(t, 2.5, cfg.Server.RateLimit, 0)
	assert.Equal(t, 5, cfg.Server.RateBurst)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("ORDSTAT_SOLVER_NMAX", "1234")
	t.Setenv("ORDSTAT_OUTPUT_FORMAT", "yaml")
	t.Setenv("ORDSTAT_SERVER_PORT", "9091")

	cfg, err := config.LoadConfig(writeConfig(t, "solver:\n  nmax: 10\n"))
	require.NoError(t, err)

	assert.Equal(t, 1234, cfg.Solver.NMax)
	assert.Equal(t, config.FormatYAML, cfg.Output.Format)
	assert.Equal(t, 9091, cfg.Server.Port)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "port_zero", content: "server:\n  port: 0\n", wantErr: config.ErrInvalidPort},
		{name: "port_too_high", content: "server:\n  port: 70000\n", wantErr: config.ErrInvalidPort},
		{name: "nmax_zero", content: "solver:\n  nmax: 0\n", wantErr: config.ErrInvalidNMax},
		{name: "ptol_one", content: "solver:\n  ptol: 1\n", wantErr: config.ErrInvalidPTol},
		{name: "confidence_zero", content: "solver:\n  confidence: 0\n", wantErr: config.ErrInvalidConfidence},
		{name: "workers_negative", content: "batch:\n  workers: -1\n", wantErr: config.ErrInvalidWorkers},
		{name: "format_unknown", content: "output:\n  format: xml\n", wantErr: config.ErrInvalidFormat},
		{name: "body_size_garbage", content: "server:\n  max_body_size: lots\n", wantErr: config.ErrInvalidBodySize},
		{name: "body_size_zero", content: "server:\n  max_body_size: 0B\n", wantErr: config.ErrInvalidBodySize},
		{name: "rate_limit_negative", content: "server:\n  rate_limit: -1\n", wantErr: config.ErrInvalidRateLimit},
		{name: "rate_burst_negative", content: "server:\n  rate_burst: -3\n", wantErr: config.ErrInvalidRateLimit},
		{name: "level_unknown", content: "logging:\n  level: loud\n", wantErr: config.ErrInvalidLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
