package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/geo"
	"github.com/alexanderramin/intake/internal/store"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr())
	assert.Equal(t, store.DriverFile, cfg.Store.Driver)
	assert.Equal(t, "data", cfg.Store.Dir)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geo.Endpoint)
	assert.Equal(t, "Bursa", cfg.Geo.City)
	assert.Equal(t, "Türkiye", cfg.Geo.Country)
	assert.Equal(t, "municipal_bot", cfg.Geo.UserAgent)
	assert.Equal(t, 5000, cfg.Geo.TimeoutMs)
	assert.Equal(t, geo.DefaultCacheSize, cfg.Geo.CacheSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestParse_FullFile(t *testing.T) {
	yml := `
server:
  host: 0.0.0.0
  port: 9090
store:
  driver: s3
  s3:
    bucket: intake-sessions
    region: eu-central-1
    endpoint: http://localhost:9000
    prefix: prod
    path_style: true
geo:
  city: Ankara
log:
  level: debug
  format: json
payment_links:
  su: https://example.test/su
`
	cfg, err := Parse([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	opts := cfg.StoreOptions()
	assert.Equal(t, store.DriverS3, opts.Driver)
	assert.Equal(t, "intake-sessions", opts.S3.Bucket)
	assert.True(t, opts.S3.PathStyle)
	assert.Equal(t, "prod", opts.S3.Prefix)
	assert.Equal(t, "Ankara", cfg.Geo.City)
	assert.Equal(t, "json", cfg.Log.Format)

	links := cfg.Links()
	assert.Equal(t, "https://example.test/su", links[domain.PaymentWater])
	assert.Equal(t, domain.DefaultPaymentLinks[domain.PaymentGeneral], links[domain.PaymentGeneral])
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yml  string
		want string
	}{
		{"postgres without dsn", "store:\n  driver: postgres\n", "postgres_dsn is required"},
		{"s3 without bucket", "store:\n  driver: s3\n", "s3.bucket is required"},
		{"unknown driver", "store:\n  driver: redis\n", `store.driver "redis"`},
		{"bad port", "server:\n  port: 70000\n", "server.port 70000"},
		{"bad format", "log:\n  format: xml\n", `log.format "xml"`},
		{"unknown payment", "payment_links:\n  otopark: https://x\n", `unknown category "otopark"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\nstore:\n  driver: sqlite\n"), 0o644))

	t.Setenv("INTAKE_SERVER_PORT", "9100")
	t.Setenv("INTAKE_STORE_DRIVER", "memory")
	t.Setenv("INTAKE_LOG_LEVEL", "warn")
	t.Setenv("INTAKE_S3_PATH_STYLE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, store.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Store.S3.PathStyle)
}

func TestLoad_BadPortEnv(t *testing.T) {
	t.Setenv("INTAKE_CONFIG_PATH", "")
	t.Setenv("INTAKE_SERVER_PORT", "eighty")
	t.Chdir(t.TempDir())
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("INTAKE_CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err, "missing default file falls back to defaults")
	assert.Equal(t, 8000, cfg.Server.Port)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "an explicit path must exist")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "intake.log")

	logger, closeFn, err := NewLogger(LogConfig{Level: "debug", Format: "json", Path: logPath}, &buf)
	require.NoError(t, err)
	logger.Debug("hello", "session_id", "abc")
	require.NoError(t, closeFn())

	assert.Contains(t, buf.String(), `"session_id":"abc"`)
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}
