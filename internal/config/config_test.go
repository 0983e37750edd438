package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  port: 8080
  data_dir: ./data
scrape:
  base_url: https://site.test/results
  pages: 12
  delay_ms: 800
clean:
  gpa_max: 5.0
  year_min: 1950
  year_max: 2035
  strict: true
llm:
  enabled: true
  url: http://127.0.0.1:8001/canonize
polling:
  enabled: false
`

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadAndValidate(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.App.Port)
	require.Equal(t, "https://site.test/results", cfg.Scrape.BaseURL)
	require.Equal(t, 12, cfg.Scrape.Pages)
	require.True(t, cfg.Clean.Strict)
	require.True(t, cfg.LLM.Enabled)

	out, res := NormalizeAndValidate(cfg)
	require.True(t, res.OK(), "errors: %v", res.Errors)
	require.Equal(t, 120, out.LLM.TimeoutS)
}

func TestValidateCatchesBadConfig(t *testing.T) {
	var cfg Config
	cfg.App.Port = 99999
	cfg.Clean.YearMin = 3000
	cfg.Clean.YearMax = 2000
	cfg.LLM.Enabled = true
	cfg.Polling.Enabled = true

	_, res := NormalizeAndValidate(cfg)
	require.False(t, res.OK())
	require.GreaterOrEqual(t, len(res.Errors), 4)
}

func TestValidateDefaults(t *testing.T) {
	var cfg Config
	cfg.App.Port = 8080
	cfg.Scrape.BaseURL = "https://site.test"

	out, res := NormalizeAndValidate(cfg)
	require.True(t, res.OK(), "errors: %v", res.Errors)
	require.Equal(t, 1, out.Scrape.Pages)
	require.Equal(t, 1000, out.Scrape.DelayMS)
	require.Equal(t, 5.0, out.Clean.GPAMax)
	require.Equal(t, 1950, out.Clean.YearMin)
	require.Equal(t, 2035, out.Clean.YearMax)
}

func TestOverlayEnv(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	t.Setenv("GRADPULSE_BASE_URL", "https://other.test/r")
	t.Setenv("GRADPULSE_PAGES", "3")
	OverlayEnv(&cfg)

	require.Equal(t, "https://other.test/r", cfg.Scrape.BaseURL)
	require.Equal(t, 3, cfg.Scrape.Pages)
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), "saved.yml")
	require.NoError(t, SaveAtomic(p, cfg))

	back, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, cfg, back)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	var cfg Config // port 0, no base url
	require.Error(t, SaveAtomic(filepath.Join(t.TempDir(), "bad.yml"), cfg))
}

func TestEnsureUserConfigCopiesDefault(t *testing.T) {
	dataDir := t.TempDir()
	def := writeTemp(t, sampleYAML)

	p, err := EnsureUserConfig(dataDir, def)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dataDir, "config.yml"), p)

	// Second call finds the existing copy and leaves it alone.
	require.NoError(t, os.WriteFile(p, []byte("app:\n  port: 9999\n"), 0o644))
	p2, err := EnsureUserConfig(dataDir, def)
	require.NoError(t, err)
	require.Equal(t, p, p2)
	cfg, err := Load(p2)
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.App.Port)
}
