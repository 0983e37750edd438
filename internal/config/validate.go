package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills defaults and checks the knobs the
// pipeline depends on. The returned copy is the one to use.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535 (got %d)", out.App.Port)
	}
	if strings.TrimSpace(out.Scrape.BaseURL) == "" {
		res.addErr("scrape.base_url is required")
	}
	if out.Scrape.Pages <= 0 {
		out.Scrape.Pages = 1
		res.addWarn("scrape.pages defaulted to 1")
	}
	if out.Scrape.DelayMS < 0 {
		res.addErr("scrape.delay_ms must be >= 0")
	}
	if out.Scrape.DelayMS == 0 {
		out.Scrape.DelayMS = 1000
		res.addWarn("scrape.delay_ms defaulted to 1000")
	}

	if out.Clean.GPAMax <= 0 {
		out.Clean.GPAMax = 5.0
	}
	if out.Clean.YearMin == 0 {
		out.Clean.YearMin = 1950
	}
	if out.Clean.YearMax == 0 {
		out.Clean.YearMax = 2035
	}
	if out.Clean.YearMin > out.Clean.YearMax {
		res.addErr("clean.year_min (%d) greater than clean.year_max (%d)", out.Clean.YearMin, out.Clean.YearMax)
	}

	if out.LLM.Enabled && out.LLM.URL == "" && len(out.LLM.Command) == 0 {
		res.addErr("llm.enabled requires llm.url or llm.command")
	}
	if out.LLM.TimeoutS <= 0 {
		out.LLM.TimeoutS = 120
	}

	if out.Polling.Enabled && out.Polling.IntervalMinutes <= 0 {
		res.addErr("polling.interval_minutes must be > 0 when polling is enabled")
	}

	if strings.TrimSpace(out.Report.QueriesDir) == "" {
		out.Report.QueriesDir = filepath.Join("sql", "queries")
	}

	return out, res
}
