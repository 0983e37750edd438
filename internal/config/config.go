package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Scrape struct {
		BaseURL   string `yaml:"base_url"`
		Pages     int    `yaml:"pages"`
		DelayMS   int    `yaml:"delay_ms"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"scrape"`

	Clean struct {
		GPAMax  float64 `yaml:"gpa_max"`
		YearMin int     `yaml:"year_min"`
		YearMax int     `yaml:"year_max"`
		Strict  bool    `yaml:"strict"`
	} `yaml:"clean"`

	LLM struct {
		Enabled  bool     `yaml:"enabled"`
		URL      string   `yaml:"url"`
		Command  []string `yaml:"command"`
		Dir      string   `yaml:"dir"`
		TimeoutS int      `yaml:"timeout_s"`
	} `yaml:"llm"`

	Polling struct {
		Enabled         bool `yaml:"enabled"`
		IntervalMinutes int  `yaml:"interval_minutes"`
	} `yaml:"polling"`

	Report struct {
		QueriesDir string `yaml:"queries_dir"`
	} `yaml:"report"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
