package model

import "time"

// Config is the complete tool configuration. Values come from (highest to
// lowest priority) CLI flags, SCOPE3SCAN_* environment variables, the YAML
// config file, and the defaults below.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Scrape      ScrapeConfig      `yaml:"scrape" mapstructure:"scrape"`
	Dataset     DatasetConfig     `yaml:"dataset" mapstructure:"dataset"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound HTTP behaviour.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRetries   int           `yaml:"max_retries" mapstructure:"max_retries"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// CacheConfig controls the layered fetch cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ScrapeConfig controls annual report acquisition.
type ScrapeConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	MinCompanies      int           `yaml:"min_companies" mapstructure:"min_companies"`
	MinYear           int           `yaml:"min_year" mapstructure:"min_year"`
	MaxYear           int           `yaml:"max_year" mapstructure:"max_year"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	PoliteDelay       time.Duration `yaml:"polite_delay" mapstructure:"polite_delay"`
	DataDir           string        `yaml:"data_dir" mapstructure:"data_dir"`
	MinPDFBytes       int64         `yaml:"min_pdf_bytes" mapstructure:"min_pdf_bytes"`
	MaxPages          int           `yaml:"max_pages" mapstructure:"max_pages"`
	MinTextChars      int           `yaml:"min_text_chars" mapstructure:"min_text_chars"`
}

// DatasetConfig controls excerpt extraction and labeling.
type DatasetConfig struct {
	WindowRadius     int    `yaml:"window_radius" mapstructure:"window_radius"`
	MinWindowChars   int    `yaml:"min_window_chars" mapstructure:"min_window_chars"`
	MaxExcerptChars  int    `yaml:"max_excerpt_chars" mapstructure:"max_excerpt_chars"`
	MinExcerptChars  int    `yaml:"min_excerpt_chars" mapstructure:"min_excerpt_chars"`
	DedupPrefixChars int    `yaml:"dedup_prefix_chars" mapstructure:"dedup_prefix_chars"`
	MaxPerDocument   int    `yaml:"max_per_document" mapstructure:"max_per_document"`
	OutputPath       string `yaml:"output_path" mapstructure:"output_path"`
}

// ConcurrencyConfig controls worker counts.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig controls the optional label audit. The audit is advisory only
// and never changes labels.
type LLMConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"-" mapstructure:"-"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	SampleSize int    `yaml:"sample_size" mapstructure:"sample_size"`
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls reporting to the terminal.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults. Dataset limits mirror the
// hand-tuned values the labeling rules were calibrated against.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "scope3scan/0.2 (+https://github.com/carbonlens/scope3scan)",
			MaxBodyBytes: 50_000_000,
			MaxRetries:   5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".scope3scan-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Scrape: ScrapeConfig{
			BaseURL:           "https://www.annualreports.com",
			MinCompanies:      50,
			MinYear:           2020,
			MaxYear:           2025,
			RequestsPerSecond: 0.5,
			PoliteDelay:       2 * time.Second,
			DataDir:           "data",
			MinPDFBytes:       1000,
			MaxPages:          50,
			MinTextChars:      500,
		},
		Dataset: DatasetConfig{
			WindowRadius:     3,
			MinWindowChars:   100,
			MaxExcerptChars:  500,
			MinExcerptChars:  50,
			DedupPrefixChars: 200,
			MaxPerDocument:   3,
			OutputPath:       "dataset.csv",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Model:      "gpt-4o-mini",
			SampleSize: 20,
			MaxTokens:  1024,
		},
	}
}
