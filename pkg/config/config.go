// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// Summarizer providers.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderNone   = "none"
)

// 🤖 SummarizerConfig configures the external summarization service
type SummarizerConfig struct {
	Provider   string `json:"provider,omitempty" yaml:"provider,omitempty" hcl:"provider,optional"`          // gemini, ollama or none
	Model      string `json:"model,omitempty" yaml:"model,omitempty" hcl:"model,optional"`                   // Model name
	Host       string `json:"host,omitempty" yaml:"host,omitempty" hcl:"host,optional"`                      // Ollama host URL
	APIKeyEnv  string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty" hcl:"api_key_env,optional"` // Variable holding the API key
	EnvFile    string `json:"env_file,omitempty" yaml:"env_file,omitempty" hcl:"env_file,optional"`          // Env file, relative to the project root
	MaxTokens  int    `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" hcl:"max_tokens,optional"`    // Response token cap
	Retries    int    `json:"retries,omitempty" yaml:"retries,omitempty" hcl:"retries,optional"`             // Attempts per request
	RetryDelay string `json:"retry_delay,omitempty" yaml:"retry_delay,omitempty" hcl:"retry_delay,optional"` // Fixed delay between attempts
	CacheSize  int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty" hcl:"cache_size,optional"`    // LRU entries, 0 uses the default
}

// 📂 Section is a top-level directory narrated as its own report chapter
type Section struct {
	Dir   string `json:"dir" yaml:"dir" hcl:"dir"`
	Title string `json:"title,omitempty" yaml:"title,omitempty" hcl:"title,optional"`
}

// 🔑 KeyFile is a glob pattern for files narrated before the directory walk
type KeyFile struct {
	Pattern string `json:"pattern" yaml:"pattern" hcl:"pattern"`
	Title   string `json:"title" yaml:"title" hcl:"title"`
}

// 📚 Config represents the complete configuration
type Config struct {
	ProjectRoot      string            `json:"project_root,omitempty" yaml:"project_root,omitempty" hcl:"project_root,optional"`
	Output           string            `json:"output,omitempty" yaml:"output,omitempty" hcl:"output,optional"`
	AssetsDir        string            `json:"assets_dir,omitempty" yaml:"assets_dir,omitempty" hcl:"assets_dir,optional"`
	LogFile          string            `json:"log_file,omitempty" yaml:"log_file,omitempty" hcl:"log_file,optional"`
	Title            string            `json:"title,omitempty" yaml:"title,omitempty" hcl:"title,optional"`
	Subtitle         string            `json:"subtitle,omitempty" yaml:"subtitle,omitempty" hcl:"subtitle,optional"`
	FooterNote       string            `json:"footer_note,omitempty" yaml:"footer_note,omitempty" hcl:"footer_note,optional"`
	CacheDirs        []string          `json:"cache_dirs,omitempty" yaml:"cache_dirs,omitempty" hcl:"cache_dirs,optional"`
	CodePreviewLines int               `json:"code_preview_lines,omitempty" yaml:"code_preview_lines,omitempty" hcl:"code_preview_lines,optional"`
	CSVPreviewRows   int               `json:"csv_preview_rows,omitempty" yaml:"csv_preview_rows,omitempty" hcl:"csv_preview_rows,optional"`
	Summarizer       *SummarizerConfig `json:"summarizer,omitempty" yaml:"summarizer,omitempty" hcl:"summarizer,block"`
	Sections         []Section         `json:"sections,omitempty" yaml:"sections,omitempty" hcl:"section,block"`
	KeyFiles         []KeyFile         `json:"key_files,omitempty" yaml:"key_files,omitempty" hcl:"key_file,block"`

	location string
}

// DefaultSections are the chapters of the report, in order.
func DefaultSections() []Section {
	return []Section{
		{Dir: "Code", Title: "Code Analysis"},
		{Dir: "Data", Title: "Data Analysis"},
		{Dir: "Output", Title: "Results Analysis"},
	}
}

// DefaultKeyFiles are the patterns narrated first, in order.
func DefaultKeyFiles() []KeyFile {
	return []KeyFile{
		{Pattern: "**/Cluster_Analysis.ipynb", Title: "Cluster Analysis"},
		{Pattern: "**/Feature_Importance.ipynb", Title: "Feature Importance Analysis"},
		{Pattern: "**/model_performance*.csv", Title: "Model Performance Analysis"},
		{Pattern: "**/confusion_matrix*.png", Title: "Model Evaluation"},
		{Pattern: "**/feature_importance*.csv", Title: "Feature Importance Results"},
		{Pattern: "**/feature_importance*.png", Title: "Feature Importance Visualization"},
	}
}

// 🏭 Default returns a validated configuration rooted at projectRoot
func Default(projectRoot string) *Config {
	cfg := &Config{ProjectRoot: projectRoot}
	// defaults always validate
	_ = cfg.Validate()
	return cfg
}

// 🔍 Validate checks the configuration and fills defaults for empty fields
func (cfg *Config) Validate() error {
	if cfg.Output == "" {
		cfg.Output = "Project_Summary_Report.pdf"
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = "temp_report_assets"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "report_generator.log"
	}
	if cfg.Title == "" {
		cfg.Title = "Project Summary"
	}
	if cfg.Subtitle == "" {
		cfg.Subtitle = "Comprehensive Analysis Report"
	}
	if cfg.FooterNote == "" {
		cfg.FooterNote = "Research Project Based on Data Analysis"
	}
	if len(cfg.CacheDirs) == 0 {
		cfg.CacheDirs = []string{"__pycache__"}
	}
	if cfg.CodePreviewLines <= 0 {
		cfg.CodePreviewLines = 30
	}
	if cfg.CSVPreviewRows <= 0 {
		cfg.CSVPreviewRows = 10
	}
	if cfg.Summarizer == nil {
		cfg.Summarizer = &SummarizerConfig{}
	}
	if err := cfg.Summarizer.validate(); err != nil {
		return errors.Errorf("summarizer: %w", err)
	}

	if len(cfg.Sections) == 0 {
		cfg.Sections = DefaultSections()
	}
	for i := range cfg.Sections {
		s := &cfg.Sections[i]
		if s.Dir == "" {
			return errors.Errorf("section %d: dir is required", i)
		}
		s.Dir = filepath.Clean(s.Dir)
		if s.Title == "" {
			s.Title = s.Dir + " Analysis"
		}
	}

	if len(cfg.KeyFiles) == 0 {
		cfg.KeyFiles = DefaultKeyFiles()
	}
	for i, k := range cfg.KeyFiles {
		if k.Pattern == "" {
			return errors.Errorf("key file %d: pattern is required", i)
		}
		if !doublestar.ValidatePattern(k.Pattern) {
			return errors.Errorf("key file %d: invalid pattern %q", i, k.Pattern)
		}
		if k.Title == "" {
			return errors.Errorf("key file %d: title is required", i)
		}
	}

	return nil
}

func (s *SummarizerConfig) validate() error {
	if s.Provider == "" {
		s.Provider = ProviderGemini
	}
	s.Provider = strings.ToLower(s.Provider)
	switch s.Provider {
	case ProviderGemini:
		if s.Model == "" {
			s.Model = "gemini-2.5-flash"
		}
	case ProviderOllama:
		if s.Model == "" {
			s.Model = "llama3"
		}
	case ProviderNone:
	default:
		return errors.Errorf("unknown provider %q", s.Provider)
	}
	if s.Host == "" {
		s.Host = "http://localhost:11434"
	}
	if s.APIKeyEnv == "" {
		s.APIKeyEnv = "GEMINI_API_KEY"
	}
	if s.EnvFile == "" {
		s.EnvFile = filepath.Join("Code", s.APIKeyEnv+".env")
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = 1000
	}
	if s.Retries <= 0 {
		s.Retries = 3
	}
	if s.RetryDelay == "" {
		s.RetryDelay = "5s"
	}
	if _, err := time.ParseDuration(s.RetryDelay); err != nil {
		return errors.Errorf("parsing retry_delay: %w", err)
	}
	if s.CacheSize <= 0 {
		s.CacheSize = 128
	}
	return nil
}

// RetryDelayDuration returns the parsed retry delay.
func (s *SummarizerConfig) RetryDelayDuration() time.Duration {
	d, err := time.ParseDuration(s.RetryDelay)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// 📍 Path resolves p against the project root
func (cfg *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cfg.ProjectRoot, p)
}

// OutputPath is the absolute path of the report file.
func (cfg *Config) OutputPath() string { return cfg.Path(cfg.Output) }

// AssetsPath is the absolute path of the temporary assets directory.
func (cfg *Config) AssetsPath() string { return cfg.Path(cfg.AssetsDir) }

// LogPath is the absolute path of the structured log file.
func (cfg *Config) LogPath() string { return cfg.Path(cfg.LogFile) }

// Location returns the file the config was loaded from, if any.
func (cfg *Config) Location() string { return cfg.location }

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (%s/%s)", cfg.ProjectRoot, cfg.Output, cfg.Summarizer.Provider, cfg.Summarizer.Model)
}
