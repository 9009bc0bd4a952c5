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

package summarize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/config"
)

// SystemInstruction is sent with every request.
const SystemInstruction = "You are a helpful data science assistant. Provide clear, concise explanations of code and analytical results."

// Unavailable is returned by Summarize when no client is configured.
const Unavailable = "Summary not available (no summarization service configured)."

// 📝 Summarizer turns prompts into narrative text. It never fails: missing
// clients and exhausted retries degrade to placeholder text.
type Summarizer struct {
	client Client
}

// New returns a summarizer over client. A nil client yields placeholders.
func New(client Client) *Summarizer {
	return &Summarizer{client: client}
}

// Available reports whether a client is configured.
func (s *Summarizer) Available() bool { return s != nil && s.client != nil }

// Summarize sends prompt with the fixed system instruction.
func (s *Summarizer) Summarize(ctx context.Context, prompt string) string {
	if !s.Available() {
		return Unavailable
	}
	resp, err := s.client.Complete(ctx, SystemInstruction, prompt)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("client", s.client.Name()).Msg("summarization failed")
		return fmt.Sprintf("Error querying summarization service: %v", err)
	}
	return resp
}

// 🏭 NewClient builds the configured client with the retry and cache
// middlewares. It returns nil when the provider is "none" or no Gemini key
// can be found.
func NewClient(ctx context.Context, cfg *config.SummarizerConfig, projectRoot string) (Client, error) {
	logger := zerolog.Ctx(ctx)

	var base Client
	switch cfg.Provider {
	case config.ProviderNone:
		logger.Info().Msg("summarization disabled")
		return nil, nil
	case config.ProviderOllama:
		c, err := NewOllamaClient(cfg.Host, cfg.Model)
		if err != nil {
			return nil, err
		}
		base = c
	case config.ProviderGemini:
		envFile := cfg.EnvFile
		if envFile != "" && !filepath.IsAbs(envFile) {
			envFile = filepath.Join(projectRoot, envFile)
		}
		key := LoadAPIKey(envFile, cfg.APIKeyEnv)
		if key == "" {
			logger.Warn().Str("env", cfg.APIKeyEnv).Msg("API key not found, summaries will be disabled")
			return nil, nil
		}
		c, err := NewGeminiClient(ctx, key, cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		base = c
	default:
		return nil, errors.Errorf("unknown provider %q", cfg.Provider)
	}

	logger.Info().Str("client", base.Name()).Msg("summarization client initialized")
	return Wrap(base, Cache(cfg.CacheSize), Retry(cfg.Retries, cfg.RetryDelayDuration())), nil
}

// 🔑 LoadAPIKey looks up the key in envFile first. The file may hold
// NAME=value lines or only the bare key. The process environment is the
// fallback.
func LoadAPIKey(envFile, name string) string {
	if envFile != "" {
		if vals, err := godotenv.Read(envFile); err == nil {
			if v := strings.TrimSpace(vals[name]); v != "" {
				return v
			}
		}
		if raw, err := os.ReadFile(envFile); err == nil {
			content := strings.TrimSpace(string(raw))
			if v, ok := strings.CutPrefix(content, name+"="); ok {
				content = strings.Trim(strings.TrimSpace(v), `"'`)
			}
			if content != "" && !strings.ContainsAny(content, "\n=") {
				return content
			}
		}
	}
	return strings.TrimSpace(os.Getenv(name))
}
