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
	"strings"

	"gitlab.com/tozd/go/errors"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when a backend answers with no text.
var ErrEmptyResponse = errors.Base("empty response")

// GeminiClient calls the Gemini API through the official genai SDK.
type GeminiClient struct {
	cli       *genai.Client
	model     string
	maxTokens int
}

// NewGeminiClient builds a client for model. maxTokens caps the response.
func NewGeminiClient(ctx context.Context, apiKey, model string, maxTokens int) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{cli: cli, model: model, maxTokens: maxTokens}, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.model }

func (g *GeminiClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   int32(g.maxTokens),
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", errors.Errorf("generating content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.WithDetails(ErrEmptyResponse, "client", g.Name())
	}
	return text, nil
}
