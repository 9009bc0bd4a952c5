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
	"net/url"
	"strings"

	"github.com/JexSrs/go-ollama"
	"gitlab.com/tozd/go/errors"
)

// OllamaClient calls a local Ollama server with its generate endpoint.
type OllamaClient struct {
	client *ollama.Ollama
	model  string
}

// NewOllamaClient builds a client for the server at host.
func NewOllamaClient(host, model string) (*OllamaClient, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, errors.Errorf("parsing ollama host: %w", err)
	}
	return &OllamaClient{client: ollama.New(*u), model: model}, nil
}

func (o *OllamaClient) Name() string { return "ollama:" + o.model }

// Complete is not cancellable: the generate call has no context parameter.
func (o *OllamaClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, err := o.client.Generate(
		o.client.Generate.WithModel(o.model),
		o.client.Generate.WithSystem(system),
		o.client.Generate.WithPrompt(prompt),
	)
	if err != nil {
		return "", errors.Errorf("calling ollama generate: %w", err)
	}
	if !res.Done {
		return "", errors.New("ollama response not finished")
	}
	text := strings.TrimSpace(strings.Trim(res.Response, "`"))
	if text == "" {
		return "", errors.WithDetails(ErrEmptyResponse, "client", o.Name())
	}
	return text, nil
}
