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
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🤖 Client is one text-completion backend.
type Client interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Middleware decorates a Client.
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order: Wrap(c, A, B) is A(B(c)).
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// 🔁 Retry calls the next client up to attempts times, sleeping a fixed
// delay between failures. The last error is returned.
func Retry(attempts int, delay time.Duration) Middleware {
	if attempts < 1 {
		attempts = 1
	}
	return func(next Client) Client {
		return &retrying{next: next, attempts: attempts, delay: delay}
	}
}

type retrying struct {
	next     Client
	attempts int
	delay    time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }

func (r *retrying) Complete(ctx context.Context, system, prompt string) (string, error) {
	var last error
	for i := 0; i < r.attempts; i++ {
		resp, err := r.next.Complete(ctx, system, prompt)
		if err == nil {
			return resp, nil
		}
		last = err
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("client", r.next.Name()).
			Int("attempt", i+1).
			Int("max_attempts", r.attempts).
			Msg("summarization request failed")

		if i == r.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", errors.Errorf("waiting to retry: %w", ctx.Err())
		case <-time.After(r.delay):
		}
	}
	zerolog.Ctx(ctx).Error().Str("client", r.next.Name()).Msg("all summarization attempts failed")
	return "", last
}

// 🗃️ Cache memoizes successful completions in an LRU keyed by the
// system instruction and prompt.
func Cache(size int) Middleware {
	return func(next Client) Client {
		c, err := lru.New[string, string](size)
		if err != nil {
			// size <= 0: run uncached
			return next
		}
		return &caching{next: next, lru: c}
	}
}

type caching struct {
	next Client
	lru  *lru.Cache[string, string]
}

func (c *caching) Name() string { return c.next.Name() }

func (c *caching) Complete(ctx context.Context, system, prompt string) (string, error) {
	key := cacheKey(system, prompt)
	if v, ok := c.lru.Get(key); ok {
		zerolog.Ctx(ctx).Debug().Str("client", c.next.Name()).Msg("summarization cache hit")
		return v, nil
	}
	resp, err := c.next.Complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	c.lru.Add(key, resp)
	return resp, nil
}

func cacheKey(system, prompt string) string {
	h := sha256.New()
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}
