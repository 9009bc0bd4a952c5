package text

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// RegexpReplacer implements Replacer with compiled, cached RE2 patterns
type RegexpReplacer struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewRegexpReplacer creates a new RegexpReplacer
func NewRegexpReplacer() *RegexpReplacer {
	return &RegexpReplacer{cache: map[string]*regexp.Regexp{}}
}

// RuleName returns the rule's name, or its position when unnamed.
func RuleName(i int, r Rule) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("rule %d", i+1)
}

func (r *RegexpReplacer) compile(rule Rule) (*regexp.Regexp, error) {
	expr := rule.Pattern
	if rule.DotAll {
		expr = "(?s)" + expr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if re, ok := r.cache[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling %q: %w", rule.Pattern, err)
	}
	r.cache[expr] = re
	return re, nil
}

// Replace implements Replacer.Replace
func (r *RegexpReplacer) Replace(ctx context.Context, content io.Reader, rules []Rule) (*Result, error) {
	original, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &Result{
		OriginalContent: original,
		ModifiedContent: original,
		Counts:          make(map[string]int, len(rules)),
	}

	current := string(original)
	for i, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("applying rules: %w", err)
		}

		name := RuleName(i, rule)
		if rule.Pattern == "" {
			continue
		}
		if rule.Guard != "" && !strings.Contains(current, rule.Guard) {
			continue
		}

		re, err := r.compile(rule)
		if err != nil {
			return nil, errors.Errorf("rule %s: %w", name, err)
		}

		n := len(re.FindAllStringIndex(current, -1))
		if n == 0 {
			continue
		}

		var next string
		if rule.Literal {
			next = re.ReplaceAllLiteralString(current, rule.Replacement)
		} else {
			next = re.ReplaceAllString(current, rule.Replacement)
		}

		result.Counts[name] += n
		result.ReplacementCount += n
		if next != current {
			result.WasModified = true
		}
		current = next
	}

	result.ModifiedContent = []byte(current)
	return result, nil
}

// ValidateRules implements Replacer.ValidateRules
func (r *RegexpReplacer) ValidateRules(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for i, rule := range rules {
		if rule.Pattern == "" {
			return errors.Errorf("rule %d: pattern is required", i)
		}
		if _, err := r.compile(rule); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
		name := RuleName(i, rule)
		if seen[name] {
			return errors.Errorf("rule %d: duplicate name %q", i, name)
		}
		seen[name] = true
	}
	return nil
}
