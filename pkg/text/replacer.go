package text

import (
	"context"
	"io"
)

// Rule is one regular-expression rewrite.
type Rule struct {
	// Name identifies the rule in results; defaults to "rule N"
	Name string `yaml:"name" json:"name"`

	// Guard is a literal that must appear in the content for the rule to run
	Guard string `yaml:"guard,omitempty" json:"guard,omitempty"`

	// Pattern is an RE2 expression
	Pattern string `yaml:"pattern" json:"pattern"`

	// Replacement may reference groups as $1 or ${name} unless Literal is set
	Replacement string `yaml:"replacement" json:"replacement"`

	// DotAll lets '.' match newlines
	DotAll bool `yaml:"dotall,omitempty" json:"dotall,omitempty"`

	// Literal inserts Replacement without group expansion
	Literal bool `yaml:"literal,omitempty" json:"literal,omitempty"`

	// FileFilterGlob limits the rule to matching file names; empty matches all
	FileFilterGlob string `yaml:"files,omitempty" json:"files,omitempty"`
}

// Result contains the results of applying a rule set to some content
type Result struct {
	// WasModified indicates if the content changed
	WasModified bool

	// ReplacementCount is the number of matches replaced across all rules
	ReplacementCount int

	// Counts is the number of matches replaced per rule name
	Counts map[string]int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// Replacer applies rewrite rules to content.
type Replacer interface {
	// Replace applies rules in order, each to the output of the previous one
	Replace(ctx context.Context, content io.Reader, rules []Rule) (*Result, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []Rule) error
}
