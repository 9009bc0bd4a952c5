package status

import (
	"fmt"
	"path/filepath"
)

// Formatter defines how per-file outcomes and progress are rendered as text
type Formatter interface {
	// FormatFileEvent formats the outcome of narrating one file
	FormatFileEvent(path, kind string, status FileStatus) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatFileEvent formats a file outcome with emojis
func (f *DefaultFormatter) FormatFileEvent(path, kind string, status FileStatus) string {
	name := filepath.Base(path)
	if path == "" {
		name = ""
	}
	switch status {
	case StatusNarrated:
		return fmt.Sprintf("📝 Narrated %s (%s)", name, kind)
	case StatusListed:
		return fmt.Sprintf("📎 Listed %s (%s)", name, kind)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s (%s)", name, kind)
	default:
		return fmt.Sprintf("❔ Unknown %s (%s)", name, kind)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
