package opts

import (
	"context"
	"io"
	"sync"

	"github.com/walteh/narrate/pkg/config"
	"github.com/walteh/narrate/pkg/log"
	"github.com/walteh/narrate/pkg/summarize"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config     *config.Config
	Console    *log.Logger
	UserLogger *UserLogger
	LogFile    io.Closer

	summarizerOnce sync.Once
	summarizer     *summarize.Summarizer
	summarizerErr  error
}

// Summarizer builds the configured summarization client on first use.
func (o *RootOpts) Summarizer(ctx context.Context) (*summarize.Summarizer, error) {
	o.summarizerOnce.Do(func() {
		client, err := summarize.NewClient(ctx, o.Config.Summarizer, o.Config.ProjectRoot)
		if err != nil {
			o.summarizerErr = err
			return
		}
		o.summarizer = summarize.New(client)
	})
	return o.summarizer, o.summarizerErr
}

// Close releases the log file.
func (o *RootOpts) Close() error {
	if o.LogFile == nil {
		return nil
	}
	return o.LogFile.Close()
}
