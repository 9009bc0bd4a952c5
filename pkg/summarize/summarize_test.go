package summarize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/config"
	"github.com/walteh/narrate/pkg/extract"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Name() string { return "mock" }

func (m *MockClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestSummarize(t *testing.T) {
	ctx := testContext(t)

	t.Run("no_client", func(t *testing.T) {
		s := New(nil)
		assert.False(t, s.Available())
		assert.Equal(t, Unavailable, s.Summarize(ctx, "anything"))
	})

	t.Run("success", func(t *testing.T) {
		m := &MockClient{}
		m.On("Complete", mock.Anything, SystemInstruction, "prompt").Return("answer", nil).Once()
		assert.Equal(t, "answer", New(m).Summarize(ctx, "prompt"))
		m.AssertExpectations(t)
	})

	t.Run("failure_placeholder", func(t *testing.T) {
		m := &MockClient{}
		m.On("Complete", mock.Anything, SystemInstruction, "prompt").Return("", errors.New("quota exceeded")).Once()
		assert.Equal(t, "Error querying summarization service: quota exceeded", New(m).Summarize(ctx, "prompt"))
	})
}

func TestRetry(t *testing.T) {
	ctx := testContext(t)

	t.Run("succeeds_after_failures", func(t *testing.T) {
		m := &MockClient{}
		m.On("Complete", mock.Anything, "sys", "p").Return("", errors.New("boom")).Twice()
		m.On("Complete", mock.Anything, "sys", "p").Return("ok", nil).Once()

		c := Wrap(m, Retry(3, time.Millisecond))
		got, err := c.Complete(ctx, "sys", "p")
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		m.AssertNumberOfCalls(t, "Complete", 3)
	})

	t.Run("exhausted", func(t *testing.T) {
		m := &MockClient{}
		m.On("Complete", mock.Anything, "sys", "p").Return("", errors.New("down"))

		c := Wrap(m, Retry(3, time.Millisecond))
		_, err := c.Complete(ctx, "sys", "p")
		require.Error(t, err)
		assert.Equal(t, "down", err.Error())
		m.AssertNumberOfCalls(t, "Complete", 3)
	})

	t.Run("cancelled_while_waiting", func(t *testing.T) {
		m := &MockClient{}
		m.On("Complete", mock.Anything, "sys", "p").Return("", errors.New("down"))

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		c := Wrap(m, Retry(3, time.Hour))
		_, err := c.Complete(cctx, "sys", "p")
		require.ErrorIs(t, err, context.Canceled)
		m.AssertNumberOfCalls(t, "Complete", 1)
	})
}

func TestCache(t *testing.T) {
	ctx := testContext(t)

	m := &MockClient{}
	m.On("Complete", mock.Anything, "sys", "a").Return("A", nil).Once()
	m.On("Complete", mock.Anything, "sys", "b").Return("", errors.New("fail")).Once()
	m.On("Complete", mock.Anything, "sys", "b").Return("B", nil).Once()

	c := Wrap(m, Cache(8))
	assert.Equal(t, "mock", c.Name())

	for i := 0; i < 3; i++ {
		got, err := c.Complete(ctx, "sys", "a")
		require.NoError(t, err)
		assert.Equal(t, "A", got)
	}

	_, err := c.Complete(ctx, "sys", "b")
	require.Error(t, err, "errors are not cached")
	got, err := c.Complete(ctx, "sys", "b")
	require.NoError(t, err)
	assert.Equal(t, "B", got)

	m.AssertExpectations(t)
	assert.NotEqual(t, cacheKey("ab", "c"), cacheKey("a", "bc"), "key should separate system and prompt")
}

func TestLoadAPIKey(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0600))
		return p
	}

	tests := []struct {
		name    string
		envFile string
		env     string
		want    string
	}{
		{"dotenv_line", write("a.env", "GEMINI_API_KEY=abc123\n"), "", "abc123"},
		{"quoted", write("b.env", `GEMINI_API_KEY="quoted-key"`), "", "quoted-key"},
		{"bare_key", write("c.env", "  AIza-bare_key  \n"), "", "AIza-bare_key"},
		{"other_var_falls_back", write("d.env", "OTHER=1\n"), "from-env", "from-env"},
		{"missing_file", filepath.Join(dir, "missing.env"), "from-env", "from-env"},
		{"nothing", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", tt.env)
			assert.Equal(t, tt.want, LoadAPIKey(tt.envFile, "GEMINI_API_KEY"))
		})
	}
}

func TestNewClient(t *testing.T) {
	ctx := testContext(t)
	t.Setenv("GEMINI_API_KEY", "")

	cfg := config.Default(t.TempDir())
	cfg.Summarizer.Provider = config.ProviderNone
	c, err := NewClient(ctx, cfg.Summarizer, cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Nil(t, c, "none provider yields no client")

	cfg.Summarizer.Provider = config.ProviderGemini
	c, err = NewClient(ctx, cfg.Summarizer, cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Nil(t, c, "missing key yields no client")

	cfg.Summarizer.Provider = config.ProviderOllama
	cfg.Summarizer.Model = "llama3"
	c, err = NewClient(ctx, cfg.Summarizer, cfg.ProjectRoot)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "ollama:llama3", c.Name())
}

func TestPrompts(t *testing.T) {
	code := strings.Repeat("x", CodeExcerptChars+100)
	p := CodePrompt("Python", code)
	assert.Contains(t, p, "Analyze this Python code")
	assert.NotContains(t, p, strings.Repeat("x", CodeExcerptChars+1), "code should be truncated")

	p = NotebookPrompt("", extract.NotebookInfo{Imports: []string{"pandas"}}, []extract.Heading{{Level: 1, Text: "Intro"}, {Level: 2, Text: "Data"}}, "md", "code")
	assert.Contains(t, p, "seems to be data analysis")
	assert.Contains(t, p, "Key libraries used: pandas")
	assert.Contains(t, p, "Intro, Data")

	assert.Contains(t, CSVPrompt("x.csv", []string{"a", "b"}), "columns: a, b.")
	assert.Contains(t, WorkbookPrompt("w.xlsx", []string{"S1", "S2"}), "sheets: S1, S2.")
	assert.Contains(t, ImagePrompt("plot.png"), `"plot.png"`)
	assert.Contains(t, DocumentPrompt("d.docx", []string{"1", "2", "3", "4", "5", "6"}, "body"), "Headings: 1, 2, 3, 4, 5\n")
	assert.Contains(t, MarkdownPrompt("r.md", "# hi"), "# hi")
	assert.Contains(t, ExecutiveSummaryPrompt("File: a.py"), "File: a.py")
	assert.Contains(t, OverviewPrompt("File: a.py"), "250-300 words")

	c := ConclusionPrompt(nil, nil)
	assert.Contains(t, c, "unknown specific focus")
	assert.Contains(t, c, "No specific domain terms")
	c = ConclusionPrompt([]string{"clustering"}, []string{"churn"})
	assert.Contains(t, c, "involve clustering.")
	assert.Contains(t, c, "include: churn.")

	r := RecommendationsPrompt(nil, []string{"a", "b", "c", "d", "e", "f"})
	assert.Contains(t, r, "involving data analysis")
	assert.Contains(t, r, "terms like a, b, c, d, e,")
}
