package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lingua-hq/lingua-digest/internal/logger"
	"github.com/lingua-hq/lingua-digest/internal/retry"
	"github.com/lingua-hq/lingua-digest/internal/segment"
	"github.com/lingua-hq/lingua-digest/pkg/httpclient"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Translator sends the prose spans of each post to an OpenAI-compatible chat
// completions API. Code, math, and link spans never reach the model; the
// prompt restates that protection anyway since free text can still resemble
// markup.
type Translator struct {
	client        httpclient.Client
	endpoint      string
	model         string
	apiKey        string
	language      string
	summaryBudget int
	timeout       time.Duration
	concurrency   int
	retryCfg      retry.Config
	log           logger.Logger
}

// Options configures a Translator.
type Options struct {
	Endpoint      string
	Model         string
	APIKey        string
	Language      string
	SummaryBudget int
	Timeout       time.Duration
	Concurrency   int
	MaxRetries    int
	Client        httpclient.Client
	Log           logger.Logger
}

// New builds a Translator. Zero-valued options fall back to safe defaults.
func New(opts Options) *Translator {
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Client == nil {
		opts.Client = httpclient.NewRestyClient(opts.Timeout)
	}
	if opts.Log == nil {
		opts.Log = logger.NopLogger{}
	}
	retryCfg := retry.DefaultConfig()
	if opts.MaxRetries >= 0 {
		retryCfg.MaxRetries = opts.MaxRetries
	}
	return &Translator{
		client:        opts.Client,
		endpoint:      opts.Endpoint,
		model:         opts.Model,
		apiKey:        opts.APIKey,
		language:      opts.Language,
		summaryBudget: opts.SummaryBudget,
		timeout:       opts.Timeout,
		concurrency:   opts.Concurrency,
		retryCfg:      retryCfg,
		log:           opts.Log,
	}
}

// Result is the translation of one post. Segments is always the same length
// and kind sequence as the input; when Untranslated is set the segments are
// the originals, kept rather than dropped. Skipped marks posts abandoned by
// cancellation; they must not appear in the digest at all.
type Result struct {
	Segments     []segment.Segment
	Summary      string
	Untranslated bool
	Skipped      bool
}

// TranslateAll translates posts under the configured concurrency ceiling.
// Results are re-associated to their posts by index, never by completion
// order.
func (t *Translator) TranslateAll(ctx context.Context, posts [][]segment.Segment) []Result {
	results := make([]Result, len(posts))
	jobs := make(chan int, len(posts))

	workers := t.concurrency
	if len(posts) < workers {
		workers = len(posts)
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = t.translatePost(ctx, posts[i])
			}
		}()
	}

	for i := range posts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (t *Translator) translatePost(ctx context.Context, segs []segment.Segment) Result {
	out := make([]segment.Segment, len(segs))
	copy(out, segs)

	var prose strings.Builder
	for _, s := range segs {
		if s.Translatable() {
			prose.WriteString(s.Raw)
		}
	}

	for i, s := range segs {
		if !s.Translatable() || strings.TrimSpace(s.Raw) == "" {
			continue
		}
		translated, err := t.completeWithRetry(ctx, t.translateInstruction(), s.Raw)
		if err != nil {
			return t.fallback(ctx, segs, err)
		}
		out[i] = segment.Segment{Kind: segment.Text, Raw: translated}
	}

	summary := ""
	if strings.TrimSpace(prose.String()) != "" {
		raw, err := t.completeWithRetry(ctx, t.summaryInstruction(), prose.String())
		if err != nil {
			return t.fallback(ctx, segs, err)
		}
		summary = TruncateRunes(raw, t.summaryBudget)
	}

	return Result{Segments: out, Summary: summary}
}

// fallback keeps the post untranslated after exhausted retries, or marks it
// skipped when the run itself was cancelled.
func (t *Translator) fallback(ctx context.Context, segs []segment.Segment, err error) Result {
	if ctx.Err() != nil {
		return Result{Skipped: true}
	}
	t.log.WarnObj("translation failed, keeping original text", "translate_error", map[string]any{
		"error": err.Error(),
	})
	original := make([]segment.Segment, len(segs))
	copy(original, segs)
	return Result{Segments: original, Untranslated: true}
}

func (t *Translator) translateInstruction() string {
	return fmt.Sprintf("Translate the following content into %s. "+
		"Preserve the technical meaning exactly and do not add commentary or opinions of your own. "+
		"Do not alter math notation, LaTeX, URLs, Markdown, or code; reproduce them exactly as written. "+
		"Return only the translated text and keep the paragraph structure.", t.language)
}

func (t *Translator) summaryInstruction() string {
	return fmt.Sprintf("Summarize the following post in %s in at most %d characters. "+
		"Preserve the technical meaning and do not add commentary. "+
		"Do not alter math notation, LaTeX, URLs, Markdown, or code. "+
		"Return only the summary.", t.language, t.summaryBudget)
}

func (t *Translator) completeWithRetry(ctx context.Context, instruction, text string) (string, error) {
	var result string
	err := retry.WithBackoff(ctx, t.retryCfg, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()

		content, err := t.complete(callCtx, instruction, text)
		if err != nil {
			return err
		}
		result = content
		return nil
	})
	return result, err
}

func (t *Translator) complete(ctx context.Context, instruction, text string) (string, error) {
	reqBody := chatRequest{
		Model: t.model,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: text},
		},
	}

	headers := map[string]string{"Authorization": "Bearer " + t.apiKey}
	resp, err := t.client.PostJSON(ctx, t.endpoint, headers, reqBody)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("api returned status %d", resp.StatusCode())
	}

	var chatResp chatResponse
	if err := json.Unmarshal(resp.Body(), &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// TruncateRunes hard-cuts s to at most budget characters (runes, not bytes),
// appending an ellipsis when anything was cut. A non-positive budget disables
// truncation.
func TruncateRunes(s string, budget int) string {
	if budget <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget == 1 {
		return "…"
	}
	return string(runes[:budget-1]) + "…"
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
