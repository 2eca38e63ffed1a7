package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lingua-hq/lingua-digest/internal/catalog"
	"github.com/lingua-hq/lingua-digest/internal/config"
	"github.com/lingua-hq/lingua-digest/internal/digest"
	"github.com/lingua-hq/lingua-digest/internal/feed"
	"github.com/lingua-hq/lingua-digest/internal/logger"
	"github.com/lingua-hq/lingua-digest/internal/pipeline"
	"github.com/lingua-hq/lingua-digest/internal/segment"
	"github.com/lingua-hq/lingua-digest/internal/translate"
	"github.com/lingua-hq/lingua-digest/pkg/publishers"
)

// Runtime represents the digest runtime. It coordinates feed fetching, the
// filtering pipeline, translation, assembly, and delivery through the
// publisher fanout.
type Runtime struct {
	cfg        *config.Config
	sources    []catalog.Source
	fetcher    *feed.Fetcher
	translator *translate.Translator
	fanout     *publishers.Fanout
	log        logger.Logger

	now func() time.Time
}

// New builds a digest runtime from config files. An empty catalog is a
// configuration error and is rejected before any network activity.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sources, err := catalog.Load(cfg.CatalogFile, cfg.OverrideFeeds())
	if err != nil {
		return nil, fmt.Errorf("load feed catalog: %w", err)
	}
	log.InfoObj("feed catalog loaded", "catalog_meta", map[string]any{
		"count": len(sources),
		"file":  cfg.CatalogFile,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	translator := translate.New(translate.Options{
		Endpoint:      cfg.LLMEndpoint,
		Model:         cfg.LLMModel,
		APIKey:        cfg.LLMAPIKey,
		Language:      cfg.TargetLanguage,
		SummaryBudget: cfg.SummaryMaxChars,
		Timeout:       cfg.TranslateTimeout,
		Concurrency:   cfg.TranslateConcurrency,
		MaxRetries:    cfg.TranslateRetries,
		Log:           log,
	})

	return &Runtime{
		cfg:        cfg,
		sources:    sources,
		fetcher:    feed.NewFetcher(cfg.FetchTimeout, cfg.FetchConcurrency, log),
		translator: translator,
		fanout:     fanout,
		log:        log,
		now:        time.Now,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		log.WarnObj("no publishers file configured; digests go to stdout", "publishers_file", "")
		stdout, err := publishers.NewStdoutPublisher(ctx, publishers.PublisherConfig{
			ID:   "stdout",
			Type: publishers.TypeStdout,
		}, log)
		if err != nil {
			return nil, err
		}
		return publishers.NewFanout([]publishers.Publisher{stdout}, log), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers enabled")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	return publishers.NewFanout(pubClients, log), nil
}

// Run executes the digest once, or on a cron schedule when one is configured.
func (r *Runtime) Run(ctx context.Context) error {
	if r == nil || r.fetcher == nil {
		return fmt.Errorf("runtime is not initialized")
	}

	if r.cfg.Schedule == "" {
		_, err := r.RunOnce(ctx)
		return err
	}

	c := cron.New()
	_, err := c.AddFunc(r.cfg.Schedule, func() {
		if _, err := r.RunOnce(ctx); err != nil {
			r.log.ErrorObj("scheduled digest run failed", "error", err.Error())
		}
	})
	if err != nil {
		return fmt.Errorf("register schedule %q: %w", r.cfg.Schedule, err)
	}

	r.log.InfoObj("digest scheduler starting", "schedule", r.cfg.Schedule)
	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		r.log.WarnObj("scheduler stop timed out", "schedule", r.cfg.Schedule)
	}
	return nil
}

// RunOnce performs a single digest run: fetch, filter, translate, assemble,
// and publish. It returns the run report alongside any delivery error.
func (r *Runtime) RunOnce(ctx context.Context) (digest.Report, error) {
	start := r.now()
	r.log.InfoObj("digest run started", "run_meta", map[string]any{
		"sources_count": len(r.sources),
		"started_at":    start.UTC(),
	})

	posts, outcomes := r.fetcher.FetchAll(ctx, r.sources)
	if err := ctx.Err(); err != nil {
		return digest.Report{}, err
	}

	posts = pipeline.Window(posts, start, time.Duration(r.cfg.WindowHours)*time.Hour, r.cfg.DropUndated)
	posts = pipeline.Deduplicate(posts)
	posts, truncated := pipeline.Limit(posts, r.cfg.MaxPosts, r.cfg.MaxPostsPerFeed)

	segs := make([][]segment.Segment, len(posts))
	for i := range posts {
		segs[i] = segment.Split(posts[i].Body)
	}

	results := r.translator.TranslateAll(ctx, segs)
	if err := ctx.Err(); err != nil {
		return digest.Report{}, err
	}

	d, report := digest.Assemble(start, r.cfg.WindowHours, posts, segs, results, outcomes, truncated)

	r.log.InfoObj("digest assembled", "run_meta", map[string]any{
		"posts":                len(d.Posts),
		"fetch_failures":       len(report.FetchFailures),
		"translation_failures": len(report.TranslationFailures),
		"truncated":            d.Truncated,
		"elapsed_ms":           time.Since(start).Milliseconds(),
	})

	if err := r.writeFailureLog(report); err != nil {
		r.log.WarnObj("failure log write failed", "error", err.Error())
	}

	if d.Empty() && !r.cfg.SendEmpty {
		r.log.InfoObj("empty digest; delivery suppressed", "send_empty", false)
		return report, nil
	}

	html, err := digest.Render(d, r.cfg.TargetLanguage)
	if err != nil {
		return report, fmt.Errorf("render digest: %w", err)
	}
	subject := digest.Subject(r.cfg.SubjectPrefix, start)

	if err := r.fanout.Publish(ctx, publishers.NewEvent(subject, html, d)); err != nil {
		return report, fmt.Errorf("publish digest: %w", err)
	}
	return report, nil
}

// writeFailureLog appends per-source failure lines to the configured file.
func (r *Runtime) writeFailureLog(report digest.Report) error {
	if r.cfg.FailureLog == "" {
		return nil
	}
	lines := report.FailureLogLines()
	if len(lines) == 0 {
		return nil
	}

	if dir := filepath.Dir(r.cfg.FailureLog); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(r.cfg.FailureLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return err
		}
	}
	return nil
}
