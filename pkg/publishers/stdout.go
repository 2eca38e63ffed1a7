package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdoutPublisher writes the digest to standard output, either as the
// rendered HTML page or as a JSON event.
type StdoutPublisher struct {
	id     string
	format string
	out    io.Writer
}

// NewStdoutPublisher creates a stdout publisher from config.
func NewStdoutPublisher(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
	format := "html"
	if cfg.Stdout != nil && cfg.Stdout.Format != "" {
		format = strings.ToLower(strings.TrimSpace(cfg.Stdout.Format))
	}
	if format != "html" && format != "json" {
		return nil, fmt.Errorf("publisher %q stdout format must be html or json, got %q", cfg.ID, format)
	}

	return &StdoutPublisher{id: cfg.ID, format: format, out: os.Stdout}, nil
}

func (p *StdoutPublisher) ID() string   { return p.id }
func (p *StdoutPublisher) Type() string { return TypeStdout }

func (p *StdoutPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.format == "json" {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(evt)
	}

	_, err := fmt.Fprintln(p.out, evt.HTML)
	return err
}
