package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPPublisher posts the digest event as JSON to an arbitrary endpoint.
type HTTPPublisher struct {
	id     string
	cfg    HTTPPublisherConfig
	client *resty.Client
	log    Logger
}

// NewHTTPPublisher creates an HTTP webhook publisher from config.
func NewHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &HTTPPublisher{
		id:     cfg.ID,
		cfg:    *cfg.HTTP,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (p *HTTPPublisher) ID() string   { return p.id }
func (p *HTTPPublisher) Type() string { return TypeHTTP }

func (p *HTTPPublisher) Publish(ctx context.Context, evt Event) error {
	req := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(evt)
	for k, v := range p.cfg.Headers {
		req.SetHeader(k, v)
	}

	resp, err := req.Execute(p.cfg.Method, p.cfg.URL)
	if err != nil {
		return fmt.Errorf("post digest to %s: %w", p.cfg.URL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("post digest to %s: status %d", p.cfg.URL, resp.StatusCode())
	}

	p.log.DebugObj("webhook delivered", "status", resp.StatusCode())
	return nil
}
