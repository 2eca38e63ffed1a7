package publishers

import (
	"context"
	"fmt"
)

// Builder constructs a Publisher from its config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Registry maps publisher types to builders.
type Registry map[string]Builder

// DefaultRegistry returns the registry with all built-in publisher types.
func DefaultRegistry() Registry {
	return Registry{
		TypeSMTP:    NewSMTPPublisher,
		TypeStdout:  NewStdoutPublisher,
		TypeHTTP:    NewHTTPPublisher,
		TypeSQS:     NewSQSPublisher,
		TypeSNS:     NewSNSPublisher,
		TypePubSub:  NewPubSubPublisher,
		TypeArchive: NewArchivePublisher,
	}
}

// BuildAll instantiates publishers for every enabled config entry.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	log = ensureLogger(log)

	out := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		builder, ok := reg[cfg.Type]
		if !ok {
			return nil, fmt.Errorf("no builder registered for publisher type %q", cfg.Type)
		}
		pub, err := builder(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		log.InfoObj("publisher ready", "id", pub.ID())
		out = append(out, pub)
	}
	return out, nil
}
