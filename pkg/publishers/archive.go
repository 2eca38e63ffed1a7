package publishers

import (
	"context"
	"fmt"

	"github.com/lingua-hq/lingua-digest/internal/archive"
)

// ArchivePublisher stores rendered digests in a local key-value archive.
// The archive is append-only from the pipeline's point of view.
type ArchivePublisher struct {
	id  string
	db  *archive.Archive
	log Logger
}

// NewArchivePublisher creates an archive publisher from config.
func NewArchivePublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Archive == nil {
		return nil, fmt.Errorf("publisher %q missing archive configuration", cfg.ID)
	}

	db, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return nil, fmt.Errorf("open archive at %s: %w", cfg.Archive.Path, err)
	}

	return &ArchivePublisher{id: cfg.ID, db: db, log: ensureLogger(log)}, nil
}

func (a *ArchivePublisher) ID() string   { return a.id }
func (a *ArchivePublisher) Type() string { return TypeArchive }

// Publish writes the rendered digest keyed by its generation time.
func (a *ArchivePublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := archive.Key(evt.GeneratedAt)
	if err := a.db.Put(key, []byte(evt.HTML)); err != nil {
		return fmt.Errorf("archive digest %s: %w", key, err)
	}

	a.log.DebugObj("digest archived", "key", key)
	return nil
}

// Close releases the underlying archive handle.
func (a *ArchivePublisher) Close() error { return a.db.Close() }
