package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Fanout publishes an event to every configured publisher. A failure in one
// sink does not prevent delivery to the others.
type Fanout struct {
	publishers []Publisher
	log        Logger
}

// NewFanout creates a fanout over the given publishers.
func NewFanout(pubs []Publisher, log Logger) *Fanout {
	return &Fanout{publishers: pubs, log: ensureLogger(log)}
}

// Len reports the number of publishers in the fanout.
func (f *Fanout) Len() int { return len(f.publishers) }

// Publish delivers evt to all publishers and joins any per-sink errors.
func (f *Fanout) Publish(ctx context.Context, evt Event) error {
	var errs []error
	succeeded := 0

	for _, pub := range f.publishers {
		if err := pub.Publish(ctx, evt); err != nil {
			f.log.ErrorObj("publish failed", pub.ID(), err.Error())
			errs = append(errs, fmt.Errorf("%s: %w", pub.ID(), err))
			continue
		}
		succeeded++
	}

	f.log.InfoObj("digest published", "delivered", succeeded)
	return errors.Join(errs...)
}
