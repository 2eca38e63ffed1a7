package publishers

import (
	"time"

	"github.com/lingua-hq/lingua-digest/internal/digest"
)

// Event is the payload published downstream: the rendered document plus the
// structured digest for sinks that want the data rather than the page.
type Event struct {
	Subject     string        `json:"subject"`
	HTML        string        `json:"html"`
	GeneratedAt time.Time     `json:"generated_at"`
	PostCount   int           `json:"post_count"`
	Truncated   bool          `json:"truncated"`
	Digest      digest.Digest `json:"digest"`
}

// NewEvent constructs an Event for the given digest and its rendering.
func NewEvent(subject, html string, d digest.Digest) Event {
	return Event{
		Subject:     subject,
		HTML:        html,
		GeneratedAt: d.GeneratedAt,
		PostCount:   len(d.Posts),
		Truncated:   d.Truncated,
		Digest:      d,
	}
}
