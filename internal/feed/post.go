package feed

import (
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/lingua-hq/lingua-digest/internal/catalog"
)

// RawPost is one normalized feed entry. Never mutated after creation.
type RawPost struct {
	Source      catalog.Source `json:"source"`
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Link        string         `json:"link"`
	PublishedAt time.Time      `json:"published_at"` // zero when the feed carried no date
	Body        string         `json:"body"`         // normalized body, see normalize.go
}

// Outcome records the per-source fetch result. Failures are data, not errors:
// one broken feed must never abort the others.
type Outcome struct {
	Source catalog.Source `json:"source"`
	OK     bool           `json:"ok"`
	Count  int            `json:"count"`
	Reason string         `json:"reason,omitempty"`
}

func okOutcome(src catalog.Source, count int) Outcome {
	return Outcome{Source: src, OK: true, Count: count}
}

func failedOutcome(src catalog.Source, reason string) Outcome {
	return Outcome{Source: src, Reason: reason}
}

// synthesizeID derives a stable entry id when the feed omits a guid.
func synthesizeID(locator, title, link string) string {
	h := sha1.New()
	h.Write([]byte(locator))
	h.Write([]byte{0})
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(link))
	return hex.EncodeToString(h.Sum(nil))
}
