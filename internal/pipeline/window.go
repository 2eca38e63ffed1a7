package pipeline

import (
	"time"

	"github.com/lingua-hq/lingua-digest/internal/feed"
)

// Window returns the subsequence of posts published within [now-lookback, now],
// bounds inclusive. Posts without a publish date are retained by default:
// "unknown, assume recent" is a deliberate policy choice, not an accident, and
// dropUndated flips it for callers that want strict windows. Pure and
// deterministic given the same now.
func Window(posts []feed.RawPost, now time.Time, lookback time.Duration, dropUndated bool) []feed.RawPost {
	cutoff := now.Add(-lookback)

	var out []feed.RawPost
	for _, p := range posts {
		if p.PublishedAt.IsZero() {
			if !dropUndated {
				out = append(out, p)
			}
			continue
		}
		if p.PublishedAt.Before(cutoff) || p.PublishedAt.After(now) {
			continue
		}
		out = append(out, p)
	}
	return out
}
