package pipeline

import "github.com/lingua-hq/lingua-digest/internal/feed"

// Limit caps the post count, per-source first and then globally, keeping the
// first N in arrival order. A non-positive cap means unlimited. The second
// return reports whether anything was dropped; it feeds the digest's
// truncated flag.
func Limit(posts []feed.RawPost, maxTotal, maxPerSource int) ([]feed.RawPost, bool) {
	dropped := false

	if maxPerSource > 0 {
		kept := make([]feed.RawPost, 0, len(posts))
		perSource := make(map[string]int)
		for _, p := range posts {
			if perSource[p.Source.Locator] >= maxPerSource {
				dropped = true
				continue
			}
			perSource[p.Source.Locator]++
			kept = append(kept, p)
		}
		posts = kept
	}

	if maxTotal > 0 && len(posts) > maxTotal {
		posts = posts[:maxTotal]
		dropped = true
	}

	return posts, dropped
}
