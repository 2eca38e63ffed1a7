package digest

import (
	"sort"
	"time"

	"github.com/lingua-hq/lingua-digest/internal/feed"
	"github.com/lingua-hq/lingua-digest/internal/segment"
	"github.com/lingua-hq/lingua-digest/internal/translate"
)

// Assemble zips each post with its segments and translation result into the
// final Digest, ordered newest first with catalog declaration order breaking
// ties. Skipped (cancelled) posts are excluded entirely rather than emitted
// half-translated. posts, segs, and results correspond by index.
func Assemble(
	now time.Time,
	windowHours int,
	posts []feed.RawPost,
	segs [][]segment.Segment,
	results []translate.Result,
	outcomes []feed.Outcome,
	truncated bool,
) (Digest, Report) {
	assembled := make([]Post, 0, len(posts))
	report := Report{Truncated: truncated}

	for _, o := range outcomes {
		if !o.OK {
			report.FetchFailures = append(report.FetchFailures, o)
		}
	}

	for i, raw := range posts {
		res := results[i]
		if res.Skipped {
			continue
		}
		if res.Untranslated {
			report.TranslationFailures = append(report.TranslationFailures, raw.Link)
		}
		assembled = append(assembled, Post{
			Original:     raw,
			Segments:     segs[i],
			Translated:   res.Segments,
			Summary:      res.Summary,
			Untranslated: res.Untranslated,
		})
	}

	sort.SliceStable(assembled, func(i, j int) bool {
		a, b := assembled[i].Original, assembled[j].Original
		// Undated posts count as "assume recent", consistent with the
		// window policy, so they sort alongside the newest.
		switch {
		case a.PublishedAt.IsZero() && b.PublishedAt.IsZero():
			return a.Source.Index < b.Source.Index
		case a.PublishedAt.IsZero():
			return true
		case b.PublishedAt.IsZero():
			return false
		case a.PublishedAt.Equal(b.PublishedAt):
			return a.Source.Index < b.Source.Index
		default:
			return a.PublishedAt.After(b.PublishedAt)
		}
	})

	return Digest{
		GeneratedAt: now,
		Posts:       assembled,
		WindowHours: windowHours,
		Truncated:   truncated,
	}, report
}
