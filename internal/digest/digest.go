package digest

import (
	"fmt"
	"time"

	"github.com/lingua-hq/lingua-digest/internal/feed"
	"github.com/lingua-hq/lingua-digest/internal/segment"
)

// Post is one translated entry of a digest. Translated always mirrors
// Segments positionally: same length, same kind sequence, with non-text kinds
// passed through verbatim. Untranslated marks posts whose translation failed
// after retries; they keep their original-language segments.
type Post struct {
	Original     feed.RawPost      `json:"original"`
	Segments     []segment.Segment `json:"segments"`
	Translated   []segment.Segment `json:"translated_segments"`
	Summary      string            `json:"summary"`
	Untranslated bool              `json:"untranslated,omitempty"`
}

// OriginalBody reassembles the original post body.
func (p Post) OriginalBody() string {
	return segment.Join(p.Segments)
}

// TranslatedBody reassembles the translated post body in original segment order.
func (p Post) TranslatedBody() string {
	return segment.Join(p.Translated)
}

// Digest is the terminal artifact of one run, handed to the renderer and the
// publishers.
type Digest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Posts       []Post    `json:"posts"`
	WindowHours int       `json:"window_hours"`
	Truncated   bool      `json:"truncated"`
}

// Empty reports whether no posts survived filtering. An empty digest is
// valid; whether to deliver it is the publishers' caller's choice.
func (d Digest) Empty() bool {
	return len(d.Posts) == 0
}

// Report collects the per-item failures of a run. Nothing in here was thrown;
// the digest and the report travel together.
type Report struct {
	FetchFailures       []feed.Outcome `json:"fetch_failures,omitempty"`
	TranslationFailures []string       `json:"translation_failures,omitempty"`
	Truncated           bool           `json:"truncated"`
}

// FailureLogLines serializes fetch failures as locator<TAB>reason lines.
// The caller decides whether and where to write them.
func (r Report) FailureLogLines() []string {
	var lines []string
	for _, o := range r.FetchFailures {
		lines = append(lines, fmt.Sprintf("%s\t%s", o.Source.Locator, o.Reason))
	}
	return lines
}
