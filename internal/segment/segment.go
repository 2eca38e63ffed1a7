package segment

import (
	"fmt"
	"strings"

	"github.com/lingua-hq/lingua-digest/internal/logger"
)

// Kind classifies a span of a post body.
type Kind int

const (
	Text Kind = iota
	Code
	Math
	Link
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Code:
		return "code"
	case Math:
		return "math"
	case Link:
		return "link"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText makes segment kinds readable in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(data []byte) error {
	switch string(data) {
	case "text":
		*k = Text
	case "code":
		*k = Code
	case "math":
		*k = Math
	case "link":
		*k = Link
	default:
		return fmt.Errorf("unknown segment kind %q", data)
	}
	return nil
}

// Segment is a typed slice of a post body. Raw is the exact source substring,
// delimiters included, so concatenating a post's segments in order
// reconstructs the body byte for byte.
type Segment struct {
	Kind Kind   `json:"kind"`
	Raw  string `json:"raw"`
}

// Translatable reports whether the segment is prose that may be sent to the
// translation model. Code, math, and links always pass through verbatim.
func (s Segment) Translatable() bool {
	return s.Kind == Text
}

// rule is one entry in the delimiter table. Rules are tried in order at each
// scan position; the first whose opener matches claims the span, which is how
// code and math take precedence over links and text that would overlap them.
type rule struct {
	kind  Kind
	open  string
	close string
	// tag restricts the opener to an HTML tag boundary ("<pre" must not
	// claim "<present>").
	tag bool
	// inline forbids newlines inside the span and whitespace hugging the
	// delimiters. Keeps "$5 and $10" prose from scanning as math.
	inline bool
}

var rules = []rule{
	{kind: Code, open: "```", close: "```"},
	{kind: Code, open: "<pre", close: "</pre>", tag: true},
	{kind: Code, open: "<code", close: "</code>", tag: true},
	{kind: Code, open: "`", close: "`"},
	{kind: Math, open: "$$", close: "$$"},
	{kind: Math, open: `\[`, close: `\]`},
	{kind: Math, open: `\(`, close: `\)`},
	{kind: Math, open: "$", close: "$", inline: true},
	{kind: Link, open: "<a", close: "</a>", tag: true},
}

// Split partitions body into an ordered sequence of segments. The partition
// is total and lossless: every byte of body lands in exactly one segment, in
// order. Unterminated code/math delimiters degrade to plain text with a soft
// warning. An empty body yields an empty (nil) sequence.
func Split(body string) []Segment {
	if body == "" {
		return nil
	}

	var segs []Segment
	textStart := 0
	i := 0

	emit := func(kind Kind, end int) {
		if i > textStart {
			segs = append(segs, Segment{Kind: Text, Raw: body[textStart:i]})
		}
		segs = append(segs, Segment{Kind: kind, Raw: body[i:end]})
		textStart = end
		i = end
	}

scan:
	for i < len(body) {
		for _, r := range rules {
			if !openerAt(body, i, r) {
				continue
			}
			end := closerAfter(body, i, r)
			if end < 0 {
				logger.DebugObj("unterminated delimiter treated as text", "segment_degrade", map[string]any{
					"kind":      r.kind.String(),
					"delimiter": r.open,
				})
				// Consume the opener as text so lower-priority rules
				// cannot mis-slice it.
				i += len(r.open)
				continue scan
			}
			emit(r.kind, end)
			continue scan
		}

		if body[i] == '[' {
			if end := markdownLinkEnd(body, i); end > 0 {
				emit(Link, end)
				continue scan
			}
		}

		i++
	}

	if textStart < len(body) {
		segs = append(segs, Segment{Kind: Text, Raw: body[textStart:]})
	}
	return segs
}

// Join reassembles segments back into the body they were split from.
func Join(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		sb.WriteString(s.Raw)
	}
	return sb.String()
}

func openerAt(body string, i int, r rule) bool {
	if !strings.HasPrefix(body[i:], r.open) {
		return false
	}
	if r.tag {
		rest := body[i+len(r.open):]
		if rest == "" {
			return false
		}
		c := rest[0]
		if c != '>' && c != ' ' && c != '\t' && c != '\n' {
			return false
		}
	}
	return true
}

// closerAfter returns the index one past the closing delimiter, or -1 when
// the span never terminates or violates the rule's inline constraints.
func closerAfter(body string, i int, r rule) int {
	from := i + len(r.open)
	rel := strings.Index(body[from:], r.close)
	if rel < 0 {
		return -1
	}
	inner := body[from : from+rel]
	if r.inline {
		if inner == "" || strings.ContainsRune(inner, '\n') {
			return -1
		}
		if strings.TrimSpace(inner) != inner {
			return -1
		}
	}
	return from + rel + len(r.close)
}

// markdownLinkEnd matches [text](target) starting at i, returning the index
// one past the closing parenthesis, or -1. Anything malformed is left to the
// text run; a lone bracket is ordinary prose, not a warning.
func markdownLinkEnd(body string, i int) int {
	closeBracket := strings.Index(body[i:], "](")
	if closeBracket < 0 {
		return -1
	}
	label := body[i+1 : i+closeBracket]
	if strings.ContainsAny(label, "[\n") {
		return -1
	}
	parenFrom := i + closeBracket + 2
	closeParen := strings.Index(body[parenFrom:], ")")
	if closeParen < 0 {
		return -1
	}
	target := body[parenFrom : parenFrom+closeParen]
	if strings.ContainsAny(target, " \n") {
		return -1
	}
	return parenFrom + closeParen + 1
}
