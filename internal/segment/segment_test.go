package segment

import (
	"testing"
)

func kinds(segs []Segment) []Kind {
	out := make([]Kind, len(segs))
	for i, s := range segs {
		out[i] = s.Kind
	}
	return out
}

func TestSplitMixedBody(t *testing.T) {
	body := "See `x+y` and $\\int f$ here [link](http://a)"

	segs := Split(body)
	want := []struct {
		kind Kind
		raw  string
	}{
		{Text, "See "},
		{Code, "`x+y`"},
		{Text, " and "},
		{Math, "$\\int f$"},
		{Text, " here "},
		{Link, "[link](http://a)"},
	}

	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %#v", len(want), len(segs), segs)
	}
	for i, w := range want {
		if segs[i].Kind != w.kind || segs[i].Raw != w.raw {
			t.Fatalf("segment %d = {%v %q}, want {%v %q}", i, segs[i].Kind, segs[i].Raw, w.kind, w.raw)
		}
	}
}

func TestSplitLossless(t *testing.T) {
	bodies := []string{
		"plain prose with no markup at all",
		"fenced:\n```\ncode block\n```\ntail",
		"<p>html <code>inline</code> and <a href=\"x\">anchor</a></p>",
		"display math \\[ e^{i\\pi} = -1 \\] and inline \\(x\\)",
		"dollar math $a+b$ mixed with $5 and $10 prices",
		"unterminated `backtick and unterminated $dollar",
		"[md link](https://example.com) trailing",
		"double dollars $$\\sum_i x_i$$ done",
	}

	for _, body := range bodies {
		segs := Split(body)
		if got := Join(segs); got != body {
			t.Fatalf("join(split) not lossless:\nin:  %q\nout: %q", body, got)
		}
		for j, s := range segs {
			if s.Raw == "" {
				t.Fatalf("empty segment %d for body %q", j, body)
			}
		}
	}
}

func TestSplitEmptyBody(t *testing.T) {
	if segs := Split(""); segs != nil {
		t.Fatalf("empty body must yield no segments, got %#v", segs)
	}
}

func TestSplitCodeFenceTakesPrecedence(t *testing.T) {
	body := "```\nnot a [link](x) and not $math$\n```"
	segs := Split(body)
	if len(segs) != 1 || segs[0].Kind != Code || segs[0].Raw != body {
		t.Fatalf("fence must claim the whole span: %#v", segs)
	}
}

func TestSplitUnterminatedDegradesToText(t *testing.T) {
	body := "a stray ` backtick"
	segs := Split(body)
	if len(segs) != 1 || segs[0].Kind != Text || segs[0].Raw != body {
		t.Fatalf("unterminated delimiter must stay text: %#v", segs)
	}
}

func TestSplitDollarAmountsAreText(t *testing.T) {
	body := "it costs $5 and $10 today"
	segs := Split(body)
	if len(segs) != 1 || segs[0].Kind != Text {
		t.Fatalf("currency must not scan as math: %#v", segs)
	}
}

func TestSplitHTMLTagBoundary(t *testing.T) {
	body := "<present>not code</present>"
	segs := Split(body)
	for _, s := range segs {
		if s.Kind == Code {
			t.Fatalf("<present> must not match <pre: %#v", segs)
		}
	}
}

func TestSplitAnchorIsLink(t *testing.T) {
	body := `before <a href="https://x">label</a> after`
	segs := Split(body)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %#v", segs)
	}
	if segs[1].Kind != Link || segs[1].Raw != `<a href="https://x">label</a>` {
		t.Fatalf("anchor span mismatch: %#v", segs[1])
	}
}

func TestSplitMalformedMarkdownLinkIsText(t *testing.T) {
	body := "[not a link] (space before paren)"
	segs := Split(body)
	for _, s := range segs {
		if s.Kind == Link {
			t.Fatalf("malformed link must stay text: %#v", segs)
		}
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{Text, Code, Math, Link} {
		data, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(data); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", data, err)
		}
		if back != k {
			t.Fatalf("round trip %v -> %s -> %v", k, data, back)
		}
	}

	var k Kind
	if err := k.UnmarshalText([]byte("prose")); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
