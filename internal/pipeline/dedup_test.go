package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/lingua-hq/lingua-digest/internal/feed"
)

func TestNormalizeLink(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://Example.COM/post/", "https://example.com/post"},
		{"https://example.com/post#section-2", "https://example.com/post"},
		{"https://example.com/post?utm_source=rss&utm_medium=feed", "https://example.com/post"},
		{"https://example.com/post?fbclid=abc123", "https://example.com/post"},
		{"https://example.com/post?id=7&utm_campaign=x", "https://example.com/post?id=7"},
		{"https://example.com/", "https://example.com"},
		{"not a url/", "not a url"},
	}
	for _, tc := range cases {
		if got := NormalizeLink(tc.in); got != tc.want {
			t.Fatalf("NormalizeLink(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDeduplicateByNormalizedLink(t *testing.T) {
	early := time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC)
	late := time.Date(2026, 1, 9, 10, 0, 0, 0, time.UTC)

	a := feed.RawPost{Title: "Post", Link: "https://example.com/p?utm_source=rss", PublishedAt: late}
	b := feed.RawPost{Title: "Post", Link: "https://example.com/p/", PublishedAt: early}
	other := feed.RawPost{Title: "Other", Link: "https://example.com/q", PublishedAt: late}

	got := Deduplicate([]feed.RawPost{a, b, other})
	if len(got) != 2 {
		t.Fatalf("expected 2 posts after dedup, got %d", len(got))
	}
	// Survivor keeps the first-seen slot but carries the earlier publish time.
	if got[0].Link != b.Link || !got[0].PublishedAt.Equal(early) {
		t.Fatalf("earliest duplicate should win: %#v", got[0])
	}
	if got[1].Title != "Other" {
		t.Fatalf("unrelated post lost: %#v", got)
	}
}

func TestDeduplicateDatedBeatsUndated(t *testing.T) {
	dated := feed.RawPost{Title: "P", Link: "https://example.com/p", PublishedAt: time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC)}
	undated := feed.RawPost{Title: "P", Link: "https://example.com/p"}

	got := Deduplicate([]feed.RawPost{undated, dated})
	if len(got) != 1 || got[0].PublishedAt.IsZero() {
		t.Fatalf("dated duplicate should win over undated: %#v", got)
	}
}

func TestDeduplicateFallsBackToSourceAndTitle(t *testing.T) {
	srcA := feed.RawPost{Title: "Same  Title", Link: ""}
	srcA.Source.Locator = "https://a/rss"
	srcA2 := feed.RawPost{Title: "same title", Link: ""}
	srcA2.Source.Locator = "https://a/rss"
	srcB := feed.RawPost{Title: "Same Title", Link: ""}
	srcB.Source.Locator = "https://b/rss"

	got := Deduplicate([]feed.RawPost{srcA, srcA2, srcB})
	if len(got) != 2 {
		t.Fatalf("same source and title must collapse, different source must not: %#v", got)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	posts := []feed.RawPost{
		{Title: "A", Link: "https://x/a", PublishedAt: time.Date(2026, 1, 9, 8, 0, 0, 0, time.UTC)},
		{Title: "A", Link: "https://x/a/"},
		{Title: "B", Link: "https://x/b"},
	}

	once := Deduplicate(posts)
	twice := Deduplicate(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedup not idempotent:\nonce:  %#v\ntwice: %#v", once, twice)
	}
}
