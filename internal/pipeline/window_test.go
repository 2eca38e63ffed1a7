package pipeline

import (
	"testing"
	"time"

	"github.com/lingua-hq/lingua-digest/internal/feed"
)

func postAt(title string, at time.Time) feed.RawPost {
	return feed.RawPost{Title: title, Link: "https://x/" + title, PublishedAt: at}
}

func TestWindowInclusiveBoundary(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	lookback := 24 * time.Hour

	exactCutoff := postAt("cutoff", now.Add(-lookback))
	justInside := postAt("inside", now.Add(-lookback+time.Second))
	justOutside := postAt("outside", now.Add(-lookback-time.Second))
	atNow := postAt("now", now)
	future := postAt("future", now.Add(time.Hour))

	got := Window([]feed.RawPost{exactCutoff, justInside, justOutside, atNow, future}, now, lookback, false)

	want := map[string]bool{"cutoff": true, "inside": true, "now": true}
	if len(got) != len(want) {
		t.Fatalf("expected %d posts, got %d: %#v", len(want), len(got), got)
	}
	for _, p := range got {
		if !want[p.Title] {
			t.Fatalf("unexpected post in window: %s", p.Title)
		}
	}
}

func TestWindowUndatedRetainedByDefault(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	undated := feed.RawPost{Title: "undated", Link: "https://x/u"}

	got := Window([]feed.RawPost{undated}, now, 24*time.Hour, false)
	if len(got) != 1 {
		t.Fatalf("undated post should survive by default")
	}

	got = Window([]feed.RawPost{undated}, now, 24*time.Hour, true)
	if len(got) != 0 {
		t.Fatalf("undated post should be dropped when requested")
	}
}

func TestWindowPreservesOrder(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	a := postAt("a", now.Add(-time.Hour))
	b := postAt("b", now.Add(-2*time.Hour))
	c := postAt("c", now.Add(-3*time.Hour))

	got := Window([]feed.RawPost{a, b, c}, now, 24*time.Hour, false)
	if len(got) != 3 || got[0].Title != "a" || got[2].Title != "c" {
		t.Fatalf("input order not preserved: %#v", got)
	}
}
