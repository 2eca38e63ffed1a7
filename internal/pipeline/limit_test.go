package pipeline

import (
	"testing"

	"github.com/lingua-hq/lingua-digest/internal/feed"
)

func fromSource(locator, title string) feed.RawPost {
	p := feed.RawPost{Title: title, Link: "https://x/" + title}
	p.Source.Locator = locator
	return p
}

func titles(posts []feed.RawPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestLimitPerSourceThenGlobal(t *testing.T) {
	posts := []feed.RawPost{
		fromSource("a", "a1"),
		fromSource("a", "a2"),
		fromSource("a", "a3"),
		fromSource("b", "b1"),
		fromSource("c", "c1"),
	}

	got, dropped := Limit(posts, 4, 2)
	if !dropped {
		t.Fatalf("expected dropped flag")
	}
	want := []string{"a1", "a2", "b1", "c1"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, titles(got))
	}
	for i, w := range want {
		if got[i].Title != w {
			t.Fatalf("expected %v, got %v", want, titles(got))
		}
	}
}

func TestLimitGlobalOnly(t *testing.T) {
	posts := []feed.RawPost{
		fromSource("a", "a1"),
		fromSource("a", "a2"),
		fromSource("b", "b1"),
	}

	got, dropped := Limit(posts, 2, -1)
	if !dropped || len(got) != 2 {
		t.Fatalf("expected 2 posts with dropped flag, got %v dropped=%v", titles(got), dropped)
	}
	if got[0].Title != "a1" || got[1].Title != "a2" {
		t.Fatalf("global cap must keep arrival order: %v", titles(got))
	}
}

func TestLimitDisabled(t *testing.T) {
	posts := []feed.RawPost{fromSource("a", "a1"), fromSource("a", "a2")}

	got, dropped := Limit(posts, -1, 0)
	if dropped || len(got) != 2 {
		t.Fatalf("non-positive caps must be unlimited: %v dropped=%v", titles(got), dropped)
	}
}
