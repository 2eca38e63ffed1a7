package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadBareAndDetailedYAML(t *testing.T) {
	path := writeCatalog(t, "feeds.yaml", `
feeds:
  - https://simple.example.com/rss
  - feed: https://detailed.example.com/atom.xml
    name: Detailed Blog
    site: https://detailed.example.com
    owner: Jane
    category: infra
    tags: [go, systems]
`)

	sources, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}

	if sources[0].Locator != "https://simple.example.com/rss" {
		t.Fatalf("bare locator mismatch: %q", sources[0].Locator)
	}
	if sources[0].Label != "" || sources[0].Origin != OriginCatalog {
		t.Fatalf("bare source should have no label and catalog origin: %#v", sources[0])
	}

	d := sources[1]
	if d.Locator != "https://detailed.example.com/atom.xml" || d.Label != "Detailed Blog" {
		t.Fatalf("detailed source mismatch: %#v", d)
	}
	if d.Owner != "Jane" || d.Category != "infra" || len(d.Tags) != 2 {
		t.Fatalf("detailed metadata mismatch: %#v", d)
	}
	if d.Index != 1 {
		t.Fatalf("declaration index mismatch: %d", d.Index)
	}
}

func TestLoadTopLevelListYAML(t *testing.T) {
	path := writeCatalog(t, "feeds.yml", `
- https://a.example.com/rss
- https://b.example.com/rss
`)

	sources, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeCatalog(t, "feeds.json", `{
  "feeds": [
    "https://a.example.com/rss",
    {"url": "https://b.example.com/rss", "name": "B", "tags": "ml, ai"}
  ]
}`)

	sources, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[1].Label != "B" {
		t.Fatalf("label mismatch: %#v", sources[1])
	}
	if len(sources[1].Tags) != 2 || sources[1].Tags[0] != "ml" || sources[1].Tags[1] != "ai" {
		t.Fatalf("comma separated tags not split: %#v", sources[1].Tags)
	}
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	path := writeCatalog(t, "feeds.yaml", `
feeds:
  - feed: https://a.example.com/rss
    name: A
    favourite_colour: purple
`)

	sources, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 1 || sources[0].Label != "A" {
		t.Fatalf("unexpected sources: %#v", sources)
	}
}

func TestLoadDeduplicatesKeepFirst(t *testing.T) {
	path := writeCatalog(t, "feeds.yaml", `
feeds:
  - feed: https://a.example.com/rss
    name: First
  - feed: https://a.example.com/rss
    name: Second
`)

	sources, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected duplicate collapsed, got %d", len(sources))
	}
	if sources[0].Label != "First" {
		t.Fatalf("expected first occurrence kept, got %q", sources[0].Label)
	}
}

func TestLoadOverridesAppended(t *testing.T) {
	path := writeCatalog(t, "feeds.yaml", `
feeds:
  - https://a.example.com/rss
`)

	sources, err := Load(path, []string{"https://extra.example.com/rss"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected catalog plus override, got %d", len(sources))
	}
	last := sources[1]
	if last.Locator != "https://extra.example.com/rss" || last.Origin != OriginOverride {
		t.Fatalf("override provenance mismatch: %#v", last)
	}
}

func TestLoadEmptyCatalogFails(t *testing.T) {
	path := writeCatalog(t, "feeds.yaml", "feeds: []\n")

	if _, err := Load(path, nil); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
