package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package catalog loads the declarative list of feed sources.

// Origin values recorded on loaded sources for debugging.
const (
	OriginCatalog  = "catalog"
	OriginOverride = "override"
)

// Source is one feed to pull. Identity is the locator; the rest is
// presentation metadata. Index records declaration order, which downstream
// stages use as the deterministic tie-break.
type Source struct {
	Locator     string
	Label       string
	Site        string
	Owner       string
	Category    string
	Description string
	Tags        []string
	Origin      string
	Index       int
}

// sourceSpec is the tagged on-disk variant: a bare locator string or a
// detailed mapping with a required feed/url field.
type sourceSpec struct {
	bare     string
	isBare   bool
	detailed detailedSpec
}

type detailedSpec struct {
	Feed        string     `json:"feed" yaml:"feed"`
	URL         string     `json:"url" yaml:"url"`
	Name        string     `json:"name" yaml:"name"`
	Site        string     `json:"site" yaml:"site"`
	Owner       string     `json:"owner" yaml:"owner"`
	Category    string     `json:"category" yaml:"category"`
	Description string     `json:"description" yaml:"description"`
	Tags        stringList `json:"tags" yaml:"tags"`
	Topics      stringList `json:"topics" yaml:"topics"`
}

func (s *sourceSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var str string
		if err := value.Decode(&str); err != nil {
			return err
		}
		s.bare = str
		s.isBare = true
		return nil
	}
	return value.Decode(&s.detailed)
}

func (s *sourceSpec) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		s.isBare = true
		return json.Unmarshal(data, &s.bare)
	}
	return json.Unmarshal(data, &s.detailed)
}

// stringList accepts either a sequence of strings or a single comma-separated string.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = splitCSV(s)
		return nil
	}
	var items []string
	if err := value.Decode(&items); err != nil {
		return err
	}
	*l = trimAll(items)
	return nil
}

func (l *stringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = splitCSV(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = trimAll(items)
	return nil
}

func splitCSV(s string) []string {
	return trimAll(strings.Split(s, ","))
}

func trimAll(items []string) []string {
	var out []string
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// catalogFile covers both accepted file shapes: a top-level list of entries,
// or a mapping with a feeds key. Unknown fields are ignored.
type catalogFile struct {
	Feeds []sourceSpec `json:"feeds" yaml:"feeds"`
}

// Load reads the catalog file and merges ad-hoc override locators after it,
// recording provenance on each source. Duplicate locators keep the first
// occurrence. An empty resulting catalog is an error: a run with no sources
// must fail before any network work, not produce a digest that looks like
// "no new posts".
func Load(path string, overrides []string) ([]Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	specs, err := parseCatalog(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var sources []Source

	appendSource := func(src Source) {
		src.Locator = strings.TrimSpace(src.Locator)
		if src.Locator == "" {
			return
		}
		if _, dup := seen[src.Locator]; dup {
			return
		}
		seen[src.Locator] = struct{}{}
		src.Index = len(sources)
		sources = append(sources, src)
	}

	for _, spec := range specs {
		appendSource(spec.toSource())
	}
	for _, locator := range overrides {
		appendSource(Source{Locator: locator, Origin: OriginOverride})
	}

	if len(sources) == 0 {
		return nil, errors.New("catalog contains no feed sources")
	}
	return sources, nil
}

func (s sourceSpec) toSource() Source {
	if s.isBare {
		return Source{Locator: s.bare, Origin: OriginCatalog}
	}

	d := s.detailed
	locator := d.Feed
	if locator == "" {
		locator = d.URL
	}
	tags := d.Tags
	if len(tags) == 0 {
		tags = d.Topics
	}
	return Source{
		Locator:     locator,
		Label:       strings.TrimSpace(d.Name),
		Site:        strings.TrimSpace(d.Site),
		Owner:       strings.TrimSpace(d.Owner),
		Category:    strings.TrimSpace(d.Category),
		Description: strings.TrimSpace(d.Description),
		Tags:        tags,
		Origin:      OriginCatalog,
	}
}

func parseCatalog(data []byte, ext string) ([]sourceSpec, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if specs, err := unmarshalCatalog(data, d.fn); err == nil {
			return specs, nil
		}
	}

	return nil, errors.New("catalog file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalCatalog(data []byte, fn unmarshalFn) ([]sourceSpec, error) {
	var asList []sourceSpec
	if err := fn(data, &asList); err == nil {
		return asList, nil
	}

	var asFile catalogFile
	if err := fn(data, &asFile); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if asFile.Feeds == nil {
		return nil, errors.New("catalog has no feeds entry")
	}
	return asFile.Feeds, nil
}
