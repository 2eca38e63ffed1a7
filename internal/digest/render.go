package digest

import (
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"
)

// The layout follows the digest email: an overview with anchors into the
// per-post blocks, each block carrying the original body, the translation,
// and the summary.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; max-width: 760px; margin: 0 auto; padding: 16px; color: #333; }
    table.post { width: 100%; border: 1px solid #ddd; border-radius: 8px; padding: 16px; background: #f9f9f9; margin-bottom: 24px; }
    .meta { color: #666; font-size: 14px; margin-bottom: 12px; }
    .overview { background: #f0f0f0; padding: 12px 16px; border-radius: 8px; margin-bottom: 24px; }
    .overview li { margin-bottom: 6px; }
    .translation { margin-top: 12px; padding: 12px; background: #fff6e6; border-radius: 6px; }
    .untranslated { color: #a33; font-size: 13px; }
  </style>
</head>
<body>
{{if .Empty}}
<table class="post">
  <tr><td style="font-size:18px; font-weight:bold; color:#333;">No new posts today 🎉</td></tr>
  <tr><td style="color:#666; font-size:14px; padding-top:8px;">
    Nothing was published in the last {{.WindowHours}} hours.
  </td></tr>
</table>
{{else}}
<div class="overview">
  <strong>{{len .Posts}} post(s) in the last {{.WindowHours}} hours{{if .Truncated}} (truncated){{end}}</strong>
  <ul>
  {{range .Posts}}
    <li><a href="#{{.Anchor}}">{{.Title}}</a>{{if .Summary}}: {{.Summary}}{{end}}</li>
  {{end}}
  </ul>
</div>
{{range .Posts}}
<table class="post" id="{{.Anchor}}">
  <tr>
    <td style="font-size:20px; font-weight:bold;">
      <a href="{{.Link}}" target="_blank" style="color:#333; text-decoration:none;">{{.Title}}</a>
    </td>
  </tr>
  <tr>
    <td class="meta">{{.SourceLabel}}{{if .Published}} · Published: {{.Published}}{{end}}</td>
  </tr>
  <tr>
    <td>{{.Original}}</td>
  </tr>
  <tr>
    <td class="translation">
      <strong>Translation ({{$.Language}}):</strong><br/>
      {{if .Untranslated}}<div class="untranslated">Translation unavailable for this post; original text kept.</div>{{end}}
      {{.Translation}}
    </td>
  </tr>
</table>
{{end}}
{{end}}
<div style="color:#888;font-size:12px;">
  Generated {{.Generated}} by lingua-digest.
</div>
</body>
</html>
`

var page = template.Must(template.New("digest").Parse(pageTemplate))

type pageView struct {
	Empty       bool
	WindowHours int
	Truncated   bool
	Language    string
	Generated   string
	Posts       []postView
}

type postView struct {
	Anchor       string
	Title        string
	Link         string
	SourceLabel  string
	Published    string
	Summary      string
	Original     template.HTML
	Translation  template.HTML
	Untranslated bool
}

// Render produces the standalone HTML document for a digest. Post bodies are
// escaped and reflowed; nothing from the feeds or the model is trusted as
// markup.
func Render(d Digest, language string) (string, error) {
	view := pageView{
		Empty:       d.Empty(),
		WindowHours: d.WindowHours,
		Truncated:   d.Truncated,
		Language:    language,
		Generated:   d.GeneratedAt.Format(time.RFC1123),
	}

	for i, p := range d.Posts {
		label := p.Original.Source.Label
		if label == "" {
			label = p.Original.Source.Locator
		}
		published := ""
		if !p.Original.PublishedAt.IsZero() {
			published = p.Original.PublishedAt.Local().Format("2006-01-02 15:04 MST")
		}
		view.Posts = append(view.Posts, postView{
			Anchor:       fmt.Sprintf("post-%d", i+1),
			Title:        p.Original.Title,
			Link:         p.Original.Link,
			SourceLabel:  label,
			Published:    published,
			Summary:      p.Summary,
			Original:     paragraphs(p.OriginalBody()),
			Translation:  paragraphs(p.TranslatedBody()),
			Untranslated: p.Untranslated,
		})
	}

	var sb strings.Builder
	if err := page.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return sb.String(), nil
}

// paragraphs escapes text and turns line breaks into <br/> so the normalized
// bodies keep their shape in HTML.
func paragraphs(text string) template.HTML {
	if strings.TrimSpace(text) == "" {
		return template.HTML("<em>No content.</em>")
	}
	lines := strings.Split(text, "\n")
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = html.EscapeString(line)
	}
	return template.HTML(strings.Join(escaped, "<br/>"))
}

// Subject builds the delivery subject line for a digest date.
func Subject(prefix string, t time.Time) string {
	return fmt.Sprintf("%s %s", prefix, t.Format("2006-01-02"))
}
