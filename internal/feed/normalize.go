package feed

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blankLinesRe = regexp.MustCompile(`\n{3,}`)

// blockTags introduce paragraph breaks in the normalized body.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "blockquote": true,
	"table": true, "tr": true, "figure": true, "figcaption": true,
}

// normalizeBody converts the entry HTML (RSS description, Atom content, or
// anything in between) into one consistent representation: plain text with
// fenced code blocks, backtick inline code, and markdown links. Math
// delimiters pass through untouched as text. A body the parser cannot make
// sense of is returned as-is rather than dropped.
func normalizeBody(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}

	var sb strings.Builder
	flattenInto(&sb, doc.Find("body"))

	out := blankLinesRe.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out)
}

func flattenInto(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			sb.WriteString(c.Get(0).Data)
		case name == "#comment", name == "script", name == "style":
			// dropped
		case name == "pre":
			sb.WriteString("\n```\n")
			sb.WriteString(strings.Trim(c.Text(), "\n"))
			sb.WriteString("\n```\n")
		case name == "code":
			sb.WriteString("`")
			sb.WriteString(c.Text())
			sb.WriteString("`")
		case name == "a":
			href, _ := c.Attr("href")
			text := strings.TrimSpace(c.Text())
			if href == "" {
				sb.WriteString(c.Text())
				return
			}
			if text == "" {
				text = href
			}
			sb.WriteString(fmt.Sprintf("[%s](%s)", text, href))
		case name == "br":
			sb.WriteString("\n")
		case name == "img":
			if alt, ok := c.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
				sb.WriteString(strings.TrimSpace(alt))
			}
		case blockTags[name]:
			sb.WriteString("\n")
			flattenInto(sb, c)
			sb.WriteString("\n")
		default:
			flattenInto(sb, c)
		}
	})
}
