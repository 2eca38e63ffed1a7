package pipeline

import (
	"net/url"
	"strings"

	"github.com/lingua-hq/lingua-digest/internal/feed"
)

// trackingParams are query parameters stripped during link normalization.
var trackingParams = map[string]bool{
	"fbclid": true, "gclid": true, "msclkid": true,
	"ref": true, "ref_src": true, "source": true,
	"mc_cid": true, "mc_eid": true,
}

// Deduplicate collapses posts sharing a dedup key down to one survivor per
// key. The survivor keeps the position of the key's first occurrence, so
// relative order is stable; among duplicates the earliest published wins, a
// dated post beats an undated one, and ties keep the first encountered.
// Idempotent: running it on its own output changes nothing.
func Deduplicate(posts []feed.RawPost) []feed.RawPost {
	out := make([]feed.RawPost, 0, len(posts))
	slot := make(map[string]int, len(posts))

	for _, p := range posts {
		key := DedupKey(p)
		i, seen := slot[key]
		if !seen {
			slot[key] = len(out)
			out = append(out, p)
			continue
		}
		if prefers(p, out[i]) {
			out[i] = p
		}
	}
	return out
}

// prefers reports whether candidate should replace the incumbent for the same key.
func prefers(candidate, incumbent feed.RawPost) bool {
	switch {
	case candidate.PublishedAt.IsZero():
		return false
	case incumbent.PublishedAt.IsZero():
		return true
	default:
		return candidate.PublishedAt.Before(incumbent.PublishedAt)
	}
}

// DedupKey returns the cross-feed identity of a post: the normalized link when
// present, else the normalized source locator paired with the title.
func DedupKey(p feed.RawPost) string {
	if link := NormalizeLink(p.Link); link != "" {
		return link
	}
	locator := NormalizeLink(p.Source.Locator)
	if locator == "" {
		locator = strings.TrimSpace(p.Source.Locator)
	}
	title := strings.ToLower(strings.Join(strings.Fields(p.Title), " "))
	return locator + "\x00" + title
}

// NormalizeLink lowercases the scheme and host, strips tracking query
// parameters and the trailing slash. Unparseable or empty input normalizes to "".
func NormalizeLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(raw, "/")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			if trackingParams[name] || strings.HasPrefix(name, "utm_") {
				q.Del(name)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String()
}
