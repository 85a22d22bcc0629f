package feed

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/robohub/pkg/domain"
)

// untitled is used for entries without a title
const untitled = "Untitled"

// ParseBytes parses raw RSS/Atom content into normalized items.
// Used directly for fixture content and for the fallback path of Fetcher.
func ParseBytes(data []byte) ([]domain.RawItem, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return normalize(feed), nil
}

// normalize converts parsed feed entries to raw items, dropping entries without URL
func normalize(feed *gofeed.Feed) []domain.RawItem {
	res := make([]domain.RawItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = untitled
		}
		res = append(res, domain.RawItem{
			Title:     title,
			Content:   itemBody(item),
			URL:       link,
			Published: itemPublished(item),
		})
	}
	return res
}

// itemBody picks the richest available body: full content, then snippet, then plain content
func itemBody(item *gofeed.Item) string {
	candidates := []string{item.Content, item.Description}
	if item.ITunesExt != nil {
		candidates = append(candidates, item.ITunesExt.Summary)
	}
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return ""
}

// itemPublished returns the first valid date among parsed and raw date fields,
// or domain.UnknownPublished if none can be parsed
func itemPublished(item *gofeed.Item) time.Time {
	for _, t := range []*time.Time{item.PublishedParsed, item.UpdatedParsed} {
		if t != nil && !t.IsZero() {
			return t.UTC()
		}
	}
	for _, raw := range []string{item.Published, item.Updated} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseAny(raw); err == nil && !t.IsZero() {
			return t.UTC()
		}
	}
	return domain.UnknownPublished
}
