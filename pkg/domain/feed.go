package domain

import "time"

// Source represents an RSS feed origin, unique by URL
type Source struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// RawItem is a normalized feed entry as returned by the feed fetcher
type RawItem struct {
	Title     string
	Content   string
	URL       string
	Published time.Time
}

// UnknownPublished marks an entry without a usable publication date.
// Never replaced by the current time, so lookback windows don't pick it up.
var UnknownPublished = time.Unix(0, 0).UTC()
