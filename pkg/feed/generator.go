package feed

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/umputun/robohub/pkg/domain"
)

// RSS represents the root RSS 2.0 element
type RSS struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *RSSChannel `xml:"channel"`
}

// RSSChannel represents an RSS channel
type RSSChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *AtomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*RSSItem `xml:"item"`
}

// AtomLink represents an Atom link element within RSS
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// RSSItem represents an item in an RSS feed
type RSSItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category"`
}

// Generator renders enriched articles and the source catalog as RSS and OPML
type Generator struct {
	baseURL string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateRSS creates an RSS 2.0 feed from enriched articles, optionally limited to one category
func (g *Generator) GenerateRSS(articles []domain.Article, category string, now time.Time) (string, error) {
	title := "Robohub - Robotics News"
	selfLink := g.baseURL + "/api/news/rss"
	if category != "" {
		title = fmt.Sprintf("Robohub - %s", category)
		selfLink += "?category=" + url.QueryEscape(category)
	}

	rssItems := make([]*RSSItem, 0, len(articles))
	for _, a := range articles {
		rssItems = append(rssItems, g.convertToRSSItem(a))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "AI-enriched robotics industry news",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: now.Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// convertToRSSItem converts an article to an RSS item, the summary goes to description
func (g *Generator) convertToRSSItem(a domain.Article) *RSSItem {
	desc := fmt.Sprintf("Importance: %d/10", a.ImportanceScore)
	if a.CompanyName != "" {
		desc += "\nCompany: " + a.CompanyName
	}
	if len(a.Tags) > 0 {
		desc += "\nTags: " + strings.Join(a.Tags, ", ")
	}
	if a.Summary != "" {
		desc += "\n\n" + a.Summary
	}

	item := &RSSItem{
		Title:       fmt.Sprintf("[%d] %s", a.ImportanceScore, a.Title),
		Link:        a.URL,
		GUID:        a.URL,
		Description: desc,
		Categories:  append([]string{string(a.Category)}, a.Tags...),
	}
	// unknown dates stay out of the feed instead of showing up as 1970
	if !a.Published.Equal(domain.UnknownPublished) && !a.Published.IsZero() {
		item.PubDate = a.Published.Format(time.RFC1123Z)
	}
	return item
}

// GenerateOPML creates an OPML file with the ingested feed sources
func (g *Generator) GenerateOPML(sources []domain.Source, now time.Time) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(sources))
	for _, src := range sources {
		outlines = append(outlines, outline{Text: src.Name, Title: src.Name, Type: src.Type, XMLUrl: src.URL})
	}

	doc := opml{
		Version: "2.0",
		Head:    head{Title: "Robohub Feed Sources", DateCreated: now.Format(time.RFC1123Z)},
		Body:    body{Outlines: outlines},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}
