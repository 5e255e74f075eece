// Package rss builds the RSS 2.0 feed of published posts.
package rss

import (
	"encoding/xml"
	"strings"
	"time"

	"spacetraveling/internal/post"
)

// RSS is the root element of an RSS feed.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	AtomNS  string   `xml:"xmlns:atom,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel represents the channel element in an RSS feed.
type Channel struct {
	XMLName       xml.Name `xml:"channel"`
	Title         string   `xml:"title"`
	Link          string   `xml:"link"`
	Description   string   `xml:"description"`
	Language      string   `xml:"language,omitempty"`
	LastBuildDate string   `xml:"lastBuildDate,omitempty"` // RFC1123Z
	SelfLink      AtomLink `xml:"atom:link"`
	Items         []Item   `xml:"item"`
}

type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// Item represents an item element in an RSS feed.
type Item struct {
	XMLName     xml.Name `xml:"item"`
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"` // RFC1123Z
	GUID        GUID     `xml:"guid"`
}

type GUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// Build assembles a feed for posts. siteURL must be absolute.
func Build(title, siteURL, description string, posts []post.Summary, now time.Time) RSS {
	base := strings.TrimRight(siteURL, "/")
	feed := RSS{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: Channel{
			Title:         title,
			Link:          base + "/",
			Description:   description,
			Language:      "pt-br",
			LastBuildDate: now.Format(time.RFC1123Z),
			SelfLink:      AtomLink{Href: base + "/rss.xml", Rel: "self", Type: "application/rss+xml"},
		},
	}
	for _, p := range posts {
		link := base + "/post/" + p.UID
		item := Item{
			Title:       p.Title,
			Link:        link,
			Description: p.Subtitle,
			GUID:        GUID{Value: link, IsPermaLink: true},
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}
	return feed
}

// Marshal encodes the feed with an XML declaration.
func (r RSS) Marshal() ([]byte, error) {
	out, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
