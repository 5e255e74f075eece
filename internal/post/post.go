// Package post holds the blog's domain types.
package post

import (
	"time"

	"spacetraveling/internal/richtext"
)

// Summary is what the listing shows for a post.
type Summary struct {
	UID         string     `json:"uid"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"first_publication_date"`
}

// Detail is a full post.
type Detail struct {
	UID         string         `json:"uid"`
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle"`
	Author      string         `json:"author"`
	PublishedAt *time.Time     `json:"first_publication_date"`
	BannerURL   string         `json:"banner_url"`
	Content     []ContentBlock `json:"content"`
}

// Summary returns the identifying fields of d.
func (d Detail) Summary() Summary {
	return Summary{UID: d.UID, Title: d.Title, Subtitle: d.Subtitle, Author: d.Author, PublishedAt: d.PublishedAt}
}

// ContentBlock is a titled section of a post body.
type ContentBlock struct {
	Heading string              `json:"heading"`
	Body    []richtext.Fragment `json:"body"`
}

// Page is one page of summaries. An empty NextPage means there are no more.
type Page struct {
	Results  []Summary
	NextPage string
}
