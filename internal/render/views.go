package render

import (
	"fmt"
	"html/template"
	"time"

	"spacetraveling/internal/post"
	"spacetraveling/internal/richtext"
)

// IndexData feeds index.html.
type IndexData struct {
	SiteTitle string
	Title     string
	Posts     []post.Summary
	// NextPage is the JSON endpoint the browser fetches for more posts.
	NextPage string
	// MoreURL is the no-script fallback link; empty hides it.
	MoreURL string
	// LoadError is shown above the button when a later page failed.
	LoadError string
}

type BlockView struct {
	Heading string
	HTML    template.HTML
}

// PostData feeds post.html.
type PostData struct {
	SiteTitle   string
	Title       string
	Post        post.Detail
	ReadingTime int
	Blocks      []BlockView
}

// ErrorData feeds 404.html and error.html.
type ErrorData struct {
	SiteTitle string
	Title     string
	Message   string
	RetryURL  string
}

// NewPostData renders the post body and computes its reading time.
func NewPostData(siteTitle string, d post.Detail) (PostData, error) {
	data := PostData{
		SiteTitle:   siteTitle,
		Title:       d.Title,
		Post:        d,
		ReadingTime: post.EstimateReadingTime(d.Content),
		Blocks:      make([]BlockView, 0, len(d.Content)),
	}
	for _, b := range d.Content {
		body, err := richtext.AsHTML(b.Body)
		if err != nil {
			return PostData{}, fmt.Errorf("render %q body: %w", d.UID, err)
		}
		// AsHTML escapes all text and filters URLs.
		data.Blocks = append(data.Blocks, BlockView{Heading: b.Heading, HTML: template.HTML(body)})
	}
	return data, nil
}

// PostJSON is a listing entry as served to the browser.
type PostJSON struct {
	UID                  string       `json:"uid"`
	FirstPublicationDate *time.Time   `json:"first_publication_date"`
	Data                 PostJSONData `json:"data"`
}

type PostJSONData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
}

// PageJSON is the body of a "load more" response.
type PageJSON struct {
	NextPage *string    `json:"next_page"`
	Results  []PostJSON `json:"results"`
}

// NewPageJSON builds a load-more body. An empty next becomes null.
func NewPageJSON(results []post.Summary, next string) PageJSON {
	page := PageJSON{Results: make([]PostJSON, 0, len(results))}
	if next != "" {
		page.NextPage = &next
	}
	for _, s := range results {
		page.Results = append(page.Results, PostJSON{
			UID:                  s.UID,
			FirstPublicationDate: s.PublishedAt,
			Data:                 PostJSONData{Title: s.Title, Subtitle: s.Subtitle, Author: s.Author},
		})
	}
	return page
}
