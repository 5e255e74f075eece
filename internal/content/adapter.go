package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spacetraveling/internal/cms"
	"spacetraveling/internal/post"
	"spacetraveling/internal/richtext"
)

// Publication date fields a post's date can be taken from.
const (
	DateFirstPublication = "first_publication_date"
	DateLastPublication  = "last_publication_date"
)

type postData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
	Banner   struct {
		URL string `json:"url"`
	} `json:"banner"`
	Content []struct {
		Heading string              `json:"heading"`
		Body    []richtext.Fragment `json:"body"`
	} `json:"content"`
}

// Adapter serves posts from the content API.
type Adapter struct {
	client    *cms.Client
	dateField string
}

func NewAdapter(client *cms.Client, dateField string) *Adapter {
	if dateField != DateLastPublication {
		dateField = DateFirstPublication
	}
	return &Adapter{client: client, dateField: dateField}
}

func (a *Adapter) GetPage(ctx context.Context, contentType string, opts PageOptions) (post.Page, error) {
	resp, err := a.client.GetByType(ctx, contentType, cms.QueryOptions{
		Fetch:    opts.FetchFields,
		PageSize: opts.PageSize,
	})
	if err != nil {
		return post.Page{}, translate("get page", contentType, "", err)
	}
	return a.toPage(resp)
}

func (a *Adapter) FetchPage(ctx context.Context, cursor string) (post.Page, error) {
	resp, err := a.client.Follow(ctx, cursor)
	if err != nil {
		return post.Page{}, translate("fetch page", "", "", err)
	}
	return a.toPage(resp)
}

func (a *Adapter) GetByUID(ctx context.Context, contentType, uid string) (post.Detail, error) {
	doc, err := a.client.GetByUID(ctx, contentType, uid)
	if err != nil {
		return post.Detail{}, translate("get by uid", contentType, uid, err)
	}

	var data postData
	if err := decodeData(doc, &data); err != nil {
		return post.Detail{}, &TransportError{Op: "get by uid", Err: err}
	}

	d := post.Detail{
		UID:         doc.UID,
		Title:       data.Title,
		Subtitle:    data.Subtitle,
		Author:      data.Author,
		PublishedAt: a.date(doc),
		BannerURL:   data.Banner.URL,
		Content:     make([]post.ContentBlock, 0, len(data.Content)),
	}
	for _, c := range data.Content {
		d.Content = append(d.Content, post.ContentBlock{Heading: c.Heading, Body: c.Body})
	}
	return d, nil
}

func (a *Adapter) toPage(resp *cms.Response) (post.Page, error) {
	page := post.Page{Results: make([]post.Summary, 0, len(resp.Results))}
	if resp.NextPage != nil {
		page.NextPage = *resp.NextPage
	}
	for i := range resp.Results {
		doc := &resp.Results[i]
		var data postData
		if err := decodeData(doc, &data); err != nil {
			return post.Page{}, &TransportError{Op: "decode page", Err: err}
		}
		page.Results = append(page.Results, post.Summary{
			UID:         doc.UID,
			Title:       data.Title,
			Subtitle:    data.Subtitle,
			Author:      data.Author,
			PublishedAt: a.date(doc),
		})
	}
	return page, nil
}

func (a *Adapter) date(doc *cms.Document) *time.Time {
	ts := doc.FirstPublicationDate
	if a.dateField == DateLastPublication {
		ts = doc.LastPublicationDate
	}
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}

func decodeData(doc *cms.Document, out *postData) error {
	if len(doc.Data) == 0 || string(doc.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(doc.Data, out); err != nil {
		return fmt.Errorf("decode %s %q: %w", doc.Type, doc.UID, err)
	}
	return nil
}
