// internal/cms/types.go
package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the layout the content API uses for publication dates.
const TimestampLayout = "2006-01-02T15:04:05-0700"

// Timestamp decodes API publication dates. A JSON null leaves the pointer nil.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		return nil
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		// Some repositories emit RFC 3339 instead.
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
	}
	t.Time = parsed.UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(TimestampLayout))
}

// Ref is a content release reference. Queries must name a ref.
type Ref struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

type apiInfo struct {
	Refs []Ref `json:"refs"`
}

// Document is a single repository document as returned by the search API.
type Document struct {
	ID                   string          `json:"id"`
	UID                  string          `json:"uid"`
	Type                 string          `json:"type"`
	Href                 string          `json:"href,omitempty"`
	Tags                 []string        `json:"tags,omitempty"`
	Lang                 string          `json:"lang,omitempty"`
	FirstPublicationDate *Timestamp      `json:"first_publication_date"`
	LastPublicationDate  *Timestamp      `json:"last_publication_date"`
	Data                 json.RawMessage `json:"data"`
}

// Response is one page of search results.
type Response struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	ResultsSize      int        `json:"results_size"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	PrevPage         *string    `json:"prev_page"`
	Results          []Document `json:"results"`
}

// QueryOptions narrows a search. Zero values are omitted from the request.
type QueryOptions struct {
	Fetch     []string
	PageSize  int
	Page      int
	Orderings []string
}
