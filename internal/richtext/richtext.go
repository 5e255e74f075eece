// Package richtext renders the content API's structured text fragments.
package richtext

import (
	"bytes"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment types.
const (
	TypeParagraph    = "paragraph"
	TypePreformatted = "preformatted"
	TypeListItem     = "list-item"
	TypeOListItem    = "o-list-item"
	TypeImage        = "image"
)

// Span types.
const (
	SpanStrong    = "strong"
	SpanEm        = "em"
	SpanHyperlink = "hyperlink"
)

// Fragment is one block of structured text.
type Fragment struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Spans []Span `json:"spans,omitempty"`

	// Image fragments only.
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Span marks up Text[Start:End], counted in runes.
type Span struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Type  string    `json:"type"`
	Data  *SpanData `json:"data,omitempty"`
}

type SpanData struct {
	URL string `json:"url,omitempty"`
}

// AsText joins the plain text of all fragments with a single space.
func AsText(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f.Text != "" {
			parts = append(parts, f.Text)
		}
	}
	return strings.Join(parts, " ")
}

// AsHTML renders fragments to HTML. Text is always escaped and only
// http, https and mailto links survive.
func AsHTML(fragments []Fragment) (string, error) {
	var buf bytes.Buffer
	var list *html.Node

	flush := func() error {
		if list == nil {
			return nil
		}
		err := html.Render(&buf, list)
		list = nil
		return err
	}

	for _, f := range fragments {
		switch f.Type {
		case TypeListItem, TypeOListItem:
			tag := atom.Ul
			if f.Type == TypeOListItem {
				tag = atom.Ol
			}
			if list != nil && list.DataAtom != tag {
				if err := flush(); err != nil {
					return "", err
				}
			}
			if list == nil {
				list = element(tag)
			}
			li := element(atom.Li)
			appendSpans(li, f.Text, f.Spans)
			list.AppendChild(li)
			continue
		}

		if err := flush(); err != nil {
			return "", err
		}
		n := blockNode(f)
		if n == nil {
			continue
		}
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	if err := flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func blockNode(f Fragment) *html.Node {
	switch f.Type {
	case TypeImage:
		if !safeURL(f.URL, "http", "https") {
			return nil
		}
		img := element(atom.Img)
		img.Attr = []html.Attribute{{Key: "src", Val: f.URL}, {Key: "alt", Val: f.Alt}}
		return img
	case TypePreformatted:
		pre := element(atom.Pre)
		pre.AppendChild(&html.Node{Type: html.TextNode, Data: f.Text})
		return pre
	}

	tag := atom.P
	if a, ok := headingAtoms[f.Type]; ok {
		tag = a
	}
	n := element(tag)
	appendSpans(n, f.Text, f.Spans)
	return n
}

var headingAtoms = map[string]atom.Atom{
	"heading1": atom.H1,
	"heading2": atom.H2,
	"heading3": atom.H3,
	"heading4": atom.H4,
	"heading5": atom.H5,
	"heading6": atom.H6,
}

// appendSpans adds text to parent, wrapping span ranges. Overlapping spans
// are flattened: a span starting inside a previous one is dropped.
func appendSpans(parent *html.Node, text string, spans []Span) {
	runes := []rune(text)
	valid := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 || s.End > len(runes) || s.Start >= s.End {
			continue
		}
		valid = append(valid, s)
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Start < valid[j].Start })

	pos := 0
	for _, s := range valid {
		if s.Start < pos {
			continue
		}
		if s.Start > pos {
			parent.AppendChild(textNode(runes[pos:s.Start]))
		}
		wrapper := spanNode(s)
		wrapper.AppendChild(textNode(runes[s.Start:s.End]))
		parent.AppendChild(wrapper)
		pos = s.End
	}
	if pos < len(runes) {
		parent.AppendChild(textNode(runes[pos:]))
	}
}

func spanNode(s Span) *html.Node {
	switch s.Type {
	case SpanStrong:
		return element(atom.Strong)
	case SpanEm:
		return element(atom.Em)
	case SpanHyperlink:
		if s.Data != nil && safeURL(s.Data.URL, "http", "https", "mailto") {
			a := element(atom.A)
			a.Attr = []html.Attribute{{Key: "href", Val: s.Data.URL}, {Key: "rel", Val: "noopener noreferrer"}}
			return a
		}
	}
	return element(atom.Span)
}

func safeURL(raw string, schemes ...string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	for _, s := range schemes {
		if strings.EqualFold(u.Scheme, s) {
			return true
		}
	}
	return false
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func textNode(r []rune) *html.Node {
	return &html.Node{Type: html.TextNode, Data: string(r)}
}
