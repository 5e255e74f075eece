package render

import (
	"encoding/json"
	"io/fs"
	"strings"
	"testing"
	"time"

	"spacetraveling/internal/post"
	"spacetraveling/internal/richtext"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New("spacetraveling")
	require.NoError(t, err)
	return r
}

func parse(t *testing.T, body []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	require.NoError(t, err)
	return doc
}

func TestLoadTemplates(t *testing.T) {
	r := newTestRenderer(t)
	for _, name := range []string{PageIndex, PagePost, PageNotFound, PageError} {
		assert.Contains(t, r.templates, name)
	}
	assert.NotContains(t, r.templates, layoutFile)
	assert.NotContains(t, r.templates, headerFile)
}

func TestRenderIndex(t *testing.T) {
	r := newTestRenderer(t)
	published := time.Date(2021, 3, 15, 19, 25, 0, 0, time.UTC)

	body, err := r.Bytes(PageIndex, IndexData{
		SiteTitle: "spacetraveling",
		Posts: []post.Summary{
			{UID: "como-utilizar-hooks", Title: "Como utilizar Hooks", Subtitle: "sub", Author: "Joseph", PublishedAt: &published},
			{UID: "sem-data", Title: "<b>Sem data</b>"},
		},
		NextPage: "/api/posts?cursor=abc",
		MoreURL:  "/?pages=2",
	})
	require.NoError(t, err)
	doc := parse(t, body)

	assert.Equal(t, "spacetraveling", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find("header img[alt=logo]").Length())

	posts := doc.Find("#posts a.post")
	require.Equal(t, 2, posts.Length())
	uid, _ := posts.First().Attr("data-uid")
	assert.Equal(t, "como-utilizar-hooks", uid)
	href, _ := posts.First().Attr("href")
	assert.Equal(t, "/post/como-utilizar-hooks", href)
	assert.Equal(t, "15 mar 2021", posts.First().Find("time").Text())
	assert.Equal(t, "<b>Sem data</b>", posts.Last().Find("strong").Text())

	more := doc.Find("#load-more")
	require.Equal(t, 1, more.Length())
	next, _ := more.Attr("data-next")
	assert.Equal(t, "/api/posts?cursor=abc", next)
	assert.True(t, doc.Find("#load-error").HasClass("is-hidden"))
}

func TestRenderIndexWithoutMore(t *testing.T) {
	r := newTestRenderer(t)
	body, err := r.Bytes(PageIndex, IndexData{SiteTitle: "spacetraveling", LoadError: "falhou"})
	require.NoError(t, err)
	doc := parse(t, body)

	assert.Equal(t, 0, doc.Find("#load-more").Length())
	assert.Equal(t, 1, doc.Find(".empty").Length())
	assert.False(t, doc.Find("#load-error").HasClass("is-hidden"))
	assert.Equal(t, "falhou", doc.Find("#load-error").Text())
}

func TestRenderPost(t *testing.T) {
	r := newTestRenderer(t)
	published := time.Date(2021, 3, 25, 0, 0, 0, 0, time.UTC)
	d := post.Detail{
		UID: "hooks", Title: "Como utilizar Hooks", Author: "Joseph", PublishedAt: &published,
		BannerURL: "https://images.example.io/banner.png",
		Content: []post.ContentBlock{
			{Heading: "Proin et varius", Body: []richtext.Fragment{
				{Type: richtext.TypeParagraph, Text: strings.Repeat("word ", 250), Spans: []richtext.Span{{Start: 0, End: 4, Type: richtext.SpanStrong}}},
			}},
		},
	}
	data, err := NewPostData("spacetraveling", d)
	require.NoError(t, err)
	assert.Equal(t, 2, data.ReadingTime)

	body, err := r.Bytes(PagePost, data)
	require.NoError(t, err)
	doc := parse(t, body)

	assert.Equal(t, "Como utilizar Hooks | spacetraveling", doc.Find("title").Text())
	assert.Equal(t, "Como utilizar Hooks", doc.Find("article h1").Text())
	assert.Equal(t, "2 min", doc.Find(".reading-time").Text())
	assert.Equal(t, "25 mar 2021", doc.Find("article time").Text())
	src, _ := doc.Find("img.banner").Attr("src")
	assert.Equal(t, d.BannerURL, src)
	assert.Equal(t, "Proin et varius", doc.Find(".content-block h2").Text())
	assert.Equal(t, "word", doc.Find(".content-block .body p strong").Text())
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.Bytes("missing.html", nil)
	assert.Error(t, err)
}

func TestNewPageJSON(t *testing.T) {
	published := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	last, err := json.Marshal(NewPageJSON([]post.Summary{{UID: "a", Title: "A", Author: "X", PublishedAt: &published}}, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"next_page":null,"results":[{"uid":"a","first_publication_date":"2021-03-15T00:00:00Z","data":{"title":"A","subtitle":"","author":"X"}}]}`, string(last))

	more, err := json.Marshal(NewPageJSON(nil, "/api/posts/2.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"next_page":"/api/posts/2.json","results":[]}`, string(more))
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"app.js", "styles.css", "logo.svg"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}
