package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"spacetraveling/internal/content"
	"spacetraveling/internal/content/memory"
	"spacetraveling/internal/post"
	"spacetraveling/internal/render"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// missingSource lists every sample post but fails lookups for some.
type missingSource struct {
	*memory.Source
	missing map[string]error
}

func (m *missingSource) GetByUID(ctx context.Context, contentType, uid string) (post.Detail, error) {
	if err, ok := m.missing[uid]; ok {
		return post.Detail{}, err
	}
	return m.Source.GetByUID(ctx, contentType, uid)
}

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New("spacetraveling")
	require.NoError(t, err)
	return r
}

func quietOptions(pageSize int) Options {
	return Options{PageSize: pageSize, Logger: log.New(io.Discard, "", 0)}
}

func readPage(t *testing.T, path string) render.PageJSON {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var page render.PageJSON
	require.NoError(t, json.Unmarshal(data, &page))
	return page
}

func TestRun(t *testing.T) {
	out := t.TempDir()
	source := memory.New(memory.Sample(), 2)

	stats, err := Run(context.Background(), source, newRenderer(t), out, quietOptions(2))
	require.NoError(t, err)
	assert.Equal(t, Stats{Pages: 2, Posts: 3}, stats)

	first := readPage(t, filepath.Join(out, "api", "posts", "1.json"))
	require.NotNil(t, first.NextPage)
	assert.Equal(t, "/api/posts/2.json", *first.NextPage)
	assert.Len(t, first.Results, 2)

	second := readPage(t, filepath.Join(out, "api", "posts", "2.json"))
	assert.Nil(t, second.NextPage)
	require.Len(t, second.Results, 1)
	assert.Equal(t, "mapas-com-react-usando-leaflet", second.Results[0].UID)

	f, err := os.Open(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find("#posts a.post").Length())
	next, _ := doc.Find("#load-more").Attr("data-next")
	assert.Equal(t, "/api/posts/2.json", next)

	for _, uid := range []string{"como-utilizar-hooks", "criando-um-app-cra-do-zero", "mapas-com-react-usando-leaflet"} {
		assert.FileExists(t, filepath.Join(out, "post", uid, "index.html"))
	}
	assert.FileExists(t, filepath.Join(out, "404.html"))
	assert.FileExists(t, filepath.Join(out, "static", "app.js"))
	assert.FileExists(t, filepath.Join(out, "static", "styles.css"))
}

func TestRunSinglePage(t *testing.T) {
	out := t.TempDir()
	stats, err := Run(context.Background(), memory.New(memory.Sample(), 10), newRenderer(t), out, quietOptions(10))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pages)

	page := readPage(t, filepath.Join(out, "api", "posts", "1.json"))
	assert.Nil(t, page.NextPage)
	assert.NoFileExists(t, filepath.Join(out, "api", "posts", "2.json"))
}

func TestRunSkipsMissingPosts(t *testing.T) {
	out := t.TempDir()
	source := &missingSource{
		Source: memory.New(memory.Sample(), 5),
		missing: map[string]error{
			"criando-um-app-cra-do-zero": &content.NotFoundError{ContentType: content.PostType, UID: "criando-um-app-cra-do-zero"},
		},
	}

	stats, err := Run(context.Background(), source, newRenderer(t), out, quietOptions(5))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Posts)
	assert.Equal(t, 1, stats.Skipped)
	assert.NoFileExists(t, filepath.Join(out, "post", "criando-um-app-cra-do-zero", "index.html"))
}

func TestRunAbortsOnTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	source := &missingSource{
		Source:  memory.New(memory.Sample(), 5),
		missing: map[string]error{"como-utilizar-hooks": &content.TransportError{Op: "get by uid", Err: cause}},
	}

	_, err := Run(context.Background(), source, newRenderer(t), t.TempDir(), quietOptions(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, content.ErrTransport)
	assert.ErrorIs(t, err, cause)
}

func TestRunSkipsUnsafeUIDs(t *testing.T) {
	out := t.TempDir()
	source := memory.New([]post.Detail{{UID: "../escape", Title: "x"}, {UID: "ok", Title: "ok"}}, 5)

	stats, err := Run(context.Background(), source, newRenderer(t), out, quietOptions(5))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Posts)
	assert.Equal(t, 1, stats.Skipped)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(out), "escape", "index.html"))
}
