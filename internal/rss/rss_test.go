package rss

import (
	"testing"
	"time"

	"spacetraveling/internal/post"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParsesAsRSS(t *testing.T) {
	published := time.Date(2021, 3, 15, 19, 25, 0, 0, time.UTC)
	now := time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)
	feed := Build("spacetraveling", "https://blog.example.com/", "Blog", []post.Summary{
		{UID: "como-utilizar-hooks", Title: "Como utilizar Hooks", Subtitle: "Pensando em sincronização", PublishedAt: &published},
		{UID: "sem-data", Title: "Sem data"},
	}, now)

	out, err := feed.Marshal()
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(string(out))
	require.NoError(t, err)
	assert.Equal(t, "rss", parsed.FeedType)
	assert.Equal(t, "spacetraveling", parsed.Title)
	require.Len(t, parsed.Items, 2)

	first := parsed.Items[0]
	assert.Equal(t, "Como utilizar Hooks", first.Title)
	assert.Equal(t, "https://blog.example.com/post/como-utilizar-hooks", first.Link)
	assert.Equal(t, "https://blog.example.com/post/como-utilizar-hooks", first.GUID)
	require.NotNil(t, first.PublishedParsed)
	assert.True(t, published.Equal(*first.PublishedParsed))
	assert.Nil(t, parsed.Items[1].PublishedParsed)
}
