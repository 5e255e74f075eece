package memory

import (
	"context"
	"errors"
	"testing"

	"spacetraveling/internal/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination(t *testing.T) {
	s := New(Sample(), 2)
	ctx := context.Background()

	first, err := s.GetPage(ctx, content.PostType, content.PageOptions{})
	require.NoError(t, err)
	require.Len(t, first.Results, 2)
	assert.Equal(t, "como-utilizar-hooks", first.Results[0].UID)
	assert.Equal(t, Cursor(2, 2), first.NextPage)

	second, err := s.FetchPage(ctx, first.NextPage)
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	assert.Equal(t, "mapas-com-react-usando-leaflet", second.Results[0].UID)
	assert.Empty(t, second.NextPage)
}

func TestPageSizeOverride(t *testing.T) {
	s := New(Sample(), 2)
	page, err := s.GetPage(context.Background(), content.PostType, content.PageOptions{PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
	assert.Equal(t, Cursor(2, 1), page.NextPage)
}

func TestFetchPageInvalidCursor(t *testing.T) {
	s := New(Sample(), 2)
	for _, cursor := range []string{"https://example.com/?page=2", "memory:?page=zero", "::"} {
		_, err := s.FetchPage(context.Background(), cursor)
		assert.True(t, errors.Is(err, content.ErrTransport), cursor)
	}
}

func TestGetByUID(t *testing.T) {
	s := New(Sample(), 2)

	d, err := s.GetByUID(context.Background(), content.PostType, "criando-um-app-cra-do-zero")
	require.NoError(t, err)
	assert.Equal(t, "Danilo Vieira", d.Author)

	_, err = s.GetByUID(context.Background(), content.PostType, "nope")
	assert.True(t, errors.Is(err, content.ErrNotFound))
}

func TestCancelledContext(t *testing.T) {
	s := New(Sample(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetPage(ctx, content.PostType, content.PageOptions{})
	assert.True(t, errors.Is(err, content.ErrTransport))
}
