// Package content adapts the content API to the blog's post types.
package content

import (
	"context"

	"spacetraveling/internal/post"
)

// PostType is the repository document type holding blog posts.
const PostType = "post"

// PageOptions narrows a listing query.
type PageOptions struct {
	FetchFields []string
	PageSize    int
}

// Source is anything that can serve posts. FetchPage follows a cursor
// returned in a previous Page.
type Source interface {
	GetPage(ctx context.Context, contentType string, opts PageOptions) (post.Page, error)
	GetByUID(ctx context.Context, contentType, uid string) (post.Detail, error)
	FetchPage(ctx context.Context, cursor string) (post.Page, error)
}

// SummaryFields are the fields the listing needs.
func SummaryFields(contentType string) []string {
	return []string{contentType + ".title", contentType + ".subtitle", contentType + ".author"}
}
