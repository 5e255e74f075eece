package post

import (
	"strings"
	"testing"
	"time"

	"spacetraveling/internal/richtext"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("palavra ", n))
}

func TestEstimateReadingTime(t *testing.T) {
	tests := []struct {
		name   string
		blocks []ContentBlock
		want   int
	}{
		{name: "empty", blocks: nil, want: 0},
		{name: "whitespace_only", blocks: []ContentBlock{{Heading: "   ", Body: []richtext.Fragment{{Text: "\n\t"}}}}, want: 0},
		{name: "one_word", blocks: []ContentBlock{{Heading: "Oi"}}, want: 1},
		{
			name: "exactly_200_across_headings_and_bodies",
			blocks: []ContentBlock{
				{Heading: words(10), Body: []richtext.Fragment{{Text: words(90)}}},
				{Heading: words(50), Body: []richtext.Fragment{{Text: words(25)}, {Text: words(25)}}},
			},
			want: 1,
		},
		{
			name: "201_words",
			blocks: []ContentBlock{
				{Heading: words(1), Body: []richtext.Fragment{{Text: words(200)}}},
			},
			want: 2,
		},
		{name: "irregular_spacing", blocks: []ContentBlock{{Body: []richtext.Fragment{{Text: "  um\tdois \n três  "}}}}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateReadingTime(tt.blocks))
		})
	}
}

func TestEstimateReadingTimeIsPure(t *testing.T) {
	blocks := []ContentBlock{{Heading: words(3), Body: []richtext.Fragment{{Text: words(450)}}}}
	first := EstimateReadingTime(blocks)
	assert.Equal(t, first, EstimateReadingTime(blocks))
	assert.Equal(t, 3, first)
	assert.Equal(t, 453, CountWords(blocks))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "15 mar 2021", FormatDate(time.Date(2021, 3, 15, 19, 25, 0, 0, time.UTC)))
	assert.Equal(t, "01 dez 1999", FormatDate(time.Date(1999, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDetailSummary(t *testing.T) {
	now := time.Now()
	d := Detail{UID: "u", Title: "T", Subtitle: "S", Author: "A", PublishedAt: &now, BannerURL: "b"}
	assert.Equal(t, Summary{UID: "u", Title: "T", Subtitle: "S", Author: "A", PublishedAt: &now}, d.Summary())
}
