package post

import (
	"strings"
)

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 200

// CountWords counts whitespace-separated words in every heading and body fragment.
func CountWords(blocks []ContentBlock) int {
	words := 0
	for _, b := range blocks {
		words += len(strings.Fields(b.Heading))
		for _, f := range b.Body {
			words += len(strings.Fields(f.Text))
		}
	}
	return words
}

// EstimateReadingTime returns the reading time in whole minutes, rounded up.
func EstimateReadingTime(blocks []ContentBlock) int {
	words := CountWords(blocks)
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
