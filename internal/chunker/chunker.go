// Package chunker splits text into segments small enough for the
// translation provider's per-document size limit.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxBytes stays under the provider's 10,000 byte document limit,
// leaving headroom for request framing.
const DefaultMaxBytes = 9500

// Split breaks text into segments of at most maxBytes bytes. Segments
// break at sentence ends where possible, then at whitespace, and never
// inside a UTF-8 rune. The concatenation of the segments equals the
// input.
func Split(text string, maxBytes int) []string {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if text == "" {
		return nil
	}
	if len(text) <= maxBytes {
		return []string{text}
	}

	var segments []string
	for len(text) > maxBytes {
		cut := breakpoint(text, maxBytes)
		segments = append(segments, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		segments = append(segments, text)
	}
	return segments
}

// breakpoint picks the byte offset to cut at, at most limit.
func breakpoint(text string, limit int) int {
	window := text[:limit]

	// Prefer the end of a sentence within the window.
	if i := strings.LastIndexAny(window, ".!?"); i > 0 {
		return i + 1
	}
	// Fall back to the last whitespace.
	if i := strings.LastIndexAny(window, " \t\n"); i > 0 {
		return i + 1
	}
	// No natural break: cut at the limit, backing off a partial rune.
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return cut
}
