// Package parsers extracts normalized flight records from airline result-page
// markup and from fare-search scraper output. Each airline source gets its own
// parser; all of them emit the uniform models.Flight shape.
package parsers

import "regexp"

// Window is a bounded slice of markup surrounding one flight-number match,
// used to scope the field extraction that follows.
type Window struct {
	MatchedID string // first capture group of the anchor pattern
	Text      string
}

// ExtractWindows returns one window per match of the anchor pattern. The
// window spans `before` characters behind the match start and `after`
// characters past it, clamped to the markup bounds. The look-behind is
// deliberately smaller than the look-ahead: price, time and duration fields
// appear after the flight number in every source we scrape.
//
// Duplicate flight numbers yield duplicate windows here; callers dedupe on
// MatchedID, first occurrence wins.
func ExtractWindows(markup string, anchor *regexp.Regexp, before, after int) []Window {
	matches := anchor.FindAllStringSubmatchIndex(markup, -1)
	if len(matches) == 0 {
		return nil
	}

	windows := make([]Window, 0, len(matches))
	for _, m := range matches {
		start := m[0] - before
		if start < 0 {
			start = 0
		}
		end := m[0] + after
		if end > len(markup) {
			end = len(markup)
		}

		id := ""
		if len(m) >= 4 && m[2] >= 0 {
			id = markup[m[2]:m[3]]
		}

		windows = append(windows, Window{
			MatchedID: id,
			Text:      markup[start:end],
		})
	}
	return windows
}
