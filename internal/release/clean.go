package release

import (
	"regexp"
	"strings"

	"github.com/moistari/rls"
)

// Parser extracts a bare title and optional year from a scene-style release
// name. Implementations must be safe for concurrent use.
type Parser interface {
	Parse(raw string) (title string, year int, ok bool)
}

// GrammarParser parses release names with the rls release-name grammar.
type GrammarParser struct{}

func (GrammarParser) Parse(raw string) (string, int, bool) {
	parsed := rls.ParseString(raw)
	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		return "", 0, false
	}
	return title, parsed.Year, true
}

// HeuristicParser strips known release markers with regexes. It is the
// fallback when no grammar parser is available or the grammar yields nothing.
type HeuristicParser struct{}

var (
	yearPattern          = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	seasonEpisodePattern = regexp.MustCompile(`(?i)\bS\d{1,2}\s*E\d{1,3}\b|\bSeason\s*\d+\b|\bEpisode\s*\d+\b`)
	releaseTagPattern    = regexp.MustCompile(`(?i)\b(REPACK|PROPER|EXTENDED|DIRECTORS?\s*CUT|UNRATED|LIMITED)\b`)
	qualityTagPattern    = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|480p|4K|UHD|HDTV|WEBRIP|WEB[\s.-]?DL|BLU[\s.-]?RAY|BLURAY|DVDRIP)\b`)
	punctuationPattern   = regexp.MustCompile(`[._\-\[\](){}:;,!?'"+|]`)
)

func (HeuristicParser) Parse(raw string) (string, int, bool) {
	value := punctuationPattern.ReplaceAllString(raw, " ")

	year := 0
	if match := yearPattern.FindString(value); match != "" {
		year = atoiOrZero(match)
		value = yearPattern.ReplaceAllString(value, " ")
	}

	value = seasonEpisodePattern.ReplaceAllString(value, " ")
	value = releaseTagPattern.ReplaceAllString(value, " ")
	value = qualityTagPattern.ReplaceAllString(value, " ")

	title := collapseWhitespace(value)
	if title == "" {
		return "", year, false
	}
	return title, year, true
}

// Cleaner turns a raw release name into a search-engine-friendly title plus
// an optional year. The fallback chain never produces an empty title unless
// the input itself is empty: structured parse, then regex stripping, then the
// first four tokens of the punctuation-stripped input, then the first 50
// characters of the raw input verbatim.
type Cleaner struct {
	parser Parser
}

// NewCleaner builds a Cleaner around the given structured parser. A nil
// parser selects the regex heuristic for the first tier as well.
func NewCleaner(parser Parser) *Cleaner {
	if parser == nil {
		parser = HeuristicParser{}
	}
	return &Cleaner{parser: parser}
}

func (c *Cleaner) CleanTitle(raw string) (title string, year int) {
	defer func() {
		if recovered := recover(); recovered != nil {
			title = truncateRunes(raw, 50)
			year = 0
		}
	}()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", 0
	}

	if title, year, ok := c.parser.Parse(raw); ok {
		return title, year
	}
	if title, year, ok := (HeuristicParser{}).Parse(raw); ok {
		return title, year
	}

	stripped := collapseWhitespace(punctuationPattern.ReplaceAllString(raw, " "))
	if tokens := strings.Fields(stripped); len(tokens) > 0 {
		if len(tokens) > 4 {
			tokens = tokens[:4]
		}
		return strings.Join(tokens, " "), 0
	}

	return truncateRunes(raw, 50), 0
}

func collapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func atoiOrZero(raw string) int {
	value := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0
		}
		value = value*10 + int(r-'0')
	}
	return value
}
