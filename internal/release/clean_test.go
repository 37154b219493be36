package release

import (
	"strings"
	"testing"
)

func TestCleanTitleParsesSceneReleaseName(t *testing.T) {
	cleaner := NewCleaner(GrammarParser{})
	title, year := cleaner.CleanTitle("The.Matrix.1999.1080p.BluRay.x264-GROUP")
	if title != "The Matrix" {
		t.Fatalf("expected %q, got %q", "The Matrix", title)
	}
	if year != 1999 {
		t.Fatalf("expected year=1999, got %d", year)
	}
}

func TestCleanTitleEmptyInput(t *testing.T) {
	cleaner := NewCleaner(GrammarParser{})
	title, year := cleaner.CleanTitle("   ")
	if title != "" || year != 0 {
		t.Fatalf("expected empty result, got %q / %d", title, year)
	}
}

func TestHeuristicParserStripsReleaseNoise(t *testing.T) {
	title, year, ok := (HeuristicParser{}).Parse("Breaking.Bad.S01E01.720p.HDTV.REPACK")
	if !ok {
		t.Fatalf("expected ok")
	}
	if title != "Breaking Bad" {
		t.Fatalf("expected %q, got %q", "Breaking Bad", title)
	}
	if year != 0 {
		t.Fatalf("expected no year, got %d", year)
	}
}

func TestHeuristicParserExtractsYear(t *testing.T) {
	title, year, ok := (HeuristicParser{}).Parse("Inception (2010) 1080p WEB-DL")
	if !ok {
		t.Fatalf("expected ok")
	}
	if title != "Inception" {
		t.Fatalf("expected %q, got %q", "Inception", title)
	}
	if year != 2010 {
		t.Fatalf("expected year=2010, got %d", year)
	}
}

type failingParser struct{ panic bool }

func (p failingParser) Parse(string) (string, int, bool) {
	if p.panic {
		panic("parser blew up")
	}
	return "", 0, false
}

func TestCleanTitleRecoversFromParserPanic(t *testing.T) {
	cleaner := NewCleaner(failingParser{panic: true})
	raw := strings.Repeat("x", 80)
	title, year := cleaner.CleanTitle(raw)
	if title != raw[:50] {
		t.Fatalf("expected 50-char prefix, got %q", title)
	}
	if year != 0 {
		t.Fatalf("expected year=0, got %d", year)
	}
}

func TestCleanTitleTokenFallback(t *testing.T) {
	// A title made only of quality and release tags defeats both parsers;
	// the token fallback keeps the first four words.
	cleaner := NewCleaner(failingParser{})
	title, _ := cleaner.CleanTitle("1080p REPACK WEBRIP PROPER EXTENDED UNRATED")
	tokens := strings.Fields(title)
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d (%q)", len(tokens), title)
	}
}

func TestCleanTitleConcurrentUse(t *testing.T) {
	cleaner := NewCleaner(GrammarParser{})
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				cleaner.CleanTitle("The.Expanse.S03.Complete.1080p.WEB-DL")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
