package tui

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"Cardiology", 20, "Cardiology"},
		{"Cardiology", 6, "Card.."},
		{"abc", 2, "abc"},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.width); got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	bar := progressBar(50, 10)
	if utf8.RuneCountInString(bar) != 10 {
		t.Fatalf("expected 10 cells, got %q", bar)
	}
	if strings.Count(bar, "█") != 5 {
		t.Errorf("expected 5 filled cells, got %q", bar)
	}
	if strings.Count(progressBar(150, 4), "█") != 4 {
		t.Errorf("percent above 100 should fill the bar")
	}
	if strings.Count(progressBar(-3, 4), "░") != 4 {
		t.Errorf("negative percent should leave the bar empty")
	}
}

func TestMarqueeText(t *testing.T) {
	if got := marqueeText("short", 3, 10); got != "short" {
		t.Errorf("text that fits must not scroll, got %q", got)
	}
	text := "Pharmacology Block"
	if got := marqueeText(text, 0, 5); got != "Pharm" {
		t.Errorf("offset 0 got %q", got)
	}
	if got := marqueeText(text, 1, 5); got != "harma" {
		t.Errorf("offset 1 got %q", got)
	}
	// Offsets wrap around the padded loop.
	if a, b := marqueeText(text, 2, 5), marqueeText(text, 2+len(text)+4, 5); a != b {
		t.Errorf("expected wrap, got %q and %q", a, b)
	}
}
