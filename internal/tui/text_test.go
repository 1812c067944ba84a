package tui

import (
	"strings"
	"testing"
)

func TestFitLines(t *testing.T) {
	got := fitLines("ab\ncdef\ng", 4, 2)
	if got != "ab  \ncdef" {
		t.Fatalf("unexpected clip: %q", got)
	}
	got = fitLines("ab", 3, 3)
	if got != "ab \n   \n   " {
		t.Fatalf("unexpected fill: %q", got)
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("expected short line unchanged, got %q", got)
	}
	if got := truncateLine("abcdef", 2); got != "ab" {
		t.Fatalf("unexpected narrow truncation: %q", got)
	}
}

func TestPadLines(t *testing.T) {
	got := padLines("a\nbb", 3)
	if strings.Split(got, "\n")[0] != "a  " {
		t.Fatalf("unexpected padding: %q", got)
	}
}
