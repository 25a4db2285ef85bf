package ollama

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

func TestTranslationPromptKeepsLongTextWhole(t *testing.T) {
	text := strings.Repeat("Prenez un comprimé chaque matin. ", 200)
	prompt := buildTranslationPrompt(text, domain.TranslationContext{TargetLanguage: "fr"})

	if !strings.HasSuffix(prompt, "TEXT:\n"+text+"\n") {
		t.Fatalf("text to translate was cut: prompt has %d bytes, text has %d", len(prompt), len(text))
	}
}

func TestTranslationPromptTruncatesContextOnRuneBoundary(t *testing.T) {
	snippet := strings.Repeat("é", maxContextSnippet)
	prompt := buildTranslationPrompt("short", domain.TranslationContext{TargetLanguage: "fr", SegmentText: snippet})

	if !utf8.ValidString(prompt) {
		t.Fatal("prompt contains a split multi-byte rune")
	}
	if strings.Contains(prompt, snippet) {
		t.Fatal("oversized context snippet should be shortened")
	}
	if !strings.Contains(prompt, "TEXT:\nshort\n") {
		t.Fatalf("text missing from prompt:\n%s", prompt)
	}
}

func TestTruncateContext(t *testing.T) {
	if got := truncateContext("brief"); got != "brief" {
		t.Fatalf("short context changed: %q", got)
	}
	long := "a" + strings.Repeat("ü", maxContextSnippet)
	got := truncateContext(long)
	if !utf8.ValidString(got) || len(got) > maxContextSnippet+len("…") {
		t.Fatalf("unexpected truncation: valid=%v len=%d", utf8.ValidString(got), len(got))
	}
}

func TestAnalysisPromptKeepsBothTexts(t *testing.T) {
	source := strings.Repeat("Store below 25 degrees. ", 300)
	target := strings.Repeat("Unter 25 Grad lagern. ", 300)
	prompt := buildAnalysisPrompt(source, target)
	if !strings.Contains(prompt, source) || !strings.Contains(prompt, target) {
		t.Fatal("analysis prompt must carry full source and translation")
	}
}
