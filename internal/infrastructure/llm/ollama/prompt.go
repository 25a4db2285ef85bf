package ollama

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

// maxContextSnippet bounds the surrounding-segment context in bytes. The text
// to translate or review is always sent in full.
const maxContextSnippet = 4000

func buildTranslationPrompt(text string, tc domain.TranslationContext) string {
	var b strings.Builder
	b.WriteString(`You are a medical, legal and regulatory content translator.
Translate only the TEXT below into the target language.
Approved translation memory spans are fixed: reuse their wording and do not translate them again.
Return strict JSON object with keys:
translation (string), accuracy (number from 0 to 1), brandConsistency (number from 0 to 1), culturalFit (number from 0 to 1).
No markdown, no extra keys.

`)
	fmt.Fprintf(&b, "Target language: %s\n", tc.TargetLanguage)
	if tc.Domain != "" {
		fmt.Fprintf(&b, "Therapeutic area: %s\n", tc.Domain)
	}
	if tc.SegmentType != "" {
		fmt.Fprintf(&b, "Segment type: %s\n", tc.SegmentType)
	}

	if len(tc.TMSpans) > 0 {
		b.WriteString("\nTranslation memory:\n")
		for idx, span := range tc.TMSpans {
			fmt.Fprintf(&b, "[%d] %s match=%.0f\n    source: %s\n    target: %s\n",
				idx+1, span.Type, span.MatchScore, span.SourceText, span.TargetText)
		}
	}
	if len(tc.Glossary) > 0 {
		b.WriteString("\nGlossary (mandatory terminology):\n")
		for _, term := range tc.Glossary {
			if term.Note != "" {
				fmt.Fprintf(&b, "- %s => %s (%s)\n", term.Source, term.Target, term.Note)
				continue
			}
			fmt.Fprintf(&b, "- %s => %s\n", term.Source, term.Target)
		}
	}
	if tc.SegmentText != "" && tc.SegmentText != text {
		fmt.Fprintf(&b, "\nFull segment for context (do not translate):\n%s\n", truncateContext(tc.SegmentText))
	}

	fmt.Fprintf(&b, "\nTEXT:\n%s\n", text)
	return b.String()
}

func buildAnalysisPrompt(sourceText, translatedText string) string {
	return fmt.Sprintf(`You review translations of regulated healthcare content.
Compare the translation with its source.
Return strict JSON object with keys:
accuracyScore (number from 0 to 100), qualityScore (number from 0 to 100), culturalScore (number from 0 to 100), accuracyIssues (array of strings).
No markdown, no extra keys.

Source:
%s

Translation:
%s
`, sourceText, translatedText)
}

func truncateContext(text string) string {
	if len(text) <= maxContextSnippet {
		return text
	}
	cut := maxContextSnippet
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
