package segmentation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

const (
	defaultMaxWords = 120
	maxTitleRunes   = 60
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// Segmenter splits source text into ordered pending segments: one per
// paragraph, with paragraphs longer than MaxWords packed into sentence runs.
type Segmenter struct {
	MaxWords int
}

func NewSegmenter(maxWords int) *Segmenter {
	if maxWords <= 0 {
		maxWords = defaultMaxWords
	}
	return &Segmenter{MaxWords: maxWords}
}

// Split accepts plain text or an HTML email body.
func (s *Segmenter) Split(text string) []domain.Segment {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if looksLikeHTML(text) {
		text = htmlToText(text)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := make([]string, 0, 8)
	for _, para := range paragraphBreak.Split(text, -1) {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		if domain.CountWords(para) <= s.MaxWords {
			pieces = append(pieces, para)
			continue
		}
		pieces = append(pieces, packSentences(splitSentences(para), s.MaxWords)...)
	}

	out := make([]domain.Segment, 0, len(pieces))
	bodyCount := 0
	for i, piece := range pieces {
		segmentType, content := detectType(piece, i == 0)
		if content == "" {
			continue
		}
		order := len(out) + 1
		title := titleFor(segmentType, content)
		if segmentType == domain.SegmentBody {
			bodyCount++
			title = fmt.Sprintf("Body %d", bodyCount)
		}
		out = append(out, domain.NewSegment(fmt.Sprintf("seg-%03d", order), order, title, segmentType, content))
	}
	return out
}

// splitSentences cuts after ., ! or ? when followed by whitespace and an
// uppercase letter, digit or opening quote.
func splitSentences(text string) []string {
	runes := []rune(text)
	out := make([]string, 0, 8)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !strings.ContainsRune(".!?", runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && strings.ContainsRune(`"')]`, runes[j]) {
			j++
		}
		if j >= len(runes) || !unicode.IsSpace(runes[j]) {
			continue
		}
		k := j
		for k < len(runes) && unicode.IsSpace(runes[k]) {
			k++
		}
		if k < len(runes) && !startsSentence(runes[k]) {
			continue
		}
		if sentence := strings.TrimSpace(string(runes[start:j])); sentence != "" {
			out = append(out, sentence)
		}
		start = k
		i = k - 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}

func startsSentence(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || strings.ContainsRune(`"'(“`, r)
}

// packSentences joins consecutive sentences while the run stays within
// maxWords. A sentence longer than maxWords is cut into word chunks.
func packSentences(sentences []string, maxWords int) []string {
	out := make([]string, 0, len(sentences))
	var current []string
	words := 0
	for _, sentence := range sentences {
		n := domain.CountWords(sentence)
		if n > maxWords {
			if words > 0 {
				out = append(out, strings.Join(current, " "))
				current, words = nil, 0
			}
			chunks := splitWords(sentence, maxWords)
			last := chunks[len(chunks)-1]
			out = append(out, chunks[:len(chunks)-1]...)
			current, words = []string{last}, domain.CountWords(last)
			continue
		}
		if words > 0 && words+n > maxWords {
			out = append(out, strings.Join(current, " "))
			current, words = nil, 0
		}
		current = append(current, sentence)
		words += n
	}
	if len(current) > 0 {
		out = append(out, strings.Join(current, " "))
	}
	return out
}

func splitWords(text string, maxWords int) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields)/maxWords+1)
	for len(fields) > maxWords {
		out = append(out, strings.Join(fields[:maxWords], " "))
		fields = fields[maxWords:]
	}
	return append(out, strings.Join(fields, " "))
}

var (
	greetingPrefixes = []string{"dear ", "hello", "hi ", "hi,", "greetings"}
	closingPrefixes  = []string{"sincerely", "best regards", "kind regards", "regards", "warm regards", "thank you", "thanks,"}
	ctaMarkers       = []string{"click here", "learn more", "visit ", "register", "sign up", "contact us", "call us", "request a", "download", "order now"}
	regulatoryMarker = []string{
		"important safety information", "adverse event", "adverse reaction", "side effect",
		"prescribing information", "boxed warning", "contraindicat", "indicated for", "report negative",
		"medwatch", "fda", "for healthcare professionals only",
	}
)

// detectType classifies a piece by its wording. Only the first piece can be
// a subject line; the "Subject:" label is stripped from its content.
func detectType(piece string, first bool) (domain.SegmentType, string) {
	lower := strings.ToLower(piece)
	if first && strings.HasPrefix(lower, "subject:") {
		return domain.SegmentSubject, strings.TrimSpace(piece[len("subject:"):])
	}
	switch {
	case hasAnyPrefix(lower, greetingPrefixes) && domain.CountWords(piece) <= 8:
		return domain.SegmentGreeting, piece
	case hasAnyPrefix(lower, closingPrefixes) && domain.CountWords(piece) <= 12:
		return domain.SegmentClosing, piece
	case containsAny(lower, regulatoryMarker):
		return domain.SegmentRegulatory, piece
	case containsAny(lower, ctaMarkers) && domain.CountWords(piece) <= 40:
		return domain.SegmentCTA, piece
	default:
		return domain.SegmentBody, piece
	}
}

func titleFor(segmentType domain.SegmentType, content string) string {
	switch segmentType {
	case domain.SegmentSubject:
		runes := []rune(content)
		if len(runes) > maxTitleRunes {
			return strings.TrimSpace(string(runes[:maxTitleRunes])) + "…"
		}
		return content
	case domain.SegmentGreeting:
		return "Greeting"
	case domain.SegmentCTA:
		return "Call to Action"
	case domain.SegmentRegulatory:
		return "Safety Information"
	case domain.SegmentClosing:
		return "Closing"
	default:
		return "Body"
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
