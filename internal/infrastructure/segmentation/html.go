package segmentation

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var htmlTag = regexp.MustCompile(`(?i)<(html|body|p|div|br|table|h[1-6]|span|a|td)\b`)

// looksLikeHTML reports whether the source is an HTML email body rather than
// plain text.
func looksLikeHTML(text string) bool {
	return htmlTag.MatchString(text)
}

// htmlToText flattens an HTML email into plain text. Block elements become
// paragraph breaks, <br> becomes a line break, and script/style/head content
// is dropped. A <title> is emitted as a "Subject:" line when present.
func htmlToText(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	skip := 0
	inTitle := false

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; keep what was read so far.
			return strings.TrimSpace(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				if tt == html.StartTagToken {
					skip++
				}
			case atom.Title:
				inTitle = tt == html.StartTagToken
				if inTitle {
					b.WriteString("Subject: ")
				}
			case atom.Br:
				b.WriteString("\n")
			default:
				if isBlock(tok.DataAtom) {
					b.WriteString("\n\n")
				}
			}
		case html.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				if skip > 0 {
					skip--
				}
			case atom.Title:
				inTitle = false
				b.WriteString("\n\n")
			default:
				if isBlock(tok.DataAtom) {
					b.WriteString("\n\n")
				}
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := string(z.Text())
			if inTitle {
				text = strings.Join(strings.Fields(text), " ")
			}
			b.WriteString(text)
		}
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Table, atom.Tr, atom.Li, atom.Ul, atom.Ol,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Section, atom.Header, atom.Footer:
		return true
	}
	return false
}
