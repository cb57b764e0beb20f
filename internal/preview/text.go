package preview

import (
	"strings"
	"sync"

	"golang.org/x/net/html"
)

var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "body": true,
	"div": true, "dl": true, "dt": true, "dd": true, "fieldset": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true, "tr": true,
	"ul": true,
}

// Plaintext returns the visible text of an HTML document: scripts, styles
// and the head are dropped, block elements start new lines.
func Plaintext(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tidy(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && tt == html.StartTagToken {
				skip++
				continue
			}
			switch {
			case tag == "br":
				b.WriteString("\n")
			case tag == "li":
				b.WriteString("\n• ")
			case tag == "td" || tag == "th":
				b.WriteString(" ")
			case blockTags[tag]:
				b.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if blockTags[tag] {
				b.WriteString("\n")
			}
		case html.TextToken:
			if skip == 0 {
				// Words of adjacent inline elements stay apart; tidy collapses the rest.
				b.WriteString(" ")
				b.WriteString(strings.Join(strings.Fields(string(z.Text())), " "))
				b.WriteString(" ")
			}
		}
	}
}

// tidy trims lines and collapses runs of blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, ln)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// TextPane is a terminal preview surface holding the plain text of the last
// written document.
type TextPane struct {
	mu      sync.Mutex
	text    string
	version uint64
}

func (p *TextPane) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = ""
	p.version++
	return nil
}

func (p *TextPane) Write(doc string) error {
	text := Plaintext(doc)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
	p.version++
	return nil
}

// Text returns the current content and a version that changes on every
// Reset or Write.
func (p *TextPane) Text() (string, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text, p.version
}
