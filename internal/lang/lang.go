// Package lang enumerates the editor's syntax modes and the per-language
// facts other packages need: file extensions, formatter parsers and
// comment syntax.
package lang

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language is the selector tag identifying a syntax mode.
type Language string

const (
	HTML       Language = "html"
	CSS        Language = "css"
	JavaScript Language = "javascript"
	Python     Language = "python"
	TypeScript Language = "typescript"
	Java       Language = "java"
	CSharp     Language = "csharp"
	PHP        Language = "php"
)

// All lists the supported languages in selector order.
var All = []Language{HTML, CSS, JavaScript, Python, TypeScript, Java, CSharp, PHP}

// AcceptedExtensions is the filter applied by the open-file dialog.
var AcceptedExtensions = []string{
	".html", ".css", ".js", ".txt", ".json", ".xml", ".md", ".py", ".java", ".cpp", ".c",
	".php", ".rb", ".go", ".ts", ".jsx", ".tsx", ".vue", ".scss", ".sass", ".less", ".styl",
}

var extensions = map[Language]string{
	HTML:       "html",
	CSS:        "css",
	JavaScript: "js",
	Python:     "py",
	TypeScript: "ts",
	Java:       "java",
	CSharp:     "cs",
	PHP:        "php",
}

var byExtension = map[string]Language{
	".html": HTML, ".htm": HTML, ".vue": HTML, ".xml": HTML,
	".css": CSS, ".scss": CSS, ".sass": CSS, ".less": CSS, ".styl": CSS,
	".js": JavaScript, ".jsx": JavaScript, ".mjs": JavaScript, ".cjs": JavaScript, ".json": JavaScript,
	".ts": TypeScript, ".tsx": TypeScript,
	".py":   Python,
	".java": Java,
	".cs":   CSharp,
	".php":  PHP,
}

// Parse resolves a selector tag, ignoring case and surrounding space.
func Parse(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if l == "js" {
		return JavaScript, nil
	}
	for _, k := range All {
		if k == l {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// Extension returns the file extension (without dot) used when saving.
func (l Language) Extension() string {
	if ext, ok := extensions[l]; ok {
		return ext
	}
	return "txt"
}

// FromPath guesses the language of a file from its extension. Unknown
// extensions map to HTML, the editor's default mode.
func FromPath(path string) Language {
	if l, ok := byExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return l
	}
	return HTML
}

// FormatParser returns the formatter parser name for l. Only html, css and
// javascript can be formatted.
func (l Language) FormatParser() (string, bool) {
	switch l {
	case HTML:
		return "html", true
	case CSS:
		return "css", true
	case JavaScript:
		return "babel", true
	}
	return "", false
}

// Next cycles through All, wrapping at the end.
func (l Language) Next() Language {
	for i, k := range All {
		if k == l {
			return All[(i+1)%len(All)]
		}
	}
	return All[0]
}

// Upper is the display form used in prompts and status lines.
func (l Language) Upper() string { return strings.ToUpper(string(l)) }

func (l Language) String() string { return string(l) }

// CommentSyntax describes how a language comments out a line.
type CommentSyntax struct {
	Open  string
	Close string // empty for line comments
}

// Comment returns the comment syntax for l.
func (l Language) Comment() CommentSyntax {
	switch l {
	case HTML:
		return CommentSyntax{Open: "<!--", Close: "-->"}
	case CSS:
		return CommentSyntax{Open: "/*", Close: "*/"}
	case Python:
		return CommentSyntax{Open: "#"}
	default:
		return CommentSyntax{Open: "//"}
	}
}

// ToggleLine comments line out, or uncomments it when it is already
// commented. Leading indentation is preserved.
func (c CommentSyntax) ToggleLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	if trimmed == "" {
		return line
	}
	if strings.HasPrefix(trimmed, c.Open) && (c.Close == "" || strings.HasSuffix(trimmed, c.Close)) {
		body := strings.TrimPrefix(trimmed, c.Open)
		if c.Close != "" {
			body = strings.TrimSuffix(body, c.Close)
			body = strings.TrimSuffix(body, " ")
		}
		return indent + strings.TrimPrefix(body, " ")
	}
	if c.Close == "" {
		return indent + c.Open + " " + trimmed
	}
	return indent + c.Open + " " + trimmed + " " + c.Close
}
