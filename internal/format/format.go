// Package format pretty-prints document text. Only html, css and
// javascript are formatted; everything else is rejected before any
// formatter runs.
package format

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yosssi/gohtml"

	"codepad/internal/lang"
	"codepad/internal/proc"
)

var (
	ErrEmpty       = errors.New("nothing to format")
	ErrUnsupported = errors.New("formatting not supported")
	// ErrUnavailable means this formatter cannot run here; a Chain moves on.
	ErrUnavailable = errors.New("formatter unavailable")
)

// LargeThreshold is the size in characters above which formatting asks
// before replacing the document.
const LargeThreshold = 1000

// Formatter formats text written in a supported language.
type Formatter interface {
	Format(ctx context.Context, text string, l lang.Language) (string, error)
}

// Check validates text and language and returns the parser name.
func Check(text string, l lang.Language) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	parser, ok := l.FormatParser()
	if !ok {
		return "", fmt.Errorf("%w for %s", ErrUnsupported, l.Upper())
	}
	return parser, nil
}

// NeedsConfirm reports whether formatting text should be confirmed first.
func NeedsConfirm(text string) bool {
	return len([]rune(text)) > LargeThreshold
}

// Format runs Check and then f.
func Format(ctx context.Context, f Formatter, text string, l lang.Language) (string, error) {
	if _, err := Check(text, l); err != nil {
		return "", err
	}
	return f.Format(ctx, text, l)
}

// Prettier shells out to the prettier CLI, reading the document on stdin.
type Prettier struct {
	// Command is the command line prefix, e.g. "prettier" or "npx prettier".
	Command string
}

func (p Prettier) Format(ctx context.Context, text string, l lang.Language) (string, error) {
	parser, err := Check(text, l)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(p.Command)
	if len(fields) == 0 {
		fields = []string{"prettier"}
	}
	args := append(fields[1:], "--parser", parser, "--stdin-filepath", "code."+l.Extension())
	out, err := proc.Run(ctx, fields[0], args, text)
	if errors.Is(err, proc.ErrNotFound) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return "", fmt.Errorf("prettier: %w", err)
	}
	return string(out), nil
}

// Builtin formats html in-process. It has no css or javascript printer
// and reports ErrUnavailable for them.
type Builtin struct{}

func (Builtin) Format(_ context.Context, text string, l lang.Language) (string, error) {
	if _, err := Check(text, l); err != nil {
		return "", err
	}
	if l != lang.HTML {
		return "", fmt.Errorf("%w: no built-in %s printer", ErrUnavailable, l)
	}
	out := gohtml.Format(text)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

// Chain tries formatters in order until one does not report ErrUnavailable.
type Chain []Formatter

func (c Chain) Format(ctx context.Context, text string, l lang.Language) (string, error) {
	err := fmt.Errorf("%w: no formatter configured", ErrUnavailable)
	for _, f := range c {
		var out string
		out, err = f.Format(ctx, text, l)
		if !errors.Is(err, ErrUnavailable) {
			return out, err
		}
	}
	return "", err
}

// Default prefers prettier and falls back to the built-in html printer.
func Default(prettierCmd string) Formatter {
	return Chain{Prettier{Command: prettierCmd}, Builtin{}}
}
