// Package files loads documents from disk and saves them as code.<ext>.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"codepad/internal/lang"
)

var (
	ErrEmpty    = errors.New("nothing to save")
	ErrBinary   = errors.New("not a text file")
	ErrTooLarge = errors.New("file too large")
)

// MaxOpenBytes caps what Open reads into the editor.
var MaxOpenBytes int64 = 8 << 20

// Opened is a file read into memory.
type Opened struct {
	Path     string
	Name     string
	Text     string
	Language lang.Language
}

// Open reads a text file and guesses its language from the extension.
func Open(path string) (Opened, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Opened{}, fmt.Errorf("open %s: %w", path, err)
	}
	if fi.IsDir() {
		return Opened{}, fmt.Errorf("open %s: is a directory", path)
	}
	if fi.Size() > MaxOpenBytes {
		return Opened{}, fmt.Errorf("open %s: %w (%d bytes)", path, ErrTooLarge, fi.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Opened{}, fmt.Errorf("open %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return Opened{}, fmt.Errorf("open %s: %w", path, ErrBinary)
	}
	return Opened{
		Path:     path,
		Name:     filepath.Base(path),
		Text:     string(data),
		Language: lang.FromPath(path),
	}, nil
}

// FileName is the name a document of language l is saved under.
func FileName(l lang.Language) string {
	return "code." + l.Extension()
}

// Save writes text into dir as code.<ext>, replacing an existing file.
func Save(dir, text string, l lang.Language) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(l))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// Stats counts lines and characters the way the notifications report them.
type Stats struct {
	Lines int
	Chars int
}

func Count(text string) Stats {
	return Stats{
		Lines: strings.Count(text, "\n") + 1,
		Chars: utf8.RuneCountInString(text),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d lines (%d characters)", s.Lines, s.Chars)
}
