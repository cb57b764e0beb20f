// Package logx is the log sink shared by the commands: an append-only log
// file opened with a start banner, an optional echo to the terminal and an
// optional tee into a UI.
package logx

import (
    "fmt"
    "io"
    "log"
    "os"
    "path/filepath"
    "sync"
    "time"
)

// Logger is safe for concurrent use. The zero value discards everything.
type Logger struct {
    mu        sync.Mutex
    file      *os.File
    out       *log.Logger
    echo      io.Writer
    verbosity int
    tee       func(line string)
}

// Open appends to path (created with its directory if missing) and writes
// the start banner. An empty path logs nowhere but the echo writer.
// verbosity 0 keeps Infof out of echo, 1 echoes Infof, 2 also records Debugf.
func Open(path, name, version string, verbosity int, echo io.Writer) (*Logger, error) {
    l := &Logger{verbosity: verbosity}
    if verbosity > 0 {
        l.echo = echo
    }
    if path == "" {
        return l, nil
    }
    if dir := filepath.Dir(path); dir != "." && dir != "" {
        _ = os.MkdirAll(dir, 0o755)
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
    if err != nil {
        return l, fmt.Errorf("open log file: %w", err)
    }
    _, _ = fmt.Fprintf(f, "=== %s %s started at %s ===\n", name, version, time.Now().Format(time.RFC3339))
    l.file = f
    l.out = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
    return l, nil
}

// Tee forwards every recorded line to fn as well. Pass nil to stop.
func (l *Logger) Tee(fn func(line string)) {
    l.mu.Lock()
    l.tee = fn
    l.mu.Unlock()
}

// Quiet stops echoing to the terminal, for full screen UIs.
func (l *Logger) Quiet() {
    l.mu.Lock()
    l.echo = nil
    l.mu.Unlock()
}

func (l *Logger) Infof(format string, args ...any) { l.write(format, args...) }

func (l *Logger) Debugf(format string, args ...any) {
    if l.verbosity >= 2 {
        l.write(format, args...)
    }
}

func (l *Logger) write(format string, args ...any) {
    if l == nil {
        return
    }
    line := fmt.Sprintf(format, args...)
    l.mu.Lock()
    defer l.mu.Unlock()
    if l.out != nil {
        l.out.Println(line)
    }
    if l.echo != nil {
        fmt.Fprintln(l.echo, line)
    }
    if l.tee != nil {
        l.tee(line)
    }
}

func (l *Logger) Close() error {
    if l == nil {
        return nil
    }
    l.mu.Lock()
    defer l.mu.Unlock()
    if l.file == nil {
        return nil
    }
    err := l.file.Close()
    l.file, l.out = nil, nil
    return err
}
