package logx

import (
    "bytes"
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestOpenWritesBannerAndLines(t *testing.T) {
    path := filepath.Join(t.TempDir(), "logs", "codepad.log")
    l, err := Open(path, "codepad", "1.2.3", 0, nil)
    if err != nil { t.Fatalf("Open: %v", err) }
    l.Infof("saved %d bytes", 42)
    l.Debugf("hidden")
    if err := l.Close(); err != nil { t.Fatalf("Close: %v", err) }
    data, err := os.ReadFile(path)
    if err != nil { t.Fatal(err) }
    s := string(data)
    if !strings.HasPrefix(s, "=== codepad 1.2.3 started at ") { t.Fatalf("missing banner: %q", s) }
    if !strings.Contains(s, "saved 42 bytes") { t.Fatalf("missing line: %q", s) }
    if strings.Contains(s, "hidden") { t.Fatalf("debug line written at verbosity 0") }
}

func TestEchoTeeAndQuiet(t *testing.T) {
    var buf bytes.Buffer
    l, err := Open("", "codepad", "dev", 2, &buf)
    if err != nil { t.Fatal(err) }
    var teed []string
    l.Tee(func(line string) { teed = append(teed, line) })
    l.Debugf("one")
    l.Quiet()
    l.Infof("two")
    if buf.String() != "one\n" { t.Fatalf("unexpected echo %q", buf.String()) }
    if len(teed) != 2 || teed[1] != "two" { t.Fatalf("unexpected tee %v", teed) }
}

func TestNilLoggerIsSafe(t *testing.T) {
    var l *Logger
    l.Infof("nothing")
    if err := l.Close(); err != nil { t.Fatal(err) }
}
