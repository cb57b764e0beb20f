package main

import (
    "bytes"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "codepad/internal/config"
    "codepad/internal/persist"
    "codepad/internal/storage"
)

func run(t *testing.T, args ...string) (string, error) {
    t.Helper()
    return runIn(t, "", args...)
}

// runIn runs the CLI with stdin as its standard input.
func runIn(t *testing.T, stdin string, args ...string) (string, error) {
    t.Helper()
    var out, errOut bytes.Buffer
    cmd := newRootCmd(&out, &errOut)
    cmd.SetIn(strings.NewReader(stdin))
    cmd.SetArgs(args)
    err := cmd.Execute()
    return out.String(), err
}

func tempConfig(t *testing.T) (string, *config.Config) {
    t.Helper()
    dir := t.TempDir()
    path := filepath.Join(dir, "config.json")
    c := config.Default(dir)
    c.LogFile = filepath.Join(dir, "codepad.log")
    if err := config.Save(path, c); err != nil { t.Fatal(err) }
    return path, c
}

func TestVersion(t *testing.T) {
    cfg, _ := tempConfig(t)
    out, err := run(t, "--config", cfg, "version")
    if err != nil || strings.TrimSpace(out) != "codepad "+Version { t.Fatalf("version: %q %v", out, err) }
}

func TestStateShowAndClear(t *testing.T) {
    cfg, c := tempConfig(t)
    out, err := run(t, "--config", cfg, "state", "show")
    if err != nil || !strings.Contains(out, "No saved state.") { t.Fatalf("empty show: %q %v", out, err) }

    raw, _ := persist.Encode(persist.EditorState{Code: "<p>a</p>\n<p>b</p>", Language: "html", IsDarkMode: true, Timestamp: "2024-01-02T03:04:05.000Z"})
    if err := storage.NewFileStore(c.StorageFile, 0).Set(c.StorageKey, raw); err != nil { t.Fatal(err) }

    out, err = run(t, "--config", cfg, "state", "show")
    if err != nil { t.Fatal(err) }
    for _, want := range []string{"Language: html", "Theme:    dark", "2 lines"} {
        if !strings.Contains(out, want) { t.Fatalf("show missing %q:\n%s", want, out) }
    }
    out, err = run(t, "--config", cfg, "state", "show", "--get", "language")
    if err != nil || strings.TrimSpace(out) != "html" { t.Fatalf("--get: %q %v", out, err) }
    if _, err := run(t, "--config", cfg, "state", "show", "--get", "nope"); err == nil { t.Fatalf("expected missing path error") }

    out, err = run(t, "--config", cfg, "state", "clear", "--yes")
    if err != nil || !strings.Contains(out, "Cleared") { t.Fatalf("clear: %q %v", out, err) }
    if _, ok, _ := storage.NewFileStore(c.StorageFile, 0).Get(c.StorageKey); ok { t.Fatalf("state still present") }
}

func TestStateClearAsksFirst(t *testing.T) {
    cfg, c := tempConfig(t)
    store := storage.NewFileStore(c.StorageFile, 0)
    raw, _ := persist.Encode(persist.EditorState{Code: "<p>keep</p>", Language: "html"})
    if err := store.Set(c.StorageKey, raw); err != nil { t.Fatal(err) }

    for _, answer := range []string{"n\n", "\n", ""} {
        out, err := runIn(t, answer, "--config", cfg, "state", "clear")
        if err != nil || !strings.Contains(out, "Cancelled") { t.Fatalf("declined %q: %q %v", answer, out, err) }
        if _, ok, _ := store.Get(c.StorageKey); !ok { t.Fatalf("declined %q removed the state", answer) }
    }

    out, err := runIn(t, "y\n", "--config", cfg, "state", "clear")
    if err != nil || !strings.Contains(out, "Cleared saved state.") { t.Fatalf("confirmed: %q %v", out, err) }
    if _, ok, _ := store.Get(c.StorageKey); ok { t.Fatalf("confirmed clear left the state") }
}

func TestStateShowMalformed(t *testing.T) {
    cfg, c := tempConfig(t)
    if err := storage.NewFileStore(c.StorageFile, 0).Set(c.StorageKey, "not json"); err != nil { t.Fatal(err) }
    if _, err := run(t, "--config", cfg, "state", "show"); err == nil { t.Fatalf("expected malformed state error") }
}

func TestFormatWritesHTML(t *testing.T) {
    cfg, _ := tempConfig(t)
    // a prettier that is never on PATH forces the built-in printer
    data, _ := os.ReadFile(cfg)
    var raw map[string]any
    _ = json.Unmarshal(data, &raw)
    raw["prettier"] = "codepad-test-no-such-prettier"
    data, _ = json.Marshal(raw)
    if err := os.WriteFile(cfg, data, 0644); err != nil { t.Fatal(err) }

    file := filepath.Join(t.TempDir(), "index.html")
    if err := os.WriteFile(file, []byte("<div><p>hi</p></div>"), 0644); err != nil { t.Fatal(err) }
    out, err := run(t, "--config", cfg, "format", file)
    if err != nil || !strings.Contains(out, "\n") || !strings.Contains(out, "<p>") { t.Fatalf("format stdout: %q %v", out, err) }

    out, err = run(t, "--config", cfg, "format", "--write", file)
    if err != nil || !strings.Contains(out, "Formatted index.html") { t.Fatalf("format --write: %q %v", out, err) }
    got, _ := os.ReadFile(file)
    if !strings.Contains(string(got), "\n") { t.Fatalf("file not rewritten: %q", got) }
}

func TestStatusReadsStatusJSON(t *testing.T) {
    cfg, _ := tempConfig(t)
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/status.json" { http.NotFound(w, r); return }
        _, _ = w.Write([]byte(`{"generation":7,"bytes":12,"renderedAt":"2024-01-02T03:04:05Z","clients":3}`))
    }))
    defer srv.Close()

    out, err := run(t, "--config", cfg, "status")
    if err != nil || !strings.Contains(out, "No preview server running") { t.Fatalf("status without server: %q %v", out, err) }

    if err := os.WriteFile(filepath.Join(filepath.Dir(cfg), urlFileName), []byte(srv.URL+"\n"), 0644); err != nil { t.Fatal(err) }
    out, err = run(t, "--config", cfg, "status")
    if err != nil { t.Fatal(err) }
    for _, want := range []string{"Browsers:   3", "Generation: 7", "12 bytes"} {
        if !strings.Contains(out, want) { t.Fatalf("status missing %q:\n%s", want, out) }
    }
}

func TestInitDoesNotOverwrite(t *testing.T) {
    dir := t.TempDir()
    cfg := filepath.Join(dir, "config.json")
    out, err := run(t, "--config", cfg, "--log-file", filepath.Join(dir, "x.log"), "init")
    if err != nil || !strings.Contains(out, "Wrote") { t.Fatalf("init: %q %v", out, err) }
    c, err := config.Load(cfg)
    if err != nil || c.StorageKey != persist.DefaultKey { t.Fatalf("written config: %+v %v", c, err) }
    out, err = run(t, "--config", cfg, "init")
    if err != nil || !strings.Contains(out, "not overwriting") { t.Fatalf("second init: %q %v", out, err) }
}

func TestDoctorReportsChecks(t *testing.T) {
    cfg, _ := tempConfig(t)
    out, err := run(t, "--config", cfg, "doctor")
    if err != nil { t.Fatal(err) }
    for _, want := range []string{"Environment checks:", "preview address", "storage"} {
        if !strings.Contains(out, want) { t.Fatalf("doctor missing %q:\n%s", want, out) }
    }
}

func TestLogFileBanner(t *testing.T) {
    cfg, c := tempConfig(t)
    if _, err := run(t, "--config", cfg, "state", "clear", "--yes"); err != nil { t.Fatal(err) }
    data, err := os.ReadFile(c.LogFile)
    if err != nil || !strings.HasPrefix(string(data), "=== codepad "+Version) { t.Fatalf("log file: %q %v", data, err) }
    if !strings.Contains(string(data), "cleared") { t.Fatalf("missing log line: %q", data) }
}
