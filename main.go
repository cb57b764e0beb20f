// Copyright
// SPDX-License-Identifier: MIT
// codepad: terminal code editor with live preview and autosaved editor state
package main

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "io"
    "os"
    "os/signal"
    "path/filepath"
    "strings"
    "sync"
    "syscall"
    "time"

    "github.com/spf13/cobra"
    "github.com/tidwall/gjson"

    "codepad/internal/config"
    "codepad/internal/feedback"
    "codepad/internal/files"
    "codepad/internal/format"
    "codepad/internal/httpx"
    "codepad/internal/lang"
    "codepad/internal/logx"
    "codepad/internal/persist"
    "codepad/internal/ports"
    "codepad/internal/preview"
    "codepad/internal/proc"
    "codepad/internal/storage"
    "codepad/internal/tui"
    "codepad/internal/tui/state"
    "codepad/internal/tui/util"
)

var Version = "0.3.0"

const (
    configFileName = "config.json"
    urlFileName    = "preview.url" // written while a preview server runs, read by status
    waitUpTimeout  = 5 * time.Second
)

/* ---------- app ---------- */

type app struct {
    configPath string
    logFile    string
    verbose    int
    noColor    bool

    cfg *config.Config
    log *logx.Logger
    out io.Writer
    err io.Writer
}

func (a *app) dir() string { return filepath.Dir(a.configPath) }

func (a *app) load(cmd *cobra.Command, _ []string) error {
    c, err := config.Load(a.configPath)
    if err != nil {
        return err
    }
    a.cfg = c
    path := c.LogFile
    if cmd.Flags().Changed("log-file") {
        path = a.logFile
    }
    a.log, err = logx.Open(path, "codepad", Version, a.verbose, a.err)
    if err != nil {
        fmt.Fprintln(a.err, "warning:", err)
    }
    a.log.Debugf("config %s loaded", a.configPath)
    return nil
}

func (a *app) close(*cobra.Command, []string) {
    _ = a.log.Close()
}

func (a *app) store() *storage.FileStore {
    return storage.NewFileStore(a.cfg.StorageFile, a.cfg.StorageQuotaBytes)
}

/* ---------- CLI ---------- */

func main() {
    if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
        fmt.Fprintln(os.Stderr, "error:", err)
        os.Exit(1)
    }
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
    a := &app{out: out, err: errOut}
    root := &cobra.Command{
        Use:   "codepad [file]",
        Short: "Terminal code editor with live preview and autosaved state",
        Long: `codepad ` + Version + `
Edit HTML, CSS, JavaScript and more in the terminal. The preview pane (and an
optional browser preview) shows the document as you type, and the editor state
is autosaved to a local storage file and restored on the next start.`,
        SilenceUsage:      true,
        SilenceErrors:     true,
        PersistentPreRunE: a.load,
        PersistentPostRun: a.close,
    }
    pf := root.PersistentFlags()
    pf.StringVar(&a.configPath, "config", filepath.Join(config.DefaultDir, configFileName), "config file")
    pf.StringVar(&a.logFile, "log-file", "", "append logs to file (overrides logFile in config)")
    pf.CountVarP(&a.verbose, "verbose", "v", "echo logs to stderr (-vv adds debug logs)")
    pf.BoolVar(&a.noColor, "no-color", false, "plain output without colors (also NO_COLOR)")
    root.SetOut(out)
    root.SetErr(errOut)

    attachEdit(root, a)
    root.AddCommand(
        newStateCmd(a),
        newFormatCmd(a),
        newPreviewCmd(a),
        newStatusCmd(a),
        newInitCmd(a),
        newDoctorCmd(a),
        &cobra.Command{
            Use:   "version",
            Short: "Print version",
            Args:  cobra.NoArgs,
            Run:   func(*cobra.Command, []string) { fmt.Fprintln(out, "codepad", Version) },
        },
    )
    return root
}

/* ---------- edit ---------- */

func attachEdit(root *cobra.Command, a *app) {
    var (
        ephemeral bool
        noRestore bool
        noPreview bool
        open      bool
        view      string
        language  string
        theme     string
    )
    root.Args = cobra.MaximumNArgs(1)
    root.RunE = func(cmd *cobra.Command, args []string) error {
        vm, err := state.ParseView(view)
        if err != nil {
            return err
        }
        l := a.cfg.Lang()
        if language != "" {
            if l, err = lang.Parse(language); err != nil {
                return err
            }
        }
        dark := a.cfg.Dark()
        switch theme {
        case "":
        case "dark", "light":
            dark = theme == "dark"
        default:
            return fmt.Errorf("theme must be light or dark, got %q", theme)
        }

        opts := tui.Options{
            Key:       a.cfg.StorageKey,
            Delay:     a.cfg.AutosaveDelay(),
            Formatter: format.Default(a.cfg.Prettier),
            SaveDir:   a.cfg.SaveDir,
            Language:  l,
            Dark:      dark,
            View:      vm,
            Restore:   !noRestore,
            NoColor:   util.NoColor(a.noColor),
            Logf:      a.log.Infof,
        }
        if len(args) == 1 {
            opts.File = args[0]
        }
        if ephemeral {
            opts.Store = storage.NewMemStore()
        } else {
            fs := a.store()
            opts.Store, opts.StoragePath = fs, fs.Path()
        }

        ctx, cancel := context.WithCancel(cmd.Context())
        defer cancel()
        if a.cfg.PreviewEnabled() && !noPreview {
            hub, stop, err := a.startHub(ctx, a.cfg.PreviewAddr)
            if err != nil {
                a.log.Infof("browser preview disabled: %v", err)
            } else {
                defer stop()
                opts.Hub = hub
                if open {
                    go func() {
                        if err := proc.OpenURL(ctx, hub.URL()); err != nil {
                            a.log.Infof("open browser: %v", err)
                        }
                    }()
                }
            }
        }
        a.log.Quiet()
        return tui.Run(opts)
    }
    f := root.Flags()
    f.BoolVar(&ephemeral, "ephemeral", false, "keep editor state in memory only")
    f.BoolVar(&noRestore, "no-restore", false, "do not restore the saved state on start")
    f.BoolVar(&noPreview, "no-preview", false, "do not serve the browser preview")
    f.BoolVar(&open, "open", false, "open the browser preview")
    f.StringVar(&view, "view", "split", "initial layout: split | editor | preview")
    f.StringVar(&language, "language", "", "initial language (default from config)")
    f.StringVar(&theme, "theme", "", "light | dark (default from config)")
}

// startHub serves the browser preview on addr, waits for it to answer and
// records its URL for the status command.
func (a *app) startHub(ctx context.Context, addr string) (*preview.Hub, func(), error) {
    hub := preview.NewHub(a.log.Infof)
    url, err := hub.Start(addr)
    if err != nil {
        return nil, nil, err
    }
    if err := httpx.WaitHTTPUp(ctx, url+"/healthz", waitUpTimeout); err != nil {
        _ = hub.Close(context.Background())
        return nil, nil, err
    }
    urlFile := filepath.Join(a.dir(), urlFileName)
    if err := os.MkdirAll(a.dir(), 0o755); err == nil {
        _ = os.WriteFile(urlFile, []byte(url+"\n"), 0644)
    }
    stop := func() {
        _ = os.Remove(urlFile)
        sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
        defer cancel()
        if err := hub.Close(sctx); err != nil {
            a.log.Infof("preview shutdown: %v", err)
        }
    }
    return hub, stop, nil
}

/* ---------- state ---------- */

// slotDoc stands in for the editor when the CLI works on the storage slot
// without one.
type slotDoc struct{}

func (slotDoc) Value() string           { return "" }
func (slotDoc) SetValue(string)         {}
func (slotDoc) Language() lang.Language { return lang.HTML }
func (slotDoc) DarkMode() bool          { return false }
func (slotDoc) SetDarkMode(bool)        {}

// linePrompter asks on w and reads a y/N answer from r. The CLI has no event
// loop, so the answer is delivered before Confirm returns.
type linePrompter struct {
    r   io.Reader
    w   io.Writer
    yes bool
}

func (p linePrompter) Confirm(pr feedback.Prompt, then func(ok bool)) {
    if p.yes {
        then(true)
        return
    }
    fmt.Fprintf(p.w, "%s\n%s\n%s? [y/N] ", pr.Title, pr.Body, pr.ConfirmText)
    line, _ := bufio.NewReader(p.r).ReadString('\n')
    switch strings.ToLower(strings.TrimSpace(line)) {
    case "y", "yes":
        then(true)
    default:
        then(false)
    }
}

// slot returns a controller over the configured storage slot.
func (a *app) slot(p feedback.Prompter, n feedback.Notifier) *persist.Controller {
    return persist.New(slotDoc{}, a.store(), persist.Options{
        Key:      a.cfg.StorageKey,
        Prompter: p,
        Notifier: n,
        Logf:     a.log.Infof,
    })
}

func newStateCmd(a *app) *cobra.Command {
    cmd := &cobra.Command{
        Use:   "state",
        Short: "Inspect or clear the saved editor state",
    }
    var get string
    var raw bool
    show := &cobra.Command{
        Use:   "show",
        Short: "Print the saved editor state",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, _ []string) error {
            st, ok, err := a.slot(nil, nil).Peek()
            if err != nil {
                return err
            }
            if !ok {
                fmt.Fprintln(a.out, "No saved state.")
                return nil
            }
            if raw || get != "" {
                blob, err := persist.Encode(st)
                if err != nil {
                    return err
                }
                if raw {
                    fmt.Fprintln(a.out, blob)
                    return nil
                }
                r := gjson.Get(blob, get)
                if !r.Exists() {
                    return fmt.Errorf("no %q in saved state", get)
                }
                fmt.Fprintln(a.out, r.String())
                return nil
            }
            theme := "light"
            if st.IsDarkMode {
                theme = "dark"
            }
            fmt.Fprintf(a.out, "Saved state (%s):\n", a.cfg.StorageKey)
            fmt.Fprintf(a.out, "- Language: %s\n", st.Language)
            fmt.Fprintf(a.out, "- Theme:    %s\n", theme)
            if at := st.SavedAt(); !at.IsZero() {
                fmt.Fprintf(a.out, "- Saved:    %s\n", at.Local().Format(time.DateTime))
            } else {
                fmt.Fprintf(a.out, "- Saved:    (unknown)\n")
            }
            fmt.Fprintf(a.out, "- Size:     %s\n", files.Count(st.Code))
            return nil
        },
    }
    show.Flags().StringVar(&get, "get", "", "print one field by path (e.g. language, code)")
    show.Flags().BoolVar(&raw, "raw", false, "print the saved state as JSON")

    var yes bool
    clearCmd := &cobra.Command{
        Use:   "clear",
        Short: "Remove the saved editor state (asks first)",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, _ []string) error {
            var cleared bool
            var failed error
            notify := feedback.NotifierFunc(func(kind feedback.Kind, title, body string) {
                switch kind {
                case feedback.Success:
                    cleared = true
                case feedback.Error:
                    failed = errors.New(body)
                }
            })
            ask := linePrompter{r: cmd.InOrStdin(), w: a.err, yes: yes}
            a.slot(ask, notify).Clear()
            if failed != nil {
                return failed
            }
            if !cleared {
                fmt.Fprintln(a.out, "Cancelled; saved state kept.")
                return nil
            }
            fmt.Fprintln(a.out, "Cleared saved state.")
            return nil
        },
    }
    clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "clear without asking")
    cmd.AddCommand(show, clearCmd)
    return cmd
}

/* ---------- format ---------- */

func newFormatCmd(a *app) *cobra.Command {
    var write bool
    var language string
    cmd := &cobra.Command{
        Use:   "format <file>",
        Short: "Format a file with prettier (built-in printer for HTML)",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            o, err := files.Open(args[0])
            if err != nil {
                return err
            }
            l := o.Language
            if language != "" {
                if l, err = lang.Parse(language); err != nil {
                    return err
                }
            }
            out, err := format.Format(cmd.Context(), format.Default(a.cfg.Prettier), o.Text, l)
            if err != nil {
                return err
            }
            if !write {
                fmt.Fprint(a.out, out)
                return nil
            }
            if out == o.Text {
                fmt.Fprintf(a.out, "%s already formatted\n", o.Name)
                return nil
            }
            if err := os.WriteFile(o.Path, []byte(out), 0644); err != nil {
                return err
            }
            a.log.Infof("formatted %s (%s)", o.Path, l)
            fmt.Fprintf(a.out, "Formatted %s\n", o.Name)
            return nil
        },
    }
    cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
    cmd.Flags().StringVar(&language, "language", "", "override the language guessed from the extension")
    return cmd
}

/* ---------- preview ---------- */

func newPreviewCmd(a *app) *cobra.Command {
    var addr string
    var open, noUI bool
    cmd := &cobra.Command{
        Use:   "preview <file>",
        Short: "Serve a file to the browser and reload it when it changes",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            path, err := filepath.Abs(args[0])
            if err != nil {
                return err
            }
            if _, err := files.Open(path); err != nil {
                return err
            }
            if addr == "" {
                addr = a.cfg.PreviewAddr
            }
            if addr == "off" {
                return errors.New("preview address is off; pass --addr")
            }
            ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
            defer cancel()

            hub, stop, err := a.startHub(ctx, addr)
            if err != nil {
                return err
            }
            defer stop()

            status := feedback.StatusFunc(func(text string, _ feedback.Level) { a.log.Debugf("%s", text) })
            r := preview.NewRenderer(hub, status, a.log.Infof)
            var mu sync.Mutex
            reload := func() {
                mu.Lock()
                defer mu.Unlock()
                o, err := files.Open(path)
                if err != nil {
                    a.log.Infof("reload: %v", err)
                    return
                }
                r.Render(o.Text)
                a.log.Infof("published %s (%d bytes)", o.Name, len(o.Text))
            }
            reload()
            w, err := storage.Watch(path, reload, a.log.Infof)
            if err != nil {
                a.log.Infof("file watch disabled: %v", err)
            } else {
                defer w.Close()
            }
            openBrowser := func() error { return proc.OpenURL(ctx, hub.URL()) }
            if open {
                if err := openBrowser(); err != nil {
                    a.log.Infof("open browser: %v", err)
                }
            }

            if noUI {
                fmt.Fprintf(a.out, "Serving %s at %s (Ctrl-C to stop)\n", filepath.Base(path), hub.URL())
                <-ctx.Done()
                return nil
            }

            logCh := make(chan string, 256)
            a.log.Tee(func(line string) {
                select {
                case logCh <- line:
                default:
                }
            })
            defer a.log.Tee(nil)
            a.log.Quiet()
            updates := make(chan preview.Status, 1)
            go pollStatus(ctx, hub, updates)

            info := tui.ServeInfo{File: path, URL: hub.URL(), LogDir: filepath.Join(a.dir(), "logs")}
            return tui.ShowServe(info, tui.ServeActions{Open: openBrowser, Reload: reload}, logCh, updates)
        },
    }
    cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
    cmd.Flags().BoolVar(&open, "open", false, "open the preview in the browser")
    cmd.Flags().BoolVar(&noUI, "no-ui", false, "print the URL and serve without the dashboard")
    return cmd
}

func pollStatus(ctx context.Context, hub *preview.Hub, out chan<- preview.Status) {
    t := time.NewTicker(500 * time.Millisecond)
    defer t.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-t.C:
            select {
            case out <- hub.Status():
            default:
            }
        }
    }
}

/* ---------- status ---------- */

func newStatusCmd(a *app) *cobra.Command {
    var url string
    cmd := &cobra.Command{
        Use:   "status",
        Short: "Show the running browser preview",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, _ []string) error {
            if url == "" {
                b, err := os.ReadFile(filepath.Join(a.dir(), urlFileName))
                if err != nil {
                    fmt.Fprintln(a.out, "No preview server running (pass --url to query one).")
                    return nil
                }
                url = strings.TrimSpace(string(b))
            }
            body, err := httpx.GetJSON(cmd.Context(), strings.TrimSuffix(url, "/")+"/status.json")
            if err != nil {
                return err
            }
            res := gjson.ParseBytes(body)
            fmt.Fprintln(a.out, "codepad preview:")
            fmt.Fprintf(a.out, "- URL:        %s\n", url)
            fmt.Fprintf(a.out, "- Browsers:   %d\n", res.Get("clients").Int())
            fmt.Fprintf(a.out, "- Generation: %d\n", res.Get("generation").Uint())
            fmt.Fprintf(a.out, "- Document:   %d bytes\n", res.Get("bytes").Int())
            if at := res.Get("renderedAt").Time(); !at.IsZero() {
                fmt.Fprintf(a.out, "- Rendered:   %s\n", at.Local().Format(time.DateTime))
            }
            return nil
        },
    }
    cmd.Flags().StringVar(&url, "url", "", "preview base URL (default: the one this directory is serving)")
    return cmd
}

/* ---------- init / doctor ---------- */

func newInitCmd(a *app) *cobra.Command {
    var interactive, force bool
    cmd := &cobra.Command{
        Use:   "init",
        Short: "Write a config file with the defaults",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, _ []string) error {
            _, statErr := os.Stat(a.configPath)
            exists := statErr == nil
            if exists && !force && !interactive {
                fmt.Fprintln(a.out, a.configPath, "already exists; not overwriting")
                return nil
            }
            c := config.Default(a.dir())
            if exists && interactive {
                c = a.cfg
            }
            if interactive {
                ok, err := tui.CollectSettings(c)
                if err != nil {
                    return err
                }
                if !ok {
                    fmt.Fprintln(a.out, "Cancelled; nothing written.")
                    return nil
                }
            }
            if err := config.Save(a.configPath, c); err != nil {
                return err
            }
            a.log.Infof("wrote %s", a.configPath)
            fmt.Fprintln(a.out, "Wrote", a.configPath)
            return nil
        },
    }
    cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "edit the settings in a form before writing")
    cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config with the defaults")
    return cmd
}

func newDoctorCmd(a *app) *cobra.Command {
    return &cobra.Command{
        Use:   "doctor",
        Short: "Check formatter, browser opener, preview address and storage",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, _ []string) error {
            ok := true
            check := func(good bool, yes, no string) {
                if good {
                    fmt.Fprintf(a.out, "  ✓ %s\n", yes)
                } else {
                    fmt.Fprintf(a.out, "  ✗ %s\n", no)
                    ok = false
                }
            }
            fmt.Fprintln(a.out, "Environment checks:")
            prettier := "prettier"
            if f := strings.Fields(a.cfg.Prettier); len(f) > 0 {
                prettier = f[0]
            }
            _, found := proc.Available(prettier)
            check(found, prettier+" found", prettier+" not found in PATH (HTML still formats with the built-in printer)")
            _, found = proc.Available(proc.Opener())
            check(found, proc.Opener()+" found", proc.Opener()+" not found in PATH (--open will not work)")
            if a.cfg.PreviewEnabled() {
                err := ports.CheckAddr(a.cfg.PreviewAddr)
                msg := fmt.Sprint(err)
                if p, perr := ports.FindFreePort(); err != nil && perr == nil {
                    msg += fmt.Sprintf(" (port %d is free)", p)
                }
                check(err == nil, "preview address "+a.cfg.PreviewAddr+" is free", msg)
            } else {
                fmt.Fprintln(a.out, "  - browser preview off")
            }
            _, _, err := a.store().Get(a.cfg.StorageKey)
            check(err == nil, "storage "+a.cfg.StorageFile+" readable", fmt.Sprintf("storage: %v", err))
            if ok {
                fmt.Fprintln(a.out, "All checks passed.")
            } else {
                fmt.Fprintln(a.out, "Some checks failed. Fix the items marked ✗ and retry.")
            }
            return nil
        },
    }
}
