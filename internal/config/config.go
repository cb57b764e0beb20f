package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "codepad/internal/lang"
    "codepad/internal/persist"
)

// DefaultDir holds config, storage and logs unless overridden.
const DefaultDir = ".codepad"

// Config is .codepad/config.json. Missing fields take their defaults, so a
// config written by an older version keeps working.
type Config struct {
    StorageFile       string `json:"storageFile,omitempty"`       // JSON key-value file, the storage slot lives in it
    StorageKey        string `json:"storageKey,omitempty"`        // key of the slot
    AutosaveDelayMs   int    `json:"autosaveDelayMs,omitempty"`   // debounce quiet period
    StorageQuotaBytes int    `json:"storageQuotaBytes,omitempty"` // 0 = unlimited
    PreviewAddr       string `json:"previewAddr,omitempty"`       // browser preview listen address; "off" disables
    Language          string `json:"language,omitempty"`          // initial syntax mode
    Theme             string `json:"theme,omitempty"`             // "light" | "dark"
    Prettier          string `json:"prettier,omitempty"`          // formatter command line prefix
    LogFile           string `json:"logFile,omitempty"`
    SaveDir           string `json:"saveDir,omitempty"`           // where ctrl+s writes code.<ext>
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Config {
    if dir == "" {
        dir = DefaultDir
    }
    return &Config{
        StorageFile:       filepath.Join(dir, "storage.json"),
        StorageKey:        persist.DefaultKey,
        AutosaveDelayMs:   int(persist.DefaultDelay / time.Millisecond),
        StorageQuotaBytes: 5 << 20,
        PreviewAddr:       "127.0.0.1:0",
        Language:          string(lang.HTML),
        Theme:             "light",
        Prettier:          "prettier",
        LogFile:           filepath.Join(dir, "codepad.log"),
        SaveDir:           ".",
    }
}

// Load reads path and fills unset fields from Default. A missing file is
// not an error.
func Load(path string) (*Config, error) {
    c := Default(filepath.Dir(path))
    data, err := os.ReadFile(path)
    if errors.Is(err, os.ErrNotExist) {
        return c, nil
    }
    if err != nil {
        return nil, fmt.Errorf("read config: %w", err)
    }
    var file Config
    if err := json.Unmarshal(data, &file); err != nil {
        return nil, fmt.Errorf("parse config JSON: %w", err)
    }
    merge(c, &file)
    if err := c.Validate(); err != nil {
        return nil, fmt.Errorf("config %s: %w", path, err)
    }
    return c, nil
}

func merge(dst, src *Config) {
    if src.StorageFile != "" { dst.StorageFile = src.StorageFile }
    if src.StorageKey != "" { dst.StorageKey = src.StorageKey }
    if src.AutosaveDelayMs != 0 { dst.AutosaveDelayMs = src.AutosaveDelayMs }
    if src.StorageQuotaBytes != 0 { dst.StorageQuotaBytes = src.StorageQuotaBytes }
    if src.PreviewAddr != "" { dst.PreviewAddr = src.PreviewAddr }
    if src.Language != "" { dst.Language = src.Language }
    if src.Theme != "" { dst.Theme = src.Theme }
    if src.Prettier != "" { dst.Prettier = src.Prettier }
    if src.LogFile != "" { dst.LogFile = src.LogFile }
    if src.SaveDir != "" { dst.SaveDir = src.SaveDir }
}

// Validate rejects values the editor cannot start with.
func (c *Config) Validate() error {
    if c.AutosaveDelayMs < 0 {
        return fmt.Errorf("autosaveDelayMs must not be negative")
    }
    if c.StorageQuotaBytes < 0 {
        return fmt.Errorf("storageQuotaBytes must not be negative")
    }
    if _, err := lang.Parse(c.Language); err != nil {
        return err
    }
    if c.Theme != "light" && c.Theme != "dark" {
        return fmt.Errorf("theme must be light or dark, got %q", c.Theme)
    }
    return nil
}

func (c *Config) AutosaveDelay() time.Duration {
    return time.Duration(c.AutosaveDelayMs) * time.Millisecond
}

func (c *Config) Dark() bool { return c.Theme == "dark" }

// Lang returns the configured language, HTML if it does not parse.
func (c *Config) Lang() lang.Language {
    l, err := lang.Parse(c.Language)
    if err != nil {
        return lang.HTML
    }
    return l
}

// PreviewEnabled reports whether the browser preview should be served.
func (c *Config) PreviewEnabled() bool {
    return c.PreviewAddr != "" && c.PreviewAddr != "off"
}

func Save(path string, c *Config) error {
    if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
        return err
    }
    data, err := json.MarshalIndent(c, "", "  ")
    if err != nil {
        return err
    }
    return os.WriteFile(path, data, 0644)
}
