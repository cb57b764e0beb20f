package util

import (
    "os"

    "github.com/charmbracelet/lipgloss"
)

// NoColor returns true if color output should be disabled.
func NoColor(explicit bool) bool {
    if explicit {
        return true
    }
    return os.Getenv("NO_COLOR") != ""
}

// Palette defines a small set of colors used across widgets.
type Palette struct {
    Primary   lipgloss.Color
    Accent    lipgloss.Color
    Success   lipgloss.Color
    Danger    lipgloss.Color
    Warning   lipgloss.Color
    Muted     lipgloss.Color
    MutedDark lipgloss.Color
    Text      lipgloss.Color
    Surface   lipgloss.Color
    Border    lipgloss.Color
}

// LightPalette is used for the light editor theme.
func LightPalette() Palette {
    return Palette{
        Primary:   lipgloss.Color("#3D6DFF"),
        Accent:    lipgloss.Color("#FD810D"),
        Success:   lipgloss.Color("#2AA876"),
        Danger:    lipgloss.Color("#D9534F"),
        Warning:   lipgloss.Color("#F0AD4E"),
        Muted:     lipgloss.Color("#6C757D"),
        MutedDark: lipgloss.Color("#5A5A5A"),
        Text:      lipgloss.Color("#1E1E1E"),
        Surface:   lipgloss.Color("#F8F9FA"),
        Border:    lipgloss.Color("#CED4DA"),
    }
}

// DarkPalette is used for the dark editor theme.
func DarkPalette() Palette {
    return Palette{
        Primary:   lipgloss.Color("#6C8CFF"),
        Accent:    lipgloss.Color("#FD9A3D"),
        Success:   lipgloss.Color("#3CC98E"),
        Danger:    lipgloss.Color("#F07470"),
        Warning:   lipgloss.Color("#F5C06F"),
        Muted:     lipgloss.Color("#9AA0A6"),
        MutedDark: lipgloss.Color("#3C3F41"),
        Text:      lipgloss.Color("#E8E8E8"),
        Surface:   lipgloss.Color("#1E1E1E"),
        Border:    lipgloss.Color("#4A4D50"),
    }
}

// ThemePalette picks the palette for the theme flag.
func ThemePalette(dark bool) Palette {
    if dark {
        return DarkPalette()
    }
    return LightPalette()
}
