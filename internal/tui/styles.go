package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lazycopy/lazycopy/internal/lazycopy"
)

// The palette below is keyed to the two things "lazycopy watch" actually
// renders: a page's protection Mode (internal/lazycopy's protect.go) and the
// pending-copy pool's Pressure (api.go) — not a generic CLI accent/success/
// warning scheme. ColorModeNone is the same color family as ColorPressureHigh
// on purpose: a PROT_NONE page and a pool at capacity are both "about to
// force work" states.
var (
	ColorTitle = lipgloss.AdaptiveColor{Light: "#5B3EBF", Dark: "#9B87F5"}
	ColorDim   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#5C5C5C"}

	// Per-Mode colors: a page goes ModeNone -> ModeRead/ModeReadWrite as it
	// is materialized, so these read left-to-right as "not yet" -> "done".
	ColorModeNone      = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#E5484D"}
	ColorModeRead      = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F5A623"}
	ColorModeReadWrite = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#2BB673"}

	// Per-Pressure colors (api.go's Stats.Pressure): how close the pending-
	// copy pool is to forcing a flush-on-insert.
	ColorPressureLow    = ColorModeReadWrite
	ColorPressureMedium = ColorModeRead
	ColorPressureHigh   = ColorModeNone

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorTitle).
			Bold(true).
			MarginBottom(1)

	StyleDim     = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHelpBar = lipgloss.NewStyle().Foreground(ColorDim)
)

// ModeStyle renders text in the color associated with a page protection
// mode, so a watch-screen page indicator visually matches its real mprotect
// state rather than an arbitrary selected/dim/warning label.
func ModeStyle(m lazycopy.Mode) lipgloss.Style {
	switch m {
	case lazycopy.ModeNone:
		return lipgloss.NewStyle().Foreground(ColorModeNone)
	case lazycopy.ModeRead:
		return lipgloss.NewStyle().Foreground(ColorModeRead)
	default:
		return lipgloss.NewStyle().Foreground(ColorModeReadWrite)
	}
}

// PressureStyle renders text in the color associated with a pool occupancy
// bucket (Stats.Pressure in internal/lazycopy/api.go).
func PressureStyle(p lazycopy.Pressure) lipgloss.Style {
	switch p {
	case lazycopy.PressureHigh:
		return lipgloss.NewStyle().Foreground(ColorPressureHigh).Bold(true)
	case lazycopy.PressureMedium:
		return lipgloss.NewStyle().Foreground(ColorPressureMedium)
	default:
		return lipgloss.NewStyle().Foreground(ColorPressureLow)
	}
}
