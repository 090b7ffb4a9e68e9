package ui

import (
	"fmt"
	"image/color"
	"strconv"
)

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHuman renders seconds compactly for lists and reports.
func FormatHuman(seconds int64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	case seconds < 86400:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	default:
		return fmt.Sprintf("%dd %dh", seconds/86400, (seconds%86400)/3600)
	}
}

// parseHexColor converts a #RRGGBB category color to a renderable color.
// Bad values fall back to gray so a corrupted record still draws.
func parseHexColor(hex string) color.Color {
	fallback := color.NRGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
	if len(hex) != 7 || hex[0] != '#' {
		return fallback
	}
	value, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 0xFF,
	}
}
