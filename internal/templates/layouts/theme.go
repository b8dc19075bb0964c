package layouts

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Theme is the console palette. Blank or malformed colours fall back to
// DefaultTheme.
type Theme struct {
	Primary   string
	Secondary string
	Accent    string
}

func DefaultTheme() Theme {
	return Theme{Primary: "#0b3d2e", Secondary: "#f4f6f5", Accent: "#e0a100"}
}

func themeCSSVars(theme Theme) string {
	defaults := DefaultTheme()
	return fmt.Sprintf(
		":root{--theme-primary:%s;--theme-secondary:%s;--theme-accent:%s;}",
		themeColorOrDefault(theme.Primary, defaults.Primary),
		themeColorOrDefault(theme.Secondary, defaults.Secondary),
		themeColorOrDefault(theme.Accent, defaults.Accent),
	)
}

func themeColorOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if !hexColor.MatchString(trimmed) {
		return fallback
	}
	return trimmed
}
