package utils

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// namedColors is the built-in highlight palette, mapped to ARGB hex.
var namedColors = map[string]string{
	"yellow": "#FFFFFF00",
	"green":  "#FF00FF00",
	"blue":   "#FF00AAFF",
	"pink":   "#FFFF69B4",
	"orange": "#FFFFA500",
	"purple": "#FF9370DB",
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{8}$`)

// NormalizeColor validates a highlight color and returns its canonical
// form: palette names are lowercased, hex ARGB values are uppercased.
// Anything else is rejected.
func NormalizeColor(color string) (string, error) {
	c := strings.TrimSpace(strings.ToLower(color))
	if _, ok := namedColors[c]; ok {
		return c, nil
	}
	if hexColorPattern.MatchString(color) {
		return strings.ToUpper(color), nil
	}
	return "", fmt.Errorf("unknown color %q: use a palette name or #AARRGGBB hex", color)
}

// ColorToHexARGB resolves a canonical color to its ARGB hex value.
// Hex input passes through unchanged.
func ColorToHexARGB(color string) string {
	if hex, ok := namedColors[strings.ToLower(color)]; ok {
		return hex
	}
	return strings.ToUpper(color)
}

// PaletteNames returns the sorted named palette for UI pickers.
func PaletteNames() []string {
	names := make([]string, 0, len(namedColors))
	for name := range namedColors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
