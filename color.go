package tienda

import (
	"fmt"
	"regexp"
	"strings"
)

// Color tags a sale, e.g. to mark the orders still to deliver. The empty Color
// is no tag.
type Color string

// Preset colors, by name.
var Presets = map[string]Color{
	"rosa":     "#FFCDD2",
	"amarillo": "#FFF59D",
	"celeste":  "#B2EBF2",
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ParseColor accepts a preset name, a "#RRGGBB" value or a blank string that
// clears the tag.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if c, ok := Presets[strings.ToLower(s)]; ok {
		return c, nil
	}
	if !hexColor.MatchString(s) {
		return "", fmt.Errorf("invalid color %q want a preset or #RRGGBB", s)
	}
	return Color(strings.ToUpper(s)), nil
}

// Name returns the preset name of c, or c itself.
func (c Color) Name() string {
	for name, preset := range Presets {
		if strings.EqualFold(string(preset), string(c)) {
			return name
		}
	}
	return string(c)
}
