package preview

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrBadColor is returned for color strings that are neither hex nor rgb()/rgba().
var ErrBadColor = errors.New("unrecognized color")

// ParseColor understands #RGB, #RRGGBB, #RRGGBBAA, rgb(r, g, b) and
// rgba(r, g, b, a) with a in [0, 1].
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunc(s[len("rgb("):len(s)-1], 3)
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
}

// MustColor is ParseColor with a fallback for unparsable input
func MustColor(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

func parseHex(h string) (color.NRGBA, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrBadColor, h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: #%s", ErrBadColor, h)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunc(args string, n int) (color.NRGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != n {
		return color.NRGBA{}, fmt.Errorf("%w: expected %d components, got %d", ErrBadColor, n, len(parts))
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("%w: channel %q", ErrBadColor, parts[i])
		}
		ch[i] = uint8(v)
	}

	alpha := uint8(255)
	if n == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, fmt.Errorf("%w: alpha %q", ErrBadColor, parts[3])
		}
		alpha = uint8(a*255 + 0.5)
	}

	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

// fade scales the alpha of c by opacity clamped to [0, 1]
func fade(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(float64(c.A)*clamp01(opacity) + 0.5)
	return c
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
