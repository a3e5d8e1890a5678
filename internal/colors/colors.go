// Package colors converts between hex strings and RGBA values and provides
// the blending and contrast helpers used by themed UI surfaces.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/opencode-ai/tint/internal/logging"
)

// ErrMalformedLiteral is returned when a hex literal is not 6 or 8 hex digits.
var ErrMalformedLiteral = errors.New("malformed hex literal")

// RGBA is a non-premultiplied 8-bit color.
type RGBA struct {
	R, G, B, A uint8
}

// Common colors.
var (
	White   = RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black   = RGBA{A: 0xFF}
	Magenta = RGBA{R: 0xFF, B: 0xFF, A: 0xFF}
	Clear   = RGBA{}
)

// RGBA implements image/color.Color.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Hex returns the color as #RRGGBBAA.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// HexRGB returns the color as #RRGGBB, dropping alpha. Terminal renderers
// only accept the opaque form.
func (c RGBA) HexRGB() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGBA) String() string {
	return c.Hex()
}

// IsHex reports whether value is '#' followed by exactly 6 or 8 hex digits.
func IsHex(value string) bool {
	if !strings.HasPrefix(value, "#") {
		return false
	}
	digits := value[1:]
	if len(digits) != 6 && len(digits) != 8 {
		return false
	}
	return isHexDigits(digits)
}

// ParseHex decodes a 6 or 8 digit hex literal with an optional leading '#'.
// Six digits imply an opaque alpha.
func ParseHex(hex string) (RGBA, error) {
	digits := strings.TrimPrefix(hex, "#")
	if (len(digits) != 6 && len(digits) != 8) || !isHexDigits(digits) {
		return RGBA{}, fmt.Errorf("%w: %q", ErrMalformedLiteral, hex)
	}

	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q: %v", ErrMalformedLiteral, hex, err)
	}
	if len(digits) == 6 {
		value = value<<8 | 0xFF
	}

	return RGBA{
		R: uint8(value >> 24),
		G: uint8(value >> 16),
		B: uint8(value >> 8),
		A: uint8(value),
	}, nil
}

// HexToColor decodes hex like ParseHex but never fails. Malformed input is
// logged and decoded as opaque white.
func HexToColor(hex string) RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		logger := logging.Component("colors")
		logger.Error().Err(err).Str("hex", hex).Msg("invalid hex format")
		return White
	}
	return c
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}
