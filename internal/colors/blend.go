package colors

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Surface is the dark base surface colors are lifted from.
var Surface = RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xFF}

// minContrast is the lowest ratio ContrastsWith accepts. WCAG AAA asks for 7.
const minContrast = 2.0

// WithAlpha returns c with alpha replaced. alpha is in [0, 1].
func (c RGBA) WithAlpha(alpha float64) RGBA {
	c.A = unitToByte(alpha)
	return c
}

// LerpFromSurface blends from Surface toward c; brightness is the share of c kept.
func (c RGBA) LerpFromSurface(brightness float64) RGBA {
	return Lerp(Surface, c, brightness)
}

// LerpToWhite blends c toward white by amount.
func (c RGBA) LerpToWhite(amount float64) RGBA {
	return Lerp(c, White, amount)
}

// Lerp interpolates every channel, alpha included, from a to b. t is clamped to [0, 1].
func Lerp(a, b RGBA, t float64) RGBA {
	t = clamp01(t)
	r, g, bl := a.colorful().BlendRgb(b.colorful(), t).Clamped().RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return RGBA{R: r, G: g, B: bl, A: uint8(math.Round(alpha))}
}

// RelativeLuminance per https://www.w3.org/TR/WCAG20-TECHS/G17.html.
func (c RGBA) RelativeLuminance() float64 {
	r, g, b := c.colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the WCAG contrast ratio between c and other, in [1, 21].
func (c RGBA) ContrastRatio(other RGBA) float64 {
	l1 := c.RelativeLuminance() + 0.05
	l2 := other.RelativeLuminance() + 0.05
	return math.Max(l1, l2) / math.Min(l1, l2)
}

// ContrastsWith reports whether the ratio between the colors is at least 2.
func (c RGBA) ContrastsWith(other RGBA) bool {
	return c.ContrastRatio(other) >= minContrast
}

// BetterContrast returns whichever option contrasts more with c.
func (c RGBA) BetterContrast(option1, option2 RGBA) RGBA {
	if c.ContrastRatio(option1) > c.ContrastRatio(option2) {
		return option1
	}
	return option2
}

func (c RGBA) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

func unitToByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
