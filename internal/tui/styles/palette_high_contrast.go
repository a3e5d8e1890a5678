package styles

// HighContrastTheme favors visibility on low-contrast terminals. Most roles
// point straight at the palette extremes.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	Tokens: ThemeTokens{
		Background: "neutral/1000",
		Panel:      "neutral/950",
		Text:       "neutral/0",
		TextMuted:  "neutral/100",
		Border:     "neutral/0",
		Accent:     "brand/primary/300",
		Focus:      "warning/400",
		Success:    "success/300",
		Warning:    "warning/300",
		Error:      "danger/300",
		Info:       "info/300",
	},
}
