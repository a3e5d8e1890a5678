package styles

// DefaultTheme binds roles to the standard system and brand tokens.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Background: "system/surface/background",
		Panel:      "system/surface/panel",
		Text:       "system/text/light/high",
		TextMuted:  "brand/subtle/on-surface",
		Border:     "system/surface/border",
		Accent:     "brand/primary/accent",
		Focus:      "status/focus",
		Success:    "status/success",
		Warning:    "status/warning",
		Error:      "status/error",
		Info:       "status/info",
	},
}
