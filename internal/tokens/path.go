package tokens

import "strings"

const (
	pathSeparator  = "/"
	aliasSeparator = "."
)

// SplitPath normalizes a token path ("system/text/light/high") into segments.
func SplitPath(token string) []string {
	return split(token, pathSeparator)
}

// SplitAlias normalizes an alias value ("{brand.primary.500}") into segments.
func SplitAlias(value string) []string {
	return split(value, aliasSeparator)
}

// split replaces spaces with underscores, trims one layer of surrounding
// braces from the whole reference and then from each segment.
func split(ref, sep string) []string {
	ref = trimBraces(strings.ReplaceAll(ref, " ", "_"))
	parts := strings.Split(ref, sep)
	for i, part := range parts {
		parts[i] = trimBraces(part)
	}
	return parts
}

func trimBraces(s string) string {
	s = strings.TrimPrefix(s, "{")
	return strings.TrimSuffix(s, "}")
}

// JoinPath renders segments in token path form.
func JoinPath(parts []string) string {
	return strings.Join(parts, pathSeparator)
}
