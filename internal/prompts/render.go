package prompts

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

var keywordPattern = regexp.MustCompile(`\[[A-Z _|]+\]`)

// Render replaces every occurrence of each parameter key in text with its value.
//
// Replacement is literal and happens in a single left-to-right pass, so values
// are never re-scanned for further keys. Where keys overlap at the same
// position the longest key wins; ties are broken lexically. Keys that do not
// occur in text are ignored, placeholders without a parameter are left as-is,
// and empty keys are skipped.
func Render(text string, params Parameters) string {
	keys := renderOrder(params)
	if len(keys) == 0 {
		return text
	}

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, params[k])
	}

	return strings.NewReplacer(pairs...).Replace(text)
}

// Keywords returns the distinct placeholder tokens in text, in order of first
// appearance. A placeholder is a bracketed run of upper-case letters, spaces,
// underscores, or pipes, e.g. "[NAME]" or "[FIRST NAME]".
func Keywords(text string) []string {
	matches := keywordPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	keywords := make([]string, 0, len(matches))

	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		keywords = append(keywords, m)
	}

	return keywords
}

func renderOrder(params Parameters) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k != "" {
			keys = append(keys, k)
		}
	}

	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	return keys
}
