package domain

import "regexp"

// Spoken punctuation words mapped to the path characters they stand for.
// Whole-word replacements that also swallow the surrounding spaces, so
// "notes dot txt" becomes "notes.txt" while "dotfiles" is left alone.
var spokenReplacements = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`\s*\bdot\b\s*`), "."},
	{regexp.MustCompile(`\s*\bperiod\b\s*`), "."},
	{regexp.MustCompile(`\s*\bunderscore\b\s*`), "_"},
	{regexp.MustCompile(`\s*\bdash\b\s*`), "-"},
	{regexp.MustCompile(`\s*\bslash\b\s*`), "/"},
	{regexp.MustCompile(`\s*\bbackslash\b\s*`), `\`},
}

// NormalizeSpokenPath rewrites spoken punctuation words into their literal
// characters. Pure text transformation; used for open-file targets only.
func NormalizeSpokenPath(s string) string {
	for _, r := range spokenReplacements {
		s = r.re.ReplaceAllString(s, r.with)
	}
	return s
}
