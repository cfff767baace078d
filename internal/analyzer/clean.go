package analyzer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)in general,?`),
	regexp.MustCompile(`(?i)typically,?`),
	regexp.MustCompile(`(?i)it is important to note,?`),
	regexp.MustCompile(`(?i)there are several types of`),
	regexp.MustCompile(`(?i)in the case of`),
	regexp.MustCompile(`(?i)for example,?`),
	regexp.MustCompile(`(?i)such as`),
	regexp.MustCompile(`(?i)and so on`),
	regexp.MustCompile(`(?i)etc\.?`),
}

// Clean strips filler phrases, normalises whitespace, capitalises the first
// character and terminates the text with a period. It runs to a fixed point,
// so Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	for {
		next := cleanOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func cleanOnce(text string) string {
	for _, p := range fillerPatterns {
		text = p.ReplaceAllString(text, "")
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(text)
	text = string(unicode.ToUpper(r)) + text[size:]
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text
}
