package llm

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var piecePattern = regexp.MustCompile(`\s*\S+`)

// WhitespaceTokenizer encodes text into whitespace-delimited pieces. Remote
// backends receive plain text, so the pieces only serve for truncation and
// for keeping prompt and continuation apart.
type WhitespaceTokenizer struct{}

func (WhitespaceTokenizer) Encode(text string, maxLength int) (Tokens, error) {
	if !utf8.ValidString(text) {
		return nil, errors.New("input is not valid UTF-8")
	}
	tokens := tokenize(text)
	if maxLength > 0 && len(tokens) > maxLength {
		tokens = tokens[:maxLength]
	}
	return tokens, nil
}

func (WhitespaceTokenizer) Decode(tokens Tokens, skipSpecial bool) (string, error) {
	text := strings.Join(tokens, "")
	if skipSpecial {
		text = strings.ReplaceAll(text, EOS, "")
	}
	return text, nil
}

func tokenize(text string) Tokens {
	return Tokens(piecePattern.FindAllString(text, -1))
}

// appendContinuation returns prompt followed by the pieces of text and EOS.
func appendContinuation(prompt Tokens, text string) Tokens {
	out := make(Tokens, 0, len(prompt)+8)
	out = append(out, prompt...)
	out = append(out, tokenize(text)...)
	return append(out, EOS)
}
