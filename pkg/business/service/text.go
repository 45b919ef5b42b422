package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type ITextService interface {
	Normalize(input string) string
	StripAccents(input string) string
	CollapseWhitespace(input string) string
	RemoveSpecialChars(input string) string
	ComposeTitle(brand, model string) string
}

// TextService normalizes listing text before similarity scoring. Channel
// exports disagree on casing, accents and spacing for the same physical item,
// so every comparison goes through Normalize first.
type TextService struct{}

func NewTextService() *TextService {
	return &TextService{}
}

func (ts *TextService) Normalize(input string) string {
	folded := cases.Fold().String(ts.StripAccents(input))
	return ts.CollapseWhitespace(folded)
}

func (ts *TextService) StripAccents(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}

func (ts *TextService) CollapseWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func (ts *TextService) RemoveSpecialChars(input string) string {
	re := regexp.MustCompile(`[(),."'|/\-+&]`)
	return re.ReplaceAllString(input, " ")
}

// ComposeTitle synthesizes a display title for listings that carry none.
func (ts *TextService) ComposeTitle(brand, model string) string {
	return ts.CollapseWhitespace(strings.TrimSpace(brand + " " + model))
}
