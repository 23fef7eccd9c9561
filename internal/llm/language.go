package llm

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var englishNames = display.Tags(language.English)

// LanguageName turns a language tag such as "de" or "pt-BR" into its English name.
// Values that are not valid tags, such as "French", are returned unchanged.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := englishNames.Name(tag); name != "" {
		return name
	}
	return code
}
