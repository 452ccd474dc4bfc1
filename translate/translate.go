// Package translate formats user-facing messages for the locale of the
// current user.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("cycle6502: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// SetLanguage replaces the printer used by From with one for the
// requested language tag.
func SetLanguage(tag string) error {
	t, err := language.Parse(tag)
	if err != nil {
		return err
	}
	printer = message.NewPrinter(t)
	return nil
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
