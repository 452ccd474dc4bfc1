package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beevik/cycle6502/translate"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(translate.SetLanguage("en-US"))
	assert.Equal("Breakpoint added at $1234.", translate.From("Breakpoint added at $%04X.", 0x1234))
	assert.Equal("1,000 cycles", translate.From("%d cycles", 1000))

	assert.NoError(translate.SetLanguage("de"))
	assert.Equal("1.000 cycles", translate.From("%d cycles", 1000))
	assert.Equal("$00FF", translate.From("$%04X", 0xff))
}

func TestSetLanguageInvalid(t *testing.T) {
	assert.Error(t, translate.SetLanguage("not a language tag!"))
}
