package gemini

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImagePrompt(t *testing.T) {
	p := ImagePrompt("")
	assert.True(t, strings.HasPrefix(p, "You are an expert shopping assistant. Look at this image"))
	assert.Contains(t, p, "up to 20 online stores")
	assert.NotContains(t, p, "Prioritize local physical stores")
	assert.True(t, strings.HasSuffix(p, "a title, link, image URL, price, and the store name."))
}

func TestImagePrompt_WithLocation(t *testing.T) {
	p := ImagePrompt("Riga, Latvia")
	assert.Contains(t, p, ` Prioritize local physical stores near "Riga, Latvia" if possible, otherwise list online retailers.`)
	assert.True(t, strings.HasSuffix(p, "and the store name."))
}

func TestTextPrompt(t *testing.T) {
	p := TextPrompt(`red "running" shoes`, "")
	assert.Contains(t, p, `The user is looking for "red "running" shoes".`)
	assert.Contains(t, p, "up to 20 online stores")
	assert.NotContains(t, p, "Prioritize")
}

func TestTextPrompt_LocationClauseBeforeDetails(t *testing.T) {
	p := TextPrompt("mug", "Berlin")
	loc := strings.Index(p, `near "Berlin"`)
	details := strings.Index(p, "Provide details")
	assert.Greater(t, loc, 0)
	assert.Greater(t, details, loc)
}
