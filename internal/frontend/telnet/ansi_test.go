package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mghoul\033[0m", Colorize(Red, "ghoul"))
}

func TestColorf(t *testing.T) {
	assert.Equal(t, "\033[32mHP 42\033[0m", Colorf(Green, "HP %d", 42))
}

func TestStripANSI(t *testing.T) {
	input := "\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m"
	assert.Equal(t, "red normal bold green", StripANSI(input))
	assert.Equal(t, "plain text", StripANSI("plain text"))
	assert.Equal(t, "", StripANSI(""))
	assert.Equal(t, "\033[31", StripANSI("\033[31"), "unterminated sequence kept")
}

func TestMeter(t *testing.T) {
	assert.Equal(t, "[#####-----]", Meter(15, 30, 10))
	assert.Equal(t, "[##########]", Meter(45, 30, 10))
	assert.Equal(t, "[----------]", Meter(-3, 30, 10))
	assert.Equal(t, "[----]", Meter(5, 0, 4))
}

// Property: StripANSI(Colorize(color, text)) == text for any ASCII text.
func TestPropertyStripANSIInversesColorize(t *testing.T) {
	colors := []string{Red, Green, Blue, Yellow, Cyan, Magenta, White, Bold, Dim, BrightRed}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,50}`).Draw(t, "text")
		color := rapid.SampledFrom(colors).Draw(t, "color")
		assert.Equal(t, text, StripANSI(Colorize(color, text)))
	})
}

// Property: Meter always renders exactly width cells between brackets.
func TestPropertyMeterWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(0, 40).Draw(t, "width")
		m := Meter(rapid.IntRange(-50, 200).Draw(t, "value"), rapid.IntRange(-5, 100).Draw(t, "limit"), width)
		assert.Len(t, m, width+2)
	})
}

// Property: StripANSI output length <= input length.
func TestPropertyStripANSIOutputShorterOrEqual(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		assert.LessOrEqual(t, len(StripANSI(text)), len(text))
	})
}
