package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigit(t *testing.T) {
	for n := 0; n <= 9; n++ {
		d, ok := Digit(n).AsDigit()
		assert.True(t, ok)
		assert.Equal(t, n, d)
	}

	for _, c := range []Command{Wrap, Command("digit"), Command("digit12"), Command("digitx")} {
		_, ok := c.AsDigit()
		assert.False(t, ok, c)
	}
}

func TestIsNavigation(t *testing.T) {
	assert.True(t, NavigateUp.IsNavigation())
	assert.False(t, Wrap.IsNavigation())
	assert.False(t, Digit(3).IsNavigation())
}
