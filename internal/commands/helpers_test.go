package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, "a\\.b\\-c", escapeMarkdownV2("a.b-c"))
	assert.Equal(t, "plain text", escapeMarkdownV2("plain text"))
	assert.Equal(t, "\\*bold\\*", escapeMarkdownV2("*bold*"))
}

func TestFormatPriceUS(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{1500, "1,500"},
		{2.5, "2.50"},
		{0.5, "0.500000"},
		{0.000001, "0.00000100"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, formatPriceUS(c.price, false), "price %f", c.price)
	}

	assert.Equal(t, "2\\.50", formatPriceUS(2.5, true))
}

func TestFormatUSDCompact(t *testing.T) {
	assert.Equal(t, "2,345,000", formatUSDCompact(2345000))
	assert.Equal(t, "123,456", formatUSDCompact(123456.78))
	assert.Equal(t, "0", formatUSDCompact(0))
}
