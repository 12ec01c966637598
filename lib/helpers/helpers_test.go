package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{time.Minute, "1m"},
		{90 * time.Second, "1m30s"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h30m"},
		{0, "0s"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.d), "duration %s", c.d)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, "1\\.5", EscapeMarkdownV2("1.5"))
	assert.Equal(t, "no escapes", EscapeMarkdownV2("no escapes"))
}

func TestFormatPriceUS(t *testing.T) {
	assert.Equal(t, "1,500", FormatPriceUS(1500, false))
	assert.Equal(t, "2.50", FormatPriceUS(2.5, false))
	assert.Equal(t, "2\\.50", FormatPriceUS(2.5, true))
}
