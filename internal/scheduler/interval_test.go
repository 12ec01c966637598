package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntervalValid(t *testing.T) {
	cases := []struct {
		arg  string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"10s", 10 * time.Second},
		{"2m", 2 * time.Minute},
		{"90m", 90 * time.Minute},
		{"1h", time.Hour},
		{"24h", 24 * time.Hour},
		{" 30s ", 30 * time.Second},
		{"2M", 2 * time.Minute},
	}

	for _, c := range cases {
		d, err := ParseInterval(c.arg)
		require.NoError(t, err, "arg %q", c.arg)
		assert.Equal(t, c.want, d, "arg %q", c.arg)
	}
}

func TestParseIntervalInvalid(t *testing.T) {
	cases := []string{
		"",
		"30",
		"s30",
		"30x",
		"-30s",
		"1.5m",
		"30 s",
		"1h30m",
		"abc",
	}

	for _, arg := range cases {
		_, err := ParseInterval(arg)
		assert.Error(t, err, "arg %q", arg)
	}
}

func TestParseIntervalBelowMinimum(t *testing.T) {
	_, err := ParseInterval("5s")
	require.Error(t, err)
	require.Contains(t, err.Error(), "minimum interval")
}

func TestValidateInterval(t *testing.T) {
	assert.Error(t, ValidateInterval(0))
	assert.Error(t, ValidateInterval(-time.Second))
	assert.Error(t, ValidateInterval(9*time.Second))
	assert.NoError(t, ValidateInterval(MinInterval))
	assert.NoError(t, ValidateInterval(time.Hour))
}
