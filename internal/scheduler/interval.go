package scheduler

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// MinInterval is the smallest interval a chat may configure.
const MinInterval = 10 * time.Second

// intervalRe accepts an integer with a seconds/minutes/hours suffix, e.g. 30s, 2m, 1h.
var intervalRe = regexp.MustCompile(`^\d+[smh]$`)

// ErrInvalidInterval marks an interval argument that could not be parsed.
var ErrInvalidInterval = errors.New("invalid interval, use forms like 30s, 2m or 1h")

// ParseInterval parses a user-supplied interval argument.
func ParseInterval(arg string) (time.Duration, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if !intervalRe.MatchString(arg) {
		return 0, ErrInvalidInterval
	}

	d, err := str2duration.ParseDuration(arg)
	if err != nil {
		return 0, ErrInvalidInterval
	}

	if err := ValidateInterval(d); err != nil {
		return 0, err
	}
	return d, nil
}

// ValidateInterval rejects non-positive and too-frequent intervals.
func ValidateInterval(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidInterval
	}
	if d < MinInterval {
		return errors.Errorf("minimum interval is %s", MinInterval)
	}
	return nil
}
