package commands

import (
	"fmt"
	"time"

	"dexscreener-telegram-bot/lib/helpers"
	"dexscreener-telegram-bot/lib/translation"

	log "github.com/sirupsen/logrus"
)

// CommandStatus handles /status: reports the schedule state without side effects.
func CommandStatus(active bool, interval time.Duration) string {
	log.Debugf("processing command /status (active=%v interval=%s)", active, interval)

	if !active {
		return fmt.Sprintf(
			escapeMarkdownV2(translation.Translate("Updates are stopped. Interval is %s. Send /start to begin.")),
			helpers.FormatDuration(interval),
		)
	}
	return fmt.Sprintf(
		escapeMarkdownV2(translation.Translate("Updates are running every %s.")),
		helpers.FormatDuration(interval),
	)
}
