package commands

import (
	"dexscreener-telegram-bot/lib/translation"
)

// CommandHelp handles /help and any unrecognized command.
func CommandHelp() string {
	return escapeMarkdownV2(translation.Translate(
		"Commands:\n" +
			"/start - begin periodic price updates\n" +
			"/stop - stop periodic price updates\n" +
			"/price - show the current price now\n" +
			"/setinterval <duration> - change the update interval (30s, 2m, 1h)\n" +
			"/status - show the current schedule\n" +
			"/help - this message",
	))
}
