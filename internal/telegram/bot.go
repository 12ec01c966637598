package telegram

import (
	"fmt"

	"dexscreener-telegram-bot/internal/commands"
	"dexscreener-telegram-bot/internal/price"
	"dexscreener-telegram-bot/internal/scheduler"
	"dexscreener-telegram-bot/lib/helpers"
	"dexscreener-telegram-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig, prices *price.Client) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:    bot,
		Config: c,
		prices: prices,
	}, nil
}

// SetScheduler attaches the update scheduler. The scheduler is constructed
// after the bot because it sends through it.
func (b *Bot) SetScheduler(s *scheduler.Scheduler) {
	b.scheduler = s
}

// GetUpdatesChannel gets new updates updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(m.ChatID, m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// Send implements scheduler.Sender for scheduled ticks.
func (b *Bot) Send(chatID int64, text string) error {
	return b.SendMessage(Message{ChatID: chatID, Text: text})
}

// HandleUpdate processes Telegram updates
func (b *Bot) HandleUpdate(u tgbotapi.Update) string {
	chatID := u.Message.Chat.ID
	log.Debugf("received command: %s", u.Message.Command())

	switch u.Message.Command() {
	case "start":
		interval := b.scheduler.Start(chatID)
		return fmt.Sprintf(
			helpers.EscapeMarkdownV2(translation.Translate("Started price updates every %s.")),
			helpers.FormatDuration(interval),
		)

	case "stop":
		if !b.scheduler.Stop(chatID) {
			return helpers.EscapeMarkdownV2(translation.Translate("Updates are not running."))
		}
		return helpers.EscapeMarkdownV2(translation.Translate("Stopped price updates."))

	case "price":
		text, err := commands.CommandPrice(b.prices)
		if err != nil {
			log.Error(err)
			return helpers.EscapeMarkdownV2(translation.Translate("Could not fetch the price right now, try again later."))
		}
		return text

	case "setinterval":
		return b.handleSetInterval(chatID, u.Message.CommandArguments())

	case "status":
		active, interval := b.scheduler.Status(chatID)
		return commands.CommandStatus(active, interval)
	}

	return commands.CommandHelp()
}

func (b *Bot) handleSetInterval(chatID int64, argument string) string {
	interval, err := scheduler.ParseInterval(argument)
	if err != nil {
		log.Debugf("rejected interval %q for chat %d: %v", argument, chatID, err)
		return helpers.EscapeMarkdownV2(fmt.Sprintf(
			translation.Translate("Cannot use %q: %s. Schedule unchanged."),
			argument, err,
		))
	}

	if err := b.scheduler.SetInterval(chatID, interval); err != nil {
		return helpers.EscapeMarkdownV2(fmt.Sprintf(
			translation.Translate("Cannot use %q: %s. Schedule unchanged."),
			argument, err,
		))
	}

	active, _ := b.scheduler.Status(chatID)
	if !active {
		return fmt.Sprintf(
			helpers.EscapeMarkdownV2(translation.Translate("Interval set to %s. Send /start to begin updates.")),
			helpers.FormatDuration(interval),
		)
	}
	return fmt.Sprintf(
		helpers.EscapeMarkdownV2(translation.Translate("Interval set to %s.")),
		helpers.FormatDuration(interval),
	)
}
