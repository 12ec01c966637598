package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"dexscreener-telegram-bot/config"
	"dexscreener-telegram-bot/internal/commands"
	"dexscreener-telegram-bot/internal/database"
	"dexscreener-telegram-bot/internal/price"
	"dexscreener-telegram-bot/internal/scheduler"
	"dexscreener-telegram-bot/internal/telegram"
	"dexscreener-telegram-bot/lib/translation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

type BotMetrics struct {
	CommandsProcessed  prometheus.Counter
	MessagesHandled    prometheus.Counter
	TicksSent          prometheus.Counter
	FetchFailures      prometheus.Counter
	ChannelsCount      prometheus.Gauge
	MessagesPerChannel *prometheus.CounterVec
	ChannelsSet        map[int64]string
	Mutex              sync.Mutex
}

var (
	metrics = NewBotMetrics()
)

func init() {
	config.InitConfig()
	setupLogging()
}

func NewBotMetrics() *BotMetrics {
	metrics := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dexscreener",
			Subsystem: "telegram_bot",
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dexscreener",
			Subsystem: "telegram_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
		TicksSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dexscreener",
			Subsystem: "telegram_bot",
			Name:      "ticks_sent",
			Help:      "The total number of scheduled price updates delivered",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dexscreener",
			Subsystem: "telegram_bot",
			Name:      "fetch_failures",
			Help:      "The total number of ticks skipped because the price fetch failed",
		}),
		ChannelsCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dexscreener",
			Subsystem: "telegram_bot",
			Name:      "channels_count",
			Help:      "The current number of unique channels the bot is operating in",
		}),
		MessagesPerChannel: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dexscreener",
				Subsystem: "telegram_bot",
				Name:      "messages_per_channel",
				Help:      "The total number of messages handled per channel",
			},
			[]string{"chat_id", "chat_name"},
		),
		ChannelsSet: make(map[int64]string),
	}

	prometheus.MustRegister(metrics.CommandsProcessed)
	prometheus.MustRegister(metrics.MessagesHandled)
	prometheus.MustRegister(metrics.TicksSent)
	prometheus.MustRegister(metrics.FetchFailures)
	prometheus.MustRegister(metrics.ChannelsCount)
	prometheus.MustRegister(metrics.MessagesPerChannel)

	return metrics
}

func main() {
	translation.Configure("locales", strings.ToLower(config.GetString("lang")))

	token := config.GetString("telegram_bot_token")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	pairAddress := config.GetString("token_address")
	if pairAddress == "" {
		log.Fatal("TOKEN_ADDRESS is required")
	}

	defaultInterval, err := scheduler.ParseInterval(config.GetString("default_interval"))
	if err != nil {
		log.Fatalf("Invalid DEFAULT_INTERVAL: %v", err)
	}

	if err := database.InitDB(config.GetString("db_path")); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	LoadMetricsFromDB()

	prices := price.NewClient(price.ClientConfig{
		BaseURL:     config.GetString("api_base_url"),
		ChainID:     config.GetString("chain_id"),
		PairAddress: pairAddress,
	})

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          token,
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	}, prices)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	updater := scheduler.New(scheduler.Config{
		Sender: bot,
		Update: func() (string, error) {
			snapshot, err := prices.Fetch(context.Background())
			if err != nil {
				return "", err
			}
			return commands.FormatSnapshot(snapshot, prices.ChainID(), prices.PairAddress()), nil
		},
		Store:           database.Schedules{},
		DefaultInterval: defaultInterval,
		OnTickSent:      func(int64) { metrics.TicksSent.Inc() },
		OnTickError:     func(int64) { metrics.FetchFailures.Inc() },
	})
	bot.SetScheduler(updater)

	restoreSchedules(updater)

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}

	go handleUpdates(bot, updates)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			SaveMetricsToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		updater.Shutdown()
		SaveMetricsToDB()
		log.Info("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.InfoLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}

// restoreSchedules reinstates schedules saved by a previous run, best effort.
func restoreSchedules(updater *scheduler.Scheduler) {
	stored, err := database.GetAllSchedules()
	if err != nil {
		log.Errorf("Failed to load stored schedules: %v", err)
		return
	}

	for _, s := range stored {
		updater.Restore(s.ChatID, s.Interval, s.Active)
	}

	if len(stored) > 0 {
		log.Infof("Restored %d chat schedule(s)", len(stored))
	}
}

func handleUpdates(bot *telegram.Bot, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			log.Debug("Received non-command update")
			continue
		}

		metrics.MessagesHandled.Inc()

		chatID := update.Message.Chat.ID
		chatName := update.Message.Chat.Title
		if chatName == "" {
			chatName = fmt.Sprintf("%s-%d", "PrivateChat", chatID)
		}

		updateChannelsSet(chatID, chatName)

		metrics.MessagesPerChannel.WithLabelValues(
			fmt.Sprintf("%d", chatID), chatName,
		).Inc()

		handleCommand(bot, update)
	}
}

func handleCommand(bot *telegram.Bot, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	err := bot.SendMessage(telegram.Message{
		ChatID:    update.Message.Chat.ID,
		Text:      bot.HandleUpdate(update),
		MessageID: update.Message.MessageID,
	})

	if err != nil {
		log.Errorf("Failed to send message: %v", err)
	} else {
		metrics.CommandsProcessed.Inc()
	}
}

func updateChannelsSet(chatID int64, chatName string) {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	if _, exists := metrics.ChannelsSet[chatID]; !exists {
		metrics.ChannelsSet[chatID] = chatName
		metrics.ChannelsCount.Set(float64(len(metrics.ChannelsSet)))
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}

func LoadMetricsFromDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	commandsProcessed, _ := database.GetMetric("commands_processed")
	messagesHandled, _ := database.GetMetric("messages_handled")
	ticksSent, _ := database.GetMetric("ticks_sent")
	fetchFailures, _ := database.GetMetric("fetch_failures")

	metrics.CommandsProcessed.Add(commandsProcessed)
	metrics.MessagesHandled.Add(messagesHandled)
	metrics.TicksSent.Add(ticksSent)
	metrics.FetchFailures.Add(fetchFailures)

	messagesPerChannel, _ := database.GetMetricsWithLabels("messages_per_channel")
	for chatIDStr, byName := range messagesPerChannel {
		for chatName, value := range byName {
			metrics.MessagesPerChannel.WithLabelValues(chatIDStr, chatName).Add(value)

			chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
			if err != nil {
				log.Errorf("Failed to parse chatID %s: %v", chatIDStr, err)
				continue
			}
			metrics.ChannelsSet[chatID] = chatName
		}
	}
	metrics.ChannelsCount.Set(float64(len(metrics.ChannelsSet)))

	log.Info("Metrics loaded from database.")
}

func SaveMetricsToDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	database.SaveMetric("commands_processed", "", "", GetMetricValue(metrics.CommandsProcessed))
	database.SaveMetric("messages_handled", "", "", GetMetricValue(metrics.MessagesHandled))
	database.SaveMetric("ticks_sent", "", "", GetMetricValue(metrics.TicksSent))
	database.SaveMetric("fetch_failures", "", "", GetMetricValue(metrics.FetchFailures))

	metricChan := make(chan prometheus.Metric, 1)
	go func() {
		metrics.MessagesPerChannel.Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Errorf("Failed to read MessagesPerChannel metric: %v", err)
			continue
		}
		var chatID, chatName string
		for _, label := range metricProto.Label {
			if label.GetName() == "chat_id" {
				chatID = label.GetValue()
			}
			if label.GetName() == "chat_name" {
				chatName = label.GetValue()
			}
		}
		database.SaveMetric("messages_per_channel", chatID, chatName, metricProto.Counter.GetValue())
	}

	log.Info("Metrics saved to database.")
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Errorf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
