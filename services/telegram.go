package services

import (
	context2 "context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/requiem-ai/hfchat/context"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tb "gopkg.in/telebot.v3"
)

const (
	TELEGRAM_SVC = "telegram_svc"

	// Telegram rejects messages longer than this many characters.
	maxTelegramMessage = 4096

	telegramHelp = "Send any text and I will forward it to the model. There is no memory between messages."
)

// TelegramService relays text messages to the inference service and replies
// with the rendered outcome.
type TelegramService struct {
	context.DefaultService

	Bot *tb.Bot

	inference     *InferenceService
	allowedUserID int64

	mu      sync.Mutex
	started bool
}

func (svc *TelegramService) Id() string {
	return TELEGRAM_SVC
}

func (svc *TelegramService) Configure(ctx *context.Context) (err error) {
	if err := svc.DefaultService.Configure(ctx); err != nil {
		return err
	}

	setup, ok := svc.Service(SETUP_SVC).(*SetupService)
	if !ok {
		return errors.New("setup service not registered")
	}
	cfg := setup.Config()
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_SECRET not set")
	}
	svc.allowedUserID = cfg.AllowedUserID

	inference, ok := svc.Service(INFERENCE_SVC).(*InferenceService)
	if !ok {
		return errors.New("inference service not registered")
	}
	svc.inference = inference

	svc.Bot, err = tb.NewBot(tb.Settings{
		Token: cfg.TelegramToken,
		Poller: &tb.LongPoller{
			Timeout: 30 * time.Second,
		},
		OnError: func(err error, c tb.Context) {
			decorateTelegramEvent(log.Error().Err(err), c).Msg("telegram bot error")
		},
	})
	return err
}

// Start blocks while the poller runs.
func (svc *TelegramService) Start() error {
	svc.Bot.Handle("/start", svc.guardHandler(svc.onHelp))
	svc.Bot.Handle("/help", svc.guardHandler(svc.onHelp))
	svc.Bot.Handle(tb.OnText, svc.guardHandler(svc.onText))

	svc.mu.Lock()
	svc.started = true
	svc.mu.Unlock()

	log.Info().Str("bot", svc.Bot.Me.Username).Msg("telegram relay online")
	svc.Bot.Start()

	return nil
}

// Shutdown stops the poller. Bot.Stop blocks until a running poller takes
// the stop signal, so it is skipped when Start never ran.
func (svc *TelegramService) Shutdown() {
	svc.mu.Lock()
	started := svc.started
	svc.mu.Unlock()

	if svc.Bot == nil || !started {
		return
	}
	svc.Bot.Stop()
}

func (svc *TelegramService) guardHandler(fn tb.HandlerFunc) tb.HandlerFunc {
	return func(c tb.Context) error {
		decorateTelegramEvent(log.Debug(), c).Msg("inbound telegram update")

		allowed, reason := isAllowedUser(c.Sender(), svc.Bot.Me.ID, svc.allowedUserID)
		if !allowed {
			decorateTelegramEvent(
				log.Warn().
					Str("reason", reason).
					Int64("allowed_user_id", svc.allowedUserID),
				c,
			).Msg("telegram update blocked")
			return nil
		}

		if err := fn(c); err != nil {
			decorateTelegramEvent(log.Error().Err(err), c).Msg("telegram handler returned error")
			return err
		}

		return nil
	}
}

func (svc *TelegramService) onHelp(c tb.Context) error {
	return c.Send(telegramHelp)
}

func (svc *TelegramService) onText(c tb.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}

	input := strings.TrimSpace(msg.Text)
	if input == "" || strings.HasPrefix(input, "/") {
		return nil
	}

	_ = c.Notify(tb.Typing)

	outcome := svc.inference.Run(svc.requestContext(), input)
	return c.Send(truncateMessage(outcome.Text, maxTelegramMessage))
}

func (svc *TelegramService) requestContext() context2.Context {
	if ctx := svc.Context(); ctx != nil {
		return ctx.Base()
	}
	return context2.Background()
}

// isAllowedUser applies the optional single-user restriction. allowedID 0
// lets everyone except the bot itself through.
func isAllowedUser(sender *tb.User, botID int64, allowedID int64) (bool, string) {
	if sender == nil {
		return false, "missing_sender"
	}
	if sender.ID == botID {
		return false, "sender_is_bot"
	}
	if allowedID != 0 && sender.ID != allowedID {
		return false, "sender_not_allowed"
	}
	return true, ""
}

// truncateMessage cuts s to at most limit runes, marking the cut with an ellipsis.
func truncateMessage(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

func decorateTelegramEvent(event *zerolog.Event, c tb.Context) *zerolog.Event {
	if event == nil || c == nil {
		return event
	}

	if chat := c.Chat(); chat != nil {
		event = event.Int64("chat_id", chat.ID).Str("chat_type", string(chat.Type))
	}

	if sender := c.Sender(); sender != nil {
		event = event.Int64("user_id", sender.ID).Str("sender_username", sender.Username)
	}

	if msg := c.Message(); msg != nil {
		event = event.Int("message_id", msg.ID).Str("message_text", msg.Text)
	}

	return event
}
