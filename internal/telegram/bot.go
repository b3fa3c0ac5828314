// Package telegram is the chat front end: inbound operator messages become
// dispatched commands, every message gets an acknowledgement or a refusal.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ashborn/internal/brain"
)

const usageReply = "Unknown command. Try:\nbuy SOL 0.2\nsell DOGE 1.0\nstatus\nrebalance"

// Dispatcher is the command sink; satisfied by brain.Brain.
type Dispatcher interface {
	Handle(ctx context.Context, cmd brain.Command)
}

type Bot struct {
	botName string
	token   string
	chatID  int64 // the single authorized operator
	backoff time.Duration
	disp    Dispatcher
	log     *zap.Logger
}

// New fails fast when the token is missing; only this front end refuses to
// start, the rest of the process is unaffected.
func New(botName, token string, chatID int64, backoff time.Duration, disp Dispatcher, log *zap.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram: bot token not configured")
	}
	return &Bot{
		botName: botName,
		token:   token,
		chatID:  chatID,
		backoff: backoff,
		disp:    disp,
		log:     log.Named("telegram"),
	}, nil
}

// Run keeps a polling session alive until ctx is cancelled. Transport errors
// are retried forever with a fixed backoff.
func (b *Bot) Run(ctx context.Context) {
	for {
		if err := b.session(ctx); err != nil {
			b.log.Warn("telegram session ended", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			b.log.Info("telegram bot stopped")
			return
		case <-time.After(b.backoff):
			b.log.Info("reconnecting telegram session")
		}
	}
}

func (b *Bot) session(ctx context.Context) error {
	api, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("telegram: connect: %w", err)
	}
	b.log.Info("telegram polling started", zap.String("username", api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram: update channel closed")
			}
			if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
				continue
			}
			reply, cmd := b.handleText(update.Message.From.ID, update.Message.Text)
			if reply != "" {
				msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
				if _, err := api.Send(msg); err != nil {
					b.log.Warn("telegram reply failed", zap.Error(err))
				}
			}
			if cmd != nil {
				b.log.Info("executing telegram command",
					zap.String("action", string(cmd.Action)),
					zap.String("token", cmd.Token))
				b.disp.Handle(ctx, *cmd)
			}
		}
	}
}

// handleText decides the reply and whether a command reaches the dispatcher.
// Unauthorized senders and unknown commands never reach it.
func (b *Bot) handleText(userID int64, text string) (string, *brain.Command) {
	if userID != b.chatID {
		b.log.Warn("unauthorized user tried to send command", zap.Int64("user_id", userID))
		return fmt.Sprintf("Sorry, you're not allowed to control %s.", b.botName), nil
	}

	cmd := brain.Parse(text)
	if cmd.Action == brain.Unknown {
		return usageReply, nil
	}

	var parts []string
	parts = append(parts, string(cmd.Action))
	if cmd.Token != "" {
		parts = append(parts, cmd.Token)
	}
	if cmd.Amount != nil {
		parts = append(parts, fmt.Sprintf("%g", *cmd.Amount))
	}
	ack := fmt.Sprintf("%s accepted %s", b.botName, strings.Join(parts, " "))
	return ack, &cmd
}
