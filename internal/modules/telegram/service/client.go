package service

import (
	"context"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"sinaleiro/internal/models"
	"sinaleiro/internal/modules/config"
	"sinaleiro/pkg/logger"
)

// Telegram wraps one bot session: long-polled inbound updates from the
// source chat and plain sends to the target chat.
type Telegram struct {
	bot          *tgbot.BotAPI
	sourceChatID int64
	targetChatID int64

	inbound chan models.Inbound
}

func NewTelegram(cfg *config.Config) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram auth")
	}

	return &Telegram{
		bot:          b,
		sourceChatID: cfg.Telegram.SourceChatID,
		targetChatID: cfg.Telegram.TargetChatID,
		inbound:      make(chan models.Inbound, 256),
	}, nil
}

func (t *Telegram) Inbound() <-chan models.Inbound { return t.inbound }

// Start: long-polling loop. Messages from any chat other than the
// source are ignored; the source may be a group (Message) or a channel
// (ChannelPost).
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message", "channel_post"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				msg := upd.Message
				if msg == nil {
					msg = upd.ChannelPost
				}
				if msg == nil || msg.Chat == nil || msg.Chat.ID != t.sourceChatID {
					continue
				}

				text := msg.Text
				if text == "" {
					text = msg.Caption
				}

				in := models.Inbound{
					MessageID: msg.MessageID,
					ChatID:    msg.Chat.ID,
					Text:      text,
					HasMedia:  len(msg.Photo) > 0 || msg.Document != nil || msg.Video != nil,
					When:      time.Unix(int64(msg.Date), 0),
				}

				select {
				case t.inbound <- in:
				default:
					logger.Warn("[TG] inbound buffer full, dropping message %d", msg.MessageID)
				}
			}
		}
	}()
}

// Stop ends the long poll; the update channel closes and the inbound
// goroutine drains out. The inbound channel itself is left open, its
// consumers exit on context cancellation.
func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}

func (t *Telegram) SendText(text string) error {
	_, err := t.bot.Send(tgbot.NewMessage(t.targetChatID, text))
	return errors.Wrap(err, "send text")
}

func (t *Telegram) SendFile(path, caption string) error {
	doc := tgbot.NewDocument(t.targetChatID, tgbot.FilePath(path))
	doc.Caption = caption
	_, err := t.bot.Send(doc)
	return errors.Wrap(err, "send file")
}

// Copy re-posts a source-chat message into the target chat without the
// "forwarded from" header, media included.
func (t *Telegram) Copy(messageID int) error {
	_, err := t.bot.Send(tgbot.NewCopyMessage(t.targetChatID, t.sourceChatID, messageID))
	return errors.Wrap(err, "copy message")
}
