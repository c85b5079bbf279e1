package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vet-chatter/internal/auth"
	"vet-chatter/internal/locale"
	"vet-chatter/internal/relay"
)

const (
	cmdStart   = "start"
	cmdClear   = "clear"
	cmdHausa   = "hausa"
	cmdEnglish = "english"
)

// chatState is what the bot remembers per chat between messages: the last
// photo, so text replies can be relayed with it, and the chosen language.
type chatState struct {
	image []byte
	lang  locale.Lang
}

type Bot struct {
	api   *tgbotapi.BotAPI
	s     sender
	files fileFetcher
	relay *relay.Service
	allow *auth.Allowlist

	mu    sync.Mutex
	chats map[int64]*chatState
}

func New(botToken string, svc *relay.Service, allow *auth.Allowlist) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:   api,
		s:     botAPISender{api: api},
		files: botAPIFetcher{api: api, client: &http.Client{Timeout: 30 * time.Second}},
		relay: svc,
		allow: allow,
		chats: make(map[int64]*chatState),
	}, nil
}

// Start consumes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	log.Printf("🤖 Telegram bot @%s started", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleIncomingMessage(ctx, update.Message)
			}
		}
	}
}

func sessionID(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

func (b *Bot) state(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.chats[chatID]
	if !ok {
		st = &chatState{lang: locale.Default}
		b.chats[chatID] = st
	}
	return st
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.allow.IsAllowed(chatID) {
		log.Printf("Unauthorized access attempt from chat %d", chatID)
		b.sendMessage(chatID, locale.Text(locale.Default, locale.MsgNotAllowed))
		return
	}
	st := b.state(chatID)

	b.mu.Lock()
	lang := st.lang
	b.mu.Unlock()

	if msg.IsCommand() {
		b.handleCommand(chatID, msg.Command(), st, lang)
		return
	}

	req := relay.ChatRequest{SessionID: sessionID(chatID), Lang: string(lang)}

	switch {
	case len(msg.Photo) > 0:
		// Telegram lists sizes from smallest to largest.
		photo := msg.Photo[len(msg.Photo)-1]
		data, err := b.files.Fetch(ctx, photo.FileID)
		if err != nil {
			log.Printf("❌ failed to fetch photo for chat %d: %v", chatID, err)
			b.sendMessage(chatID, locale.Text(lang, locale.MsgInvalidImage))
			return
		}
		b.mu.Lock()
		st.image = data
		b.mu.Unlock()
		req.Image = data
		req.UserMessage = msg.Caption
	case msg.Text != "":
		b.mu.Lock()
		img := st.image
		b.mu.Unlock()
		if img == nil {
			b.sendMessage(chatID, locale.Text(lang, locale.MsgSendPhoto))
			return
		}
		req.Image = img
		req.UserReply = msg.Text
	default:
		return
	}

	log.Printf("Incoming message from chat %d (photo=%t)", chatID, len(msg.Photo) > 0)

	res, err := b.relay.Chat(ctx, req)
	if err != nil {
		b.sendMessage(chatID, errorText(err, lang))
		return
	}
	b.sendMessage(chatID, res.Response)
}

func (b *Bot) handleCommand(chatID int64, cmd string, st *chatState, lang locale.Lang) {
	switch cmd {
	case cmdStart:
		b.sendMessage(chatID, locale.Welcome())
	case cmdClear:
		text, err := b.relay.Reset(sessionID(chatID), string(lang))
		if err != nil {
			b.sendMessage(chatID, errorText(err, lang))
			return
		}
		b.mu.Lock()
		st.image = nil
		b.mu.Unlock()
		b.sendMessage(chatID, text)
	case cmdHausa, cmdEnglish:
		newLang := locale.Lang(cmd)
		b.mu.Lock()
		st.lang = newLang
		b.mu.Unlock()
		b.sendMessage(chatID, locale.Text(newLang, locale.MsgLangSet))
	}
}

func errorText(err error, lang locale.Lang) string {
	var vErr *relay.ValidationError
	var upErr *relay.UpstreamError
	switch {
	case errors.As(err, &vErr):
		return vErr.Message()
	case errors.As(err, &upErr):
		return upErr.Message()
	default:
		log.Printf("❌ unexpected relay error: %v", err)
		return locale.Text(lang, locale.MsgInternal)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
