package telegram

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vet-chatter/internal/auth"
	"vet-chatter/internal/history"
	"vet-chatter/internal/llm"
	"vet-chatter/internal/locale"
	"vet-chatter/internal/relay"
)

type fakeSender struct{ sent []string }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sw := c.(tgbotapi.MessageConfig)
	f.sent = append(f.sent, sw.Text)
	return tgbotapi.Message{}, nil
}

type fakeFetcher struct {
	data    []byte
	err     error
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	f.fetched = append(f.fetched, fileID)
	return f.data, f.err
}

type fakeLLM struct {
	reqs []llm.Request
	err  error
}

func (f *fakeLLM) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: "Newcastle disease. Vaccinate.", Model: "fake"}, nil
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func newTestBot(t *testing.T, model *fakeLLM, files *fakeFetcher) (*Bot, *fakeSender) {
	t.Helper()
	fs := &fakeSender{}
	b := &Bot{
		s:     fs,
		files: files,
		relay: relay.New(model, history.NewManager(), relay.Options{}),
		chats: make(map[int64]*chatState),
	}
	return b, fs
}

func command(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}
}

func TestPhotoThenReply_UsesRememberedPhoto(t *testing.T) {
	model := &fakeLLM{}
	files := &fakeFetcher{data: jpegBytes(t)}
	b, fs := newTestBot(t, model, files)

	photo := &tgbotapi.Message{
		Chat:    &tgbotapi.Chat{ID: 5},
		Caption: "greenish droppings",
		Photo:   []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}},
	}
	b.handleIncomingMessage(context.Background(), photo)

	if len(files.fetched) != 1 || files.fetched[0] != "large" {
		t.Fatalf("largest photo not fetched: %v", files.fetched)
	}
	if len(fs.sent) != 1 || fs.sent[0] != "Newcastle disease. Vaccinate." {
		t.Fatalf("unexpected replies: %v", fs.sent)
	}

	reply := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}, Text: "they are 6 weeks old"}
	b.handleIncomingMessage(context.Background(), reply)

	if len(model.reqs) != 2 {
		t.Fatalf("want 2 model calls, got %d", len(model.reqs))
	}
	if len(model.reqs[1].Image.Data) == 0 {
		t.Fatalf("remembered photo not sent")
	}
	if got := b.relay.History().Len(sessionID(5)); got != 4 {
		t.Fatalf("want 4 turns, got %d", got)
	}
}

func TestTextWithoutPhoto_AsksForPhoto(t *testing.T) {
	model := &fakeLLM{}
	b, fs := newTestBot(t, model, &fakeFetcher{})

	b.handleIncomingMessage(context.Background(), command(9, "/hausa"))
	b.handleIncomingMessage(context.Background(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 9}, Text: "sannu"})

	if len(fs.sent) != 2 {
		t.Fatalf("unexpected replies: %v", fs.sent)
	}
	if fs.sent[0] != locale.Text(locale.Hausa, locale.MsgLangSet) {
		t.Fatalf("language switch not confirmed in hausa: %q", fs.sent[0])
	}
	if fs.sent[1] != locale.Text(locale.Hausa, locale.MsgSendPhoto) {
		t.Fatalf("expected hausa photo prompt, got %q", fs.sent[1])
	}
	if len(model.reqs) != 0 {
		t.Fatalf("model must not be called without a photo")
	}
}

func TestClearCommand_ResetsSessionAndPhoto(t *testing.T) {
	model := &fakeLLM{}
	b, fs := newTestBot(t, model, &fakeFetcher{data: jpegBytes(t)})

	b.handleIncomingMessage(context.Background(), &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 3},
		Photo: []tgbotapi.PhotoSize{{FileID: "p"}},
	})
	b.handleIncomingMessage(context.Background(), command(3, "/clear"))

	if b.relay.History().Len(sessionID(3)) != 0 {
		t.Fatalf("session not cleared")
	}
	if b.state(3).image != nil {
		t.Fatalf("remembered photo not dropped")
	}
	if fs.sent[len(fs.sent)-1] != locale.Text(locale.English, locale.MsgCleared) {
		t.Fatalf("unexpected confirmation: %q", fs.sent[len(fs.sent)-1])
	}
}

func TestUpstreamFailure_SendsLocalizedError(t *testing.T) {
	model := &fakeLLM{err: errors.New("network down")}
	b, fs := newTestBot(t, model, &fakeFetcher{data: jpegBytes(t)})

	b.handleIncomingMessage(context.Background(), &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 4},
		Photo: []tgbotapi.PhotoSize{{FileID: "p"}},
	})
	if len(fs.sent) != 1 || fs.sent[0] != locale.Text(locale.English, locale.MsgUpstreamFailed) {
		t.Fatalf("unexpected replies: %v", fs.sent)
	}
}

func TestFetchFailure(t *testing.T) {
	model := &fakeLLM{}
	b, fs := newTestBot(t, model, &fakeFetcher{err: errors.New("404")})

	b.handleIncomingMessage(context.Background(), &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 8},
		Photo: []tgbotapi.PhotoSize{{FileID: "p"}},
	})
	if len(fs.sent) != 1 || fs.sent[0] != locale.Text(locale.English, locale.MsgInvalidImage) {
		t.Fatalf("unexpected replies: %v", fs.sent)
	}
	if len(model.reqs) != 0 {
		t.Fatalf("model must not be called")
	}
}

func TestAllowlist_BlocksUnknownChats(t *testing.T) {
	model := &fakeLLM{}
	b, fs := newTestBot(t, model, &fakeFetcher{data: jpegBytes(t)})
	b.allow = auth.NewAllowlist([]int64{1})

	b.handleIncomingMessage(context.Background(), &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 2},
		Photo: []tgbotapi.PhotoSize{{FileID: "p"}},
	})
	if len(fs.sent) != 1 || fs.sent[0] != locale.Text(locale.English, locale.MsgNotAllowed) {
		t.Fatalf("unexpected replies: %v", fs.sent)
	}
	if len(model.reqs) != 0 {
		t.Fatalf("blocked chat reached the model")
	}
}
