package telegram

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type panickyHandler struct{ calls int }

func (h *panickyHandler) HandleUpdate(context.Context, *tgbotapi.Update) {
	h.calls++
	panic("boom")
}

func TestBotServer_HandleRecoversPanics(t *testing.T) {
	log := zerolog.Nop()
	h := &panickyHandler{}
	s := NewBotServer(nil, h, 0, &log)

	assert.Equal(t, 1, s.workers)
	assert.NotPanics(t, func() {
		s.handle(context.Background(), &tgbotapi.Update{UpdateID: 3})
	})
	assert.Equal(t, 1, h.calls)
}

func TestBotServer_WorkDrainsQueue(t *testing.T) {
	log := zerolog.Nop()
	h := &countingHandler{}
	s := NewBotServer(nil, h, 2, &log)

	jobs := make(chan tgbotapi.Update, 3)
	jobs <- tgbotapi.Update{UpdateID: 1}
	jobs <- tgbotapi.Update{UpdateID: 2}
	jobs <- tgbotapi.Update{UpdateID: 3}
	close(jobs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.work(ctx, 1, jobs)

	assert.Equal(t, []int{1, 2, 3}, h.ids)
}

type countingHandler struct{ ids []int }

func (h *countingHandler) HandleUpdate(ctx context.Context, u *tgbotapi.Update) {
	if ctx.Err() == nil {
		h.ids = append(h.ids, u.UpdateID)
	}
}
