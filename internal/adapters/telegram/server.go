package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// UpdateHandler processes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

// BotServer long-polls Telegram and fans updates out to a worker pool.
type BotServer struct {
	api     *tgbotapi.BotAPI
	handler UpdateHandler
	workers int
	log     zerolog.Logger
}

func NewBotServer(api *tgbotapi.BotAPI, handler UpdateHandler, workers int, baseLogger *zerolog.Logger) *BotServer {
	if workers < 1 {
		workers = 1
	}
	return &BotServer{
		api:     api,
		handler: handler,
		workers: workers,
		log:     baseLogger.With().Str("component", "bot_server").Logger(),
	}
}

// Start blocks until ctx is cancelled and every in-flight update is done.
func (s *BotServer) Start(ctx context.Context) error {
	s.log.Info().Int("workers", s.workers).Msg("Starting bot in polling mode")

	if _, err := s.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete webhook (continuing anyway)")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}
	updates := s.api.GetUpdatesChan(u)

	jobs := make(chan tgbotapi.Update, 100)
	var wg sync.WaitGroup
	for id := 1; id <= s.workers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.work(ctx, id, jobs)
		}(id)
	}

	for {
		select {
		case <-ctx.Done():
			s.api.StopReceivingUpdates()
			close(jobs)
			wg.Wait()
			s.log.Info().Msg("Polling stopped gracefully")
			return nil
		case update, ok := <-updates:
			if !ok {
				close(jobs)
				wg.Wait()
				return nil
			}
			select {
			case jobs <- update:
			case <-ctx.Done():
			}
		}
	}
}

func (s *BotServer) work(ctx context.Context, id int, jobs <-chan tgbotapi.Update) {
	log := s.log.With().Int("worker_id", id).Logger()
	log.Debug().Msg("Polling worker started")

	for job := range jobs {
		// Updates already taken off the queue finish even during shutdown.
		s.handle(context.WithoutCancel(ctx), &job)
	}
	log.Debug().Msg("Polling worker stopped")
}

func (s *BotServer) handle(ctx context.Context, update *tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Int("update_id", update.UpdateID).Msg("Recovered from panic in update handler")
		}
	}()
	s.handler.HandleUpdate(ctx, update)
}
