package moderator

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ModeratorRouter authorizes every update against the user table and
// dispatches it to a command or callback handler.
type ModeratorRouter struct {
	log              zerolog.Logger
	userRepo         ports.UserRepository
	botClient        ports.BotClientPort
	commandHandlers  map[string]ports.CommandHandler
	callbackHandlers []ports.CallbackHandler
}

func NewModeratorRouter(
	userRepo ports.UserRepository,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) *ModeratorRouter {
	return &ModeratorRouter{
		log:             baseLogger.With().Str("component", "moderator_router").Logger(),
		userRepo:        userRepo,
		botClient:       botClient,
		commandHandlers: make(map[string]ports.CommandHandler),
	}
}

func (r *ModeratorRouter) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered moderator command")
}

func (r *ModeratorRouter) RegisterCallbackHandler(handler ports.CallbackHandler) {
	r.callbackHandlers = append(r.callbackHandlers, handler)
	r.log.Info().Str("prefix", handler.Prefix()).Msg("Registered moderator callback")
}

// HandleUpdate is the entry point for every update the poller receives.
func (r *ModeratorRouter) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	botUpdate, ok := parseUpdate(update)
	if !ok {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Ignoring unsupported update type")
		return
	}

	log := r.log.With().
		Int64("tg_user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Logger()
	ctx = log.WithContext(ctx)

	admin, err := r.userRepo.GetByTelegramID(ctx, botUpdate.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		log.Warn().Msg("Unknown Telegram user tried to use the moderator bot")
		r.deny(ctx, botUpdate)
		return
	case err != nil:
		log.Error().Err(err).Msg("Failed to load user for authorization")
		return
	case !admin.IsAdmin():
		log.Warn().Str("user_id", admin.ID.String()).Msg("Non-admin tried to use the moderator bot")
		r.deny(ctx, botUpdate)
		return
	}
	log = log.With().Str("admin_id", admin.ID.String()).Logger()

	if botUpdate.CallbackData != nil {
		for _, h := range r.callbackHandlers {
			if strings.HasPrefix(*botUpdate.CallbackData, h.Prefix()) {
				if err := h.Handle(ctx, botUpdate, admin); err != nil {
					log.Error().Err(err).Str("prefix", h.Prefix()).Msg("Callback handler failed")
				}
				return
			}
		}
		log.Warn().Str("data", *botUpdate.CallbackData).Msg("No handler for callback data")
		return
	}

	if botUpdate.Command != "" {
		if h, ok := r.commandHandlers[botUpdate.Command]; ok {
			if err := h.Handle(ctx, botUpdate, admin); err != nil {
				log.Error().Err(err).Str("command", botUpdate.Command).Msg("Command handler failed")
			}
			return
		}
	}

	log.Debug().Str("text", botUpdate.Text).Msg("Unhandled moderator message")
}

func (r *ModeratorRouter) deny(ctx context.Context, u *ports.BotUpdate) {
	if u.CallbackQueryID != "" {
		_ = r.botClient.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: u.CallbackQueryID,
			Text:            "You are not allowed to review withdrawals.",
			ShowAlert:       true,
		})
	}
}

func parseUpdate(update *tgbotapi.Update) (*ports.BotUpdate, bool) {
	if cb := update.CallbackQuery; cb != nil {
		if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
			return nil, false
		}
		data := cb.Data
		return &ports.BotUpdate{
			MessageID:       cb.Message.MessageID,
			ChatID:          cb.Message.Chat.ID,
			UserID:          cb.From.ID,
			CallbackQueryID: cb.ID,
			CallbackData:    &data,
		}, true
	}

	if msg := update.Message; msg != nil {
		if msg.From == nil || msg.Chat == nil {
			return nil, false
		}
		return &ports.BotUpdate{
			MessageID: msg.MessageID,
			ChatID:    msg.Chat.ID,
			UserID:    msg.From.ID,
			Text:      msg.Text,
			Command:   msg.Command(),
		}, true
	}

	return nil, false
}
