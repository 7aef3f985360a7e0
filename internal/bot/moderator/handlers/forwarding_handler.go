package handlers

import (
	"ReferralHub/internal/bot/messages"
	"ReferralHub/internal/bot/moderator"
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

func init() {
	moderator.RegisterSubscriber(NewForwardingHandler)
}

// forwardingHandler posts every new withdrawal to the admin chat.
type forwardingHandler struct {
	log         zerolog.Logger
	bot         ports.BotClientPort
	adminChatID int64
}

func NewForwardingHandler(deps moderator.Deps, baseLogger *zerolog.Logger) moderator.Subscriber {
	return &forwardingHandler{
		log:         baseLogger.With().Str("component", "forwarding_handler").Logger(),
		bot:         deps.Bot,
		adminChatID: deps.AdminChatID,
	}
}

func (h *forwardingHandler) Topic() string {
	return ports.TopicWithdrawalRequested
}

func (h *forwardingHandler) Handle(ctx context.Context, event ports.Event) error {
	w, ok := event.Data.(*domain.Withdrawal)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Data, event.Topic)
	}

	msg := messages.NewBuilder(h.adminChatID).
		WithText(messages.WithdrawalCard(w)).
		WithInlineButtons(messages.ReviewButtons(w)).
		Build()
	msgID, err := h.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("forward withdrawal %s: %w", w.ID, err)
	}

	h.log.Info().
		Str("withdrawal_id", w.ID.String()).
		Int("message_id", msgID).
		Msg("Withdrawal forwarded to admin chat")
	return nil
}
