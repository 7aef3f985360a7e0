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
	moderator.RegisterSubscriber(NewNotifyHandler)
}

// notifyHandler tells the owner of a withdrawal that it was reviewed, if
// they have linked a Telegram account.
type notifyHandler struct {
	log   zerolog.Logger
	users ports.UserRepository
	bot   ports.BotClientPort
}

func NewNotifyHandler(deps moderator.Deps, baseLogger *zerolog.Logger) moderator.Subscriber {
	return &notifyHandler{
		log:   baseLogger.With().Str("component", "notify_handler").Logger(),
		users: deps.Users,
		bot:   deps.Bot,
	}
}

func (h *notifyHandler) Topic() string {
	return ports.TopicWithdrawalReviewed
}

func (h *notifyHandler) Handle(ctx context.Context, event ports.Event) error {
	ev, ok := event.Data.(*domain.WithdrawalReviewed)
	if !ok || ev.Withdrawal == nil {
		return fmt.Errorf("unexpected payload %T for %s", event.Data, event.Topic)
	}
	w := ev.Withdrawal

	owner, err := h.users.GetByID(ctx, w.UserID)
	if err != nil {
		return fmt.Errorf("load owner of withdrawal %s: %w", w.ID, err)
	}
	if owner.TelegramID == nil {
		return nil
	}

	msg := messages.NewBuilder(*owner.TelegramID).
		WithText(messages.OwnerNotification(w)).
		Build()
	if _, err := h.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("notify owner of withdrawal %s: %w", w.ID, err)
	}

	h.log.Info().
		Str("withdrawal_id", w.ID.String()).
		Str("status", string(w.Status)).
		Msg("Owner notified of review")
	return nil
}
