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

// maxPendingCards caps how many cards one /pending call posts.
const maxPendingCards = 20

func init() {
	moderator.RegisterCommand(NewPendingHandler)
}

type pendingHandler struct {
	log    zerolog.Logger
	wallet ports.WalletService
	bot    ports.BotClientPort
}

func NewPendingHandler(deps moderator.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &pendingHandler{
		log:    baseLogger.With().Str("component", "pending_handler").Logger(),
		wallet: deps.Wallet,
		bot:    deps.Bot,
	}
}

func (h *pendingHandler) Command() string {
	return "pending"
}

// Handle posts one reviewable card per pending withdrawal, oldest first.
func (h *pendingHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	pending := domain.StatusPending
	actor := domain.Actor{UserID: admin.ID, Role: admin.Role}

	list, err := h.wallet.ListAllWithdrawals(ctx, actor, domain.WithdrawalFilter{Status: &pending})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list pending withdrawals")
		_, sendErr := h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
			WithText("Could not load pending withdrawals\\. Please try again\\.").
			Build())
		return sendErr
	}

	if len(list) == 0 {
		_, err := h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).
			WithText("No pending withdrawals 🎉").
			Build())
		return err
	}

	header := fmt.Sprintf("*%d pending withdrawal\\(s\\)*", len(list))
	if len(list) > maxPendingCards {
		header += fmt.Sprintf("\nShowing the oldest %d\\.", maxPendingCards)
		list = list[len(list)-maxPendingCards:]
	}
	if _, err := h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(header).Build()); err != nil {
		return err
	}

	// List is newest first.
	for i := len(list) - 1; i >= 0; i-- {
		w := list[i]
		msg := messages.NewBuilder(update.ChatID).
			WithText(messages.WithdrawalCard(w)).
			WithInlineButtons(messages.ReviewButtons(w)).
			Build()
		if _, err := h.bot.SendMessage(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
