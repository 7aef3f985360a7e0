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

const helpText = "Hi %s\\!\n\n" +
	"New withdrawal requests are posted to the admin chat with review buttons\\.\n\n" +
	"✅ *Approve* debits the user's balance\\.\n" +
	"🏦 *Mark processed* records a payout settled outside the wallet and leaves the balance untouched\\.\n" +
	"❌ *Reject* leaves the balance untouched\\.\n\n" +
	"/pending lists requests still waiting for review\\."

func init() {
	moderator.RegisterCommand(newHelpHandler("start"))
	moderator.RegisterCommand(newHelpHandler("help"))
}

type helpHandler struct {
	command string
	bot     ports.BotClientPort
}

func newHelpHandler(command string) moderator.CommandHandlerConstructor {
	return func(deps moderator.Deps, _ *zerolog.Logger) ports.CommandHandler {
		return &helpHandler{command: command, bot: deps.Bot}
	}
}

func (h *helpHandler) Command() string { return h.command }

func (h *helpHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	text := fmt.Sprintf(helpText, messages.EscapeMarkdown(admin.Name))
	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(text).Build())
	return err
}
