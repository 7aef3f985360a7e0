package handlers

import (
	"ReferralHub/internal/bot/messages"
	"ReferralHub/internal/bot/moderator"
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func init() {
	moderator.RegisterCallback(NewReviewHandler)
}

// reviewHandler applies the decision encoded in a withdrawal card button.
type reviewHandler struct {
	log    zerolog.Logger
	wallet ports.WalletService
	bot    ports.BotClientPort
}

func NewReviewHandler(deps moderator.Deps, baseLogger *zerolog.Logger) ports.CallbackHandler {
	return &reviewHandler{
		log:    baseLogger.With().Str("component", "review_handler").Logger(),
		wallet: deps.Wallet,
		bot:    deps.Bot,
	}
}

func (h *reviewHandler) Prefix() string {
	return messages.ReviewCallbackPrefix
}

func (h *reviewHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	status, id, err := parseReviewData(*update.CallbackData)
	if err != nil {
		h.log.Warn().Err(err).Str("data", *update.CallbackData).Msg("Malformed review callback")
		return h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            "This button is no longer valid.",
			ShowAlert:       true,
		})
	}

	log := h.log.With().
		Str("withdrawal_id", id.String()).
		Str("status", string(status)).
		Str("admin_id", admin.ID.String()).
		Logger()

	actor := domain.Actor{UserID: admin.ID, Role: admin.Role}
	w, err := h.wallet.ReviewWithdrawal(ctx, actor, domain.Review{WithdrawalID: id, Status: status})
	if err != nil {
		log.Warn().Err(err).Msg("Review from Telegram failed")
		return h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            reviewFailureText(err),
			ShowAlert:       true,
		})
	}
	log.Info().Msg("Withdrawal reviewed from Telegram")

	if err := h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            "Withdrawal " + string(w.Status),
	}); err != nil {
		log.Warn().Err(err).Msg("Failed to answer callback")
	}

	return h.bot.EditMessageText(ctx, ports.EditMessageParams{
		ChatID:    update.ChatID,
		MessageID: update.MessageID,
		Text:      messages.WithdrawalCard(w),
		ParseMode: messages.ParseModeMarkdownV2,
	})
}

// parseReviewData splits "wd_<status>_<uuid>".
func parseReviewData(data string) (domain.WithdrawalStatus, uuid.UUID, error) {
	rest, ok := strings.CutPrefix(data, messages.ReviewCallbackPrefix)
	if !ok {
		return "", uuid.Nil, errors.New("missing review prefix")
	}
	rawStatus, rawID, ok := strings.Cut(rest, "_")
	if !ok {
		return "", uuid.Nil, errors.New("missing withdrawal id")
	}
	status, err := domain.ParseWithdrawalStatus(rawStatus)
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return "", uuid.Nil, err
	}
	return status, id, nil
}

func reviewFailureText(err error) string {
	var (
		insufficient *domain.InsufficientBalanceError
		transition   *domain.TransitionError
	)
	switch {
	case errors.As(err, &insufficient):
		return insufficient.Error()
	case errors.As(err, &transition):
		return transition.Error()
	case errors.Is(err, domain.ErrNotFound):
		return "Withdrawal not found."
	case errors.Is(err, domain.ErrForbidden):
		return "You are not allowed to review withdrawals."
	}
	return "Something went wrong. Please try again."
}
