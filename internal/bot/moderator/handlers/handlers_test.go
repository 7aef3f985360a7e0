package handlers

import (
	"ReferralHub/internal/bot/messages"
	"ReferralHub/internal/bot/moderator"
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"ReferralHub/internal/core/ports/mocks"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminChat int64 = -1001

type fixture struct {
	wallet *mocks.WalletService
	users  *mocks.UserRepository
	bot    *mocks.BotClient
	bus    *mocks.EventBus
	deps   moderator.Deps
	log    zerolog.Logger
}

func newFixture() *fixture {
	f := &fixture{
		wallet: new(mocks.WalletService),
		users:  new(mocks.UserRepository),
		bot:    new(mocks.BotClient),
		bus:    new(mocks.EventBus),
		log:    zerolog.Nop(),
	}
	f.deps = moderator.Deps{
		Wallet:      f.wallet,
		Users:       f.users,
		Bot:         f.bot,
		Bus:         f.bus,
		AdminChatID: adminChat,
	}
	return f
}

func testAdmin() *domain.User {
	return &domain.User{ID: uuid.New(), Name: "Ops Admin", Role: domain.RoleAdmin}
}

func testWithdrawal(status domain.WithdrawalStatus) *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Amount:   decimal.RequireFromString("60"),
		Currency: domain.CurrencyUSD,
		BankDetails: domain.BankDetails{
			AccountHolderName: "Sam Payee",
			BankName:          "Example Bank",
			AccountNumber:     "123456789",
			RoutingNumber:     "021000021",
		},
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func callback(data string) *ports.BotUpdate {
	return &ports.BotUpdate{
		MessageID:       11,
		ChatID:          adminChat,
		CallbackQueryID: "cb-7",
		CallbackData:    &data,
	}
}

func TestReviewHandler_Approve(t *testing.T) {
	f := newFixture()
	admin := testAdmin()
	w := testWithdrawal(domain.StatusApproved)

	f.wallet.On("ReviewWithdrawal", mock.Anything,
		domain.Actor{UserID: admin.ID, Role: domain.RoleAdmin},
		domain.Review{WithdrawalID: w.ID, Status: domain.StatusApproved},
	).Return(w, nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, ports.AnswerCallbackParams{
		CallbackQueryID: "cb-7",
		Text:            "Withdrawal approved",
	}).Return(nil)
	f.bot.On("EditMessageText", mock.Anything, mock.MatchedBy(func(p ports.EditMessageParams) bool {
		return p.ChatID == adminChat && p.MessageID == 11 && p.ReplyMarkup == nil &&
			strings.Contains(p.Text, "Withdrawal approved")
	})).Return(nil)

	h := NewReviewHandler(f.deps, &f.log)
	err := h.Handle(context.Background(), callback("wd_approved_"+w.ID.String()), admin)

	require.NoError(t, err)
	f.wallet.AssertExpectations(t)
	f.bot.AssertExpectations(t)
}

func TestReviewHandler_InsufficientBalanceAlerts(t *testing.T) {
	f := newFixture()
	admin := testAdmin()
	id := uuid.New()

	f.wallet.On("ReviewWithdrawal", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &domain.InsufficientBalanceError{Available: decimal.RequireFromString("40"), Currency: domain.CurrencyUSD})
	f.bot.On("AnswerCallbackQuery", mock.Anything, ports.AnswerCallbackParams{
		CallbackQueryID: "cb-7",
		Text:            "Insufficient balance. Available: 40.00 USD",
		ShowAlert:       true,
	}).Return(nil)

	h := NewReviewHandler(f.deps, &f.log)
	require.NoError(t, h.Handle(context.Background(), callback("wd_approved_"+id.String()), admin))

	f.bot.AssertExpectations(t)
	f.bot.AssertNotCalled(t, "EditMessageText", mock.Anything, mock.Anything)
}

func TestReviewHandler_MalformedData(t *testing.T) {
	f := newFixture()
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.MatchedBy(func(p ports.AnswerCallbackParams) bool {
		return p.ShowAlert
	})).Return(nil)

	h := NewReviewHandler(f.deps, &f.log)
	for _, data := range []string{"wd_approved", "wd_bogus_" + uuid.NewString(), "wd_approved_not-a-uuid"} {
		require.NoError(t, h.Handle(context.Background(), callback(data), testAdmin()))
	}

	f.wallet.AssertNotCalled(t, "ReviewWithdrawal", mock.Anything, mock.Anything, mock.Anything)
}

func TestParseReviewData(t *testing.T) {
	id := uuid.New()
	status, got, err := parseReviewData("wd_rejected_" + id.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, status)
	assert.Equal(t, id, got)

	_, _, err = parseReviewData("approval_accept_" + id.String())
	assert.Error(t, err)
}

func TestReviewFailureText(t *testing.T) {
	assert.Equal(t, "withdrawal is already approved",
		reviewFailureText(&domain.TransitionError{From: domain.StatusApproved, To: domain.StatusApproved}))
	assert.Equal(t, "Withdrawal not found.", reviewFailureText(domain.ErrNotFound))
	assert.Equal(t, "Something went wrong. Please try again.", reviewFailureText(errors.New("boom")))
}

func TestPendingHandler_PostsCardsOldestFirst(t *testing.T) {
	f := newFixture()
	admin := testAdmin()
	newer := testWithdrawal(domain.StatusPending)
	older := testWithdrawal(domain.StatusPending)
	pending := domain.StatusPending

	f.wallet.On("ListAllWithdrawals", mock.Anything, mock.Anything, domain.WithdrawalFilter{Status: &pending}).
		Return([]*domain.Withdrawal{newer, older}, nil)

	var sent []ports.SendMessageParams
	f.bot.On("SendMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = append(sent, args.Get(1).(ports.SendMessageParams)) }).
		Return(1, nil)

	h := NewPendingHandler(f.deps, &f.log)
	require.NoError(t, h.Handle(context.Background(), &ports.BotUpdate{ChatID: 77, Command: "pending"}, admin))

	require.Len(t, sent, 3)
	assert.Contains(t, sent[0].Text, "2 pending")
	assert.Contains(t, sent[1].Text, older.ID.String())
	assert.Contains(t, sent[2].Text, newer.ID.String())
	require.NotNil(t, sent[1].ReplyMarkup)
	assert.Equal(t, messages.ReviewButtons(older), sent[1].ReplyMarkup.Buttons)
	for _, m := range sent {
		assert.Equal(t, int64(77), m.ChatID)
	}
}

func TestPendingHandler_Empty(t *testing.T) {
	f := newFixture()
	f.wallet.On("ListAllWithdrawals", mock.Anything, mock.Anything, mock.Anything).Return([]*domain.Withdrawal{}, nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return strings.HasPrefix(p.Text, "No pending withdrawals")
	})).Return(1, nil).Once()

	h := NewPendingHandler(f.deps, &f.log)
	require.NoError(t, h.Handle(context.Background(), &ports.BotUpdate{ChatID: 77}, testAdmin()))
	f.bot.AssertExpectations(t)
}

func TestForwardingHandler_PostsToAdminChat(t *testing.T) {
	f := newFixture()
	w := testWithdrawal(domain.StatusPending)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == adminChat && p.ReplyMarkup != nil && len(p.ReplyMarkup.Buttons) == 2
	})).Return(321, nil).Once()

	moderator.RegisterAllHandlers(f.deps, moderator.NewModeratorRouter(f.users, f.bot, &f.log), &f.log)
	require.NoError(t, f.bus.Fire(context.Background(), ports.TopicWithdrawalRequested, w))

	f.bot.AssertExpectations(t)
}

func TestForwardingHandler_RejectsWrongPayload(t *testing.T) {
	f := newFixture()
	h := NewForwardingHandler(f.deps, &f.log)
	err := h.Handle(context.Background(), ports.Event{Topic: ports.TopicWithdrawalRequested, Data: "nope"})
	assert.Error(t, err)
}

func TestNotifyHandler(t *testing.T) {
	w := testWithdrawal(domain.StatusRejected)
	event := ports.Event{
		Topic: ports.TopicWithdrawalReviewed,
		Data:  &domain.WithdrawalReviewed{Withdrawal: w, PreviousStatus: domain.StatusPending},
	}

	t.Run("owner with telegram is notified", func(t *testing.T) {
		f := newFixture()
		tgID := int64(555)
		f.users.On("GetByID", mock.Anything, w.UserID).Return(&domain.User{ID: w.UserID, TelegramID: &tgID}, nil)
		f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
			return p.ChatID == tgID && strings.Contains(p.Text, "rejected")
		})).Return(1, nil).Once()

		require.NoError(t, NewNotifyHandler(f.deps, &f.log).Handle(context.Background(), event))
		f.bot.AssertExpectations(t)
	})

	t.Run("owner without telegram is skipped", func(t *testing.T) {
		f := newFixture()
		f.users.On("GetByID", mock.Anything, w.UserID).Return(&domain.User{ID: w.UserID}, nil)

		require.NoError(t, NewNotifyHandler(f.deps, &f.log).Handle(context.Background(), event))
		f.bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	})
}

func TestHelpHandler(t *testing.T) {
	f := newFixture()
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return strings.HasPrefix(p.Text, "Hi Ops Admin\\!") && p.ParseMode == messages.ParseModeMarkdownV2
	})).Return(1, nil).Once()

	h := newHelpHandler("help")(f.deps, &f.log)
	assert.Equal(t, "help", h.Command())
	require.NoError(t, h.Handle(context.Background(), &ports.BotUpdate{ChatID: 1}, testAdmin()))
	f.bot.AssertExpectations(t)
}
