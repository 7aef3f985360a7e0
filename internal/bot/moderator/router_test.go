package moderator

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"ReferralHub/internal/core/ports/mocks"
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeCommand struct {
	name  string
	calls []*ports.BotUpdate
}

func (f *fakeCommand) Command() string { return f.name }
func (f *fakeCommand) Handle(_ context.Context, u *ports.BotUpdate, _ *domain.User) error {
	f.calls = append(f.calls, u)
	return nil
}

type fakeCallback struct {
	prefix string
	admins []*domain.User
}

func (f *fakeCallback) Prefix() string { return f.prefix }
func (f *fakeCallback) Handle(_ context.Context, _ *ports.BotUpdate, admin *domain.User) error {
	f.admins = append(f.admins, admin)
	return nil
}

func commandUpdate(tgID int64, text string) *tgbotapi.Update {
	return &tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 7,
		From:      &tgbotapi.User{ID: tgID},
		Chat:      &tgbotapi.Chat{ID: -100},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func callbackUpdate(tgID int64, data string) *tgbotapi.Update {
	return &tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: tgID},
		Message: &tgbotapi.Message{MessageID: 9, Chat: &tgbotapi.Chat{ID: -100}},
		Data:    data,
	}}
}

func newTestRouter() (*ModeratorRouter, *mocks.UserRepository, *mocks.BotClient, *fakeCommand, *fakeCallback) {
	log := zerolog.Nop()
	users := new(mocks.UserRepository)
	bot := new(mocks.BotClient)
	r := NewModeratorRouter(users, bot, &log)

	cmd := &fakeCommand{name: "pending"}
	cb := &fakeCallback{prefix: "wd_"}
	r.RegisterCommandHandler(cmd)
	r.RegisterCallbackHandler(cb)
	return r, users, bot, cmd, cb
}

func TestModeratorRouter_RoutesAdminCommand(t *testing.T) {
	r, users, _, cmd, _ := newTestRouter()
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	users.On("GetByTelegramID", mock.Anything, int64(42)).Return(admin, nil)

	r.HandleUpdate(context.Background(), commandUpdate(42, "/pending"))

	if assert.Len(t, cmd.calls, 1) {
		assert.Equal(t, "pending", cmd.calls[0].Command)
		assert.Equal(t, int64(-100), cmd.calls[0].ChatID)
	}
}

func TestModeratorRouter_RoutesCallbackByPrefix(t *testing.T) {
	r, users, _, _, cb := newTestRouter()
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	users.On("GetByTelegramID", mock.Anything, int64(42)).Return(admin, nil)

	r.HandleUpdate(context.Background(), callbackUpdate(42, "wd_approved_"+uuid.NewString()))

	assert.Equal(t, []*domain.User{admin}, cb.admins)
}

func TestModeratorRouter_DeniesNonAdmin(t *testing.T) {
	r, users, bot, cmd, cb := newTestRouter()
	employee := &domain.User{ID: uuid.New(), Role: domain.RoleEmployee}
	users.On("GetByTelegramID", mock.Anything, int64(5)).Return(employee, nil)
	bot.On("AnswerCallbackQuery", mock.Anything, mock.MatchedBy(func(p ports.AnswerCallbackParams) bool {
		return p.CallbackQueryID == "cb-1" && p.ShowAlert
	})).Return(nil).Once()

	r.HandleUpdate(context.Background(), commandUpdate(5, "/pending"))
	r.HandleUpdate(context.Background(), callbackUpdate(5, "wd_approved_"+uuid.NewString()))

	assert.Empty(t, cmd.calls)
	assert.Empty(t, cb.admins)
	bot.AssertExpectations(t)
}

func TestModeratorRouter_DeniesUnknownUser(t *testing.T) {
	r, users, bot, cmd, _ := newTestRouter()
	users.On("GetByTelegramID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

	r.HandleUpdate(context.Background(), commandUpdate(99, "/pending"))

	assert.Empty(t, cmd.calls)
	bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestModeratorRouter_IgnoresUnsupportedUpdates(t *testing.T) {
	r, users, _, _, _ := newTestRouter()

	r.HandleUpdate(context.Background(), &tgbotapi.Update{UpdateID: 1})

	users.AssertNotCalled(t, "GetByTelegramID", mock.Anything, mock.Anything)
}
