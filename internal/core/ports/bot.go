package ports

import (
	"ReferralHub/internal/core/domain"
	"context"
)

// Button represents a single inline keyboard button.
type Button struct {
	Text string
	Data string // callback payload
	URL  string
}

// ReplyMarkup is an inline keyboard, one slice per row.
type ReplyMarkup struct {
	Buttons [][]Button
}

// SendMessageParams holds all possible options for sending a message.
type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string // "MarkdownV2" or "HTML"
	ReplyMarkup *ReplyMarkup
}

// EditMessageParams replaces the text (and optionally keyboard) of a sent message.
type EditMessageParams struct {
	ChatID      int64
	MessageID   int
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

// AnswerCallbackParams stops the client-side spinner on a button press.
type AnswerCallbackParams struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

// BotClientPort is the outbound side of the Telegram adapter.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) (messageID int, err error)
	EditMessageText(ctx context.Context, params EditMessageParams) error
	AnswerCallbackQuery(ctx context.Context, params AnswerCallbackParams) error
	SetMenuCommands(ctx context.Context) error
}

// BotUpdate is a transport-neutral view of an incoming update.
type BotUpdate struct {
	MessageID       int
	ChatID          int64
	UserID          int64
	Text            string
	Command         string
	CallbackQueryID string
	CallbackData    *string
}

// CommandHandler handles a slash command. admin is the already-authorized
// sender.
type CommandHandler interface {
	Command() string
	Handle(ctx context.Context, update *BotUpdate, admin *domain.User) error
}

// CallbackHandler handles inline button presses whose data starts with Prefix.
type CallbackHandler interface {
	Prefix() string
	Handle(ctx context.Context, update *BotUpdate, admin *domain.User) error
}
