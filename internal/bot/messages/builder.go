package messages

import (
	"ReferralHub/internal/core/ports"
	"strings"
)

// ParseModeMarkdownV2 is the default parse mode for every bot message.
const ParseModeMarkdownV2 = "MarkdownV2"

// Builder helps construct SendMessageParams.
type Builder struct {
	params ports.SendMessageParams
}

// NewBuilder creates a new message builder.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{
			ChatID:    chatID,
			ParseMode: ParseModeMarkdownV2,
		},
	}
}

// WithText sets the message text. It must already be escaped for the
// parse mode in use.
func (b *Builder) WithText(text string) *Builder {
	b.params.Text = text
	return b
}

// WithInlineButtons adds a set of inline buttons.
func (b *Builder) WithInlineButtons(buttons [][]ports.Button) *Builder {
	b.params.ReplyMarkup = &ports.ReplyMarkup{Buttons: buttons}
	return b
}

// Build returns the final SendMessageParams.
func (b *Builder) Build() ports.SendMessageParams {
	return b.params
}

var markdownReplacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

// EscapeMarkdown escapes every MarkdownV2 special character in s.
func EscapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}
