package messages

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"fmt"
	"strings"
)

// ReviewCallbackPrefix starts the data of every review button.
const ReviewCallbackPrefix = "wd_"

// ReviewCallbackData encodes a review decision as button data,
// e.g. "wd_approved_<uuid>".
func ReviewCallbackData(status domain.WithdrawalStatus, w *domain.Withdrawal) string {
	return ReviewCallbackPrefix + string(status) + "_" + w.ID.String()
}

// ReviewButtons is the keyboard attached to a pending withdrawal card.
func ReviewButtons(w *domain.Withdrawal) [][]ports.Button {
	return [][]ports.Button{
		{
			{Text: "✅ Approve and debit", Data: ReviewCallbackData(domain.StatusApproved, w)},
			{Text: "❌ Reject", Data: ReviewCallbackData(domain.StatusRejected, w)},
		},
		{
			{Text: "🏦 Mark processed (no debit)", Data: ReviewCallbackData(domain.StatusProcessed, w)},
		},
	}
}

// WithdrawalCard renders a withdrawal for admins in MarkdownV2.
func WithdrawalCard(w *domain.Withdrawal) string {
	var b strings.Builder

	if w.Status == domain.StatusPending {
		b.WriteString("*Withdrawal request*\n")
	} else {
		fmt.Fprintf(&b, "%s *Withdrawal %s*\n", statusIcon(w.Status), EscapeMarkdown(string(w.Status)))
	}
	fmt.Fprintf(&b, "ID: `%s`\n\n", w.ID)

	if w.Owner != nil {
		fmt.Fprintf(&b, "*User:* %s \\(%s\\)\n", EscapeMarkdown(w.Owner.Name), EscapeMarkdown(w.Owner.Email))
	} else {
		fmt.Fprintf(&b, "*User:* `%s`\n", w.UserID)
	}
	fmt.Fprintf(&b, "*Amount:* %s\n", EscapeMarkdown(w.Currency.Format(w.Amount)))
	fmt.Fprintf(&b, "*Holder:* %s\n", EscapeMarkdown(w.BankDetails.AccountHolderName))
	fmt.Fprintf(&b, "*Bank:* %s\n", EscapeMarkdown(w.BankDetails.BankName))
	fmt.Fprintf(&b, "*Account:* %s\n", EscapeMarkdown(w.BankDetails.MaskedAccountNumber()))
	if w.BankDetails.SwiftCode != "" {
		fmt.Fprintf(&b, "*SWIFT:* %s\n", EscapeMarkdown(w.BankDetails.SwiftCode))
	}
	fmt.Fprintf(&b, "*Requested:* %s\n", EscapeMarkdown(w.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")))

	if w.Processor != nil {
		fmt.Fprintf(&b, "*Reviewed by:* %s\n", EscapeMarkdown(w.Processor.Name))
	}
	if w.AdminNotes != nil && *w.AdminNotes != "" {
		fmt.Fprintf(&b, "*Notes:* %s\n", EscapeMarkdown(*w.AdminNotes))
	}
	return b.String()
}

// OwnerNotification tells the requester how their withdrawal was reviewed.
func OwnerNotification(w *domain.Withdrawal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Your withdrawal of *%s* was *%s*\\.",
		statusIcon(w.Status),
		EscapeMarkdown(w.Currency.Format(w.Amount)),
		EscapeMarkdown(string(w.Status)),
	)
	if effect := balanceEffect(w.Status); effect != "" {
		b.WriteString("\n" + EscapeMarkdown(effect))
	}
	if w.AdminNotes != nil && *w.AdminNotes != "" {
		fmt.Fprintf(&b, "\n\n_Note:_ %s", EscapeMarkdown(*w.AdminNotes))
	}
	return b.String()
}

func balanceEffect(s domain.WithdrawalStatus) string {
	switch s {
	case domain.StatusApproved:
		return "The amount has been deducted from your wallet balance."
	case domain.StatusRejected, domain.StatusProcessed:
		return "Your wallet balance was not changed."
	}
	return ""
}

func statusIcon(s domain.WithdrawalStatus) string {
	switch s {
	case domain.StatusApproved:
		return "✅"
	case domain.StatusRejected:
		return "❌"
	case domain.StatusProcessed:
		return "🏦"
	}
	return "⏳"
}
