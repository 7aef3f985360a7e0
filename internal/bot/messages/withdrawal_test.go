package messages

import (
	"ReferralHub/internal/core/domain"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleWithdrawal() *domain.Withdrawal {
	return &domain.Withdrawal{
		ID:       uuid.MustParse("7b0a3f52-6a4e-4b7e-9d1c-3c2f1e0d9a8b"),
		UserID:   uuid.New(),
		Amount:   decimal.RequireFromString("1250.5"),
		Currency: domain.CurrencyUSD,
		BankDetails: domain.BankDetails{
			AccountHolderName: "Jane O'Neil-Smith",
			BankName:          "First Bank (Dubai)",
			AccountNumber:     "0011223344",
			RoutingNumber:     "021000021",
		},
		Status:    domain.StatusPending,
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Owner:     &domain.UserSummary{Name: "Jane", Email: "jane.doe@example.com"},
	}
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `a\_b\*c\.d\!e\\f`, EscapeMarkdown(`a_b*c.d!e\f`))
}

func TestWithdrawalCard(t *testing.T) {
	card := WithdrawalCard(sampleWithdrawal())

	assert.Contains(t, card, "*Withdrawal request*")
	assert.Contains(t, card, "ID: `7b0a3f52-6a4e-4b7e-9d1c-3c2f1e0d9a8b`")
	assert.Contains(t, card, `*Amount:* USD 1,250\.50`)
	assert.Contains(t, card, `*Bank:* First Bank \(Dubai\)`)
	assert.Contains(t, card, `*Holder:* Jane O'Neil\-Smith`)
	assert.Contains(t, card, `*Account:* \*\*\*\*\*\*3344`)
	assert.Contains(t, card, `jane\.doe@example\.com`)
	assert.False(t, strings.Contains(card, "0011223344"))
}

func TestReviewButtons(t *testing.T) {
	w := sampleWithdrawal()
	buttons := ReviewButtons(w)

	var data []string
	for _, row := range buttons {
		for _, b := range row {
			data = append(data, b.Data)
			assert.LessOrEqual(t, len(b.Data), 64)
		}
	}
	assert.Contains(t, buttons[1][0].Text, "no debit")
	assert.Equal(t, []string{
		"wd_approved_" + w.ID.String(),
		"wd_rejected_" + w.ID.String(),
		"wd_processed_" + w.ID.String(),
	}, data)
}

func TestOwnerNotification(t *testing.T) {
	w := sampleWithdrawal()
	w.Status = domain.StatusRejected
	notes := "Name mismatch."
	w.AdminNotes = &notes

	msg := OwnerNotification(w)
	assert.Contains(t, msg, `*USD 1,250\.50* was *rejected*\.`)
	assert.Contains(t, msg, `_Note:_ Name mismatch\.`)
	assert.Contains(t, msg, `Your wallet balance was not changed\.`)

	w.Status = domain.StatusProcessed
	w.AdminNotes = nil
	assert.Contains(t, OwnerNotification(w), `Your wallet balance was not changed\.`)

	w.Status = domain.StatusApproved
	assert.Contains(t, OwnerNotification(w), `deducted from your wallet balance\.`)
}
