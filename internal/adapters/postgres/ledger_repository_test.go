package postgres

import (
	"ReferralHub/internal/core/domain"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLedgerRepository_Adjust(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := NewLedgerRepository(testDB, &nopLogger)
	user := createTestUser(t, domain.RoleUser)

	steps := []struct {
		op     domain.BalanceOperation
		amount string
		want   string
	}{
		{domain.OperationSet, "100", "100"},
		{domain.OperationAdd, "25.50", "125.50"},
		{domain.OperationSubtract, "0.50", "125"},
		{domain.OperationSet, "0", "0"},
	}
	for _, s := range steps {
		ledger, err := repo.Adjust(t.Context(), domain.BalanceAdjustment{
			UserID: user.ID, Currency: domain.CurrencyAED, Amount: dec(s.amount), Operation: s.op,
		})
		require.NoError(t, err, "%s %s", s.op, s.amount)
		assert.True(t, ledger.Balance(domain.CurrencyAED).Equal(dec(s.want)),
			"%s %s: got %s want %s", s.op, s.amount, ledger.Balance(domain.CurrencyAED), s.want)
		assert.True(t, ledger.Balance(domain.CurrencyUSD).IsZero())
	}
}

func TestLedgerRepository_SubtractBeyondBalance(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := NewLedgerRepository(testDB, &nopLogger)
	user := createTestUser(t, domain.RoleUser)
	fund(t, user.ID, domain.CurrencyEUR, "10")

	_, err := repo.Adjust(t.Context(), domain.BalanceAdjustment{
		UserID: user.ID, Currency: domain.CurrencyEUR, Amount: dec("10.01"), Operation: domain.OperationSubtract,
	})

	var insufficient *domain.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(dec("10")))
	assert.Equal(t, domain.CurrencyEUR, insufficient.Currency)

	ledger, err := repo.Get(t.Context(), user.ID)
	require.NoError(t, err)
	assert.True(t, ledger.Balance(domain.CurrencyEUR).Equal(dec("10")))
}

func TestLedgerRepository_AddBeyondColumnRange(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := NewLedgerRepository(testDB, &nopLogger)
	user := createTestUser(t, domain.RoleUser)
	fund(t, user.ID, domain.CurrencySAR, "999999999999999999")

	_, err := repo.Adjust(t.Context(), domain.BalanceAdjustment{
		UserID: user.ID, Currency: domain.CurrencySAR, Amount: dec("5"), Operation: domain.OperationAdd,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Fields[0].Field)

	ledger, err := repo.Get(t.Context(), user.ID)
	require.NoError(t, err)
	assert.True(t, ledger.Balance(domain.CurrencySAR).Equal(dec("999999999999999999")))
}

func TestLedgerRepository_UnknownUser(t *testing.T) {
	nopLogger := zerolog.Nop()
	repo := NewLedgerRepository(testDB, &nopLogger)

	_, err := repo.Get(t.Context(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Adjust(t.Context(), domain.BalanceAdjustment{
		UserID: uuid.New(), Currency: domain.CurrencyUSD, Amount: dec("5"), Operation: domain.OperationAdd,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
