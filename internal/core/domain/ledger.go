package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger holds one user's balance per currency.
type Ledger struct {
	UserID    uuid.UUID
	Balances  map[Currency]decimal.Decimal
	UpdatedAt time.Time
}

// NewLedger returns a ledger with a zero balance for every supported currency.
func NewLedger(userID uuid.UUID) *Ledger {
	l := &Ledger{
		UserID:    userID,
		Balances:  make(map[Currency]decimal.Decimal, len(SupportedCurrencies)),
		UpdatedAt: time.Now().UTC(),
	}
	for _, c := range SupportedCurrencies {
		l.Balances[c] = decimal.Zero
	}
	return l
}

// Balance returns the balance for c. Missing entries read as zero.
func (l *Ledger) Balance(c Currency) decimal.Decimal {
	if l == nil {
		return decimal.Zero
	}
	if b, ok := l.Balances[c]; ok {
		return b
	}
	return decimal.Zero
}

// BalanceOperation is an admin adjustment kind.
type BalanceOperation string

const (
	OperationAdd      BalanceOperation = "add"
	OperationSubtract BalanceOperation = "subtract"
	OperationSet      BalanceOperation = "set"
)

func ParseBalanceOperation(s string) (BalanceOperation, error) {
	op := BalanceOperation(strings.ToLower(strings.TrimSpace(s)))
	switch op {
	case OperationAdd, OperationSubtract, OperationSet:
		return op, nil
	}
	return "", NewValidationError("operation", "Invalid operation")
}

// BalanceAdjustment is an admin-initiated ledger change.
type BalanceAdjustment struct {
	UserID    uuid.UUID
	Currency  Currency
	Amount    decimal.Decimal
	Operation BalanceOperation
}

// Validate checks the amount against the operation: add and subtract need a
// positive amount, set accepts zero but never a negative target.
func (a BalanceAdjustment) Validate() error {
	verr := &ValidationError{}
	if a.UserID == uuid.Nil {
		verr.Add("userId", "User ID is required")
	}
	if !a.Currency.Valid() {
		verr.Add("currency", "Invalid currency")
	}
	switch a.Operation {
	case OperationAdd, OperationSubtract:
		if !a.Amount.IsPositive() {
			verr.Add("amount", "Amount must be greater than zero")
		}
	case OperationSet:
		if a.Amount.IsNegative() {
			verr.Add("amount", "Balance cannot be negative")
		}
	default:
		verr.Add("operation", "Invalid operation")
	}
	if a.Amount.GreaterThan(MaxAmount) {
		verr.Add("amount", "Amount is too large")
	} else if !a.Amount.Equal(a.Amount.Round(2)) {
		verr.Add("amount", "Amount cannot have more than 2 decimal places")
	}
	return verr.OrNil()
}

// LedgerAdjusted is published after a successful admin adjustment.
type LedgerAdjusted struct {
	Adjustment BalanceAdjustment
	AdminID    uuid.UUID
	Ledger     *Ledger
}
