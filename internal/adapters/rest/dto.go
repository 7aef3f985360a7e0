package rest

import (
	"ReferralHub/internal/core/domain"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var errAmountNotNumber = errors.New("amount is not a number")

// amountValue accepts a JSON number or a numeric string. Anything else fails
// with errAmountNotNumber so the 400 names the field.
type amountValue struct {
	decimal.Decimal
}

func (a *amountValue) UnmarshalJSON(b []byte) error {
	if err := a.Decimal.UnmarshalJSON(b); err != nil {
		return errAmountNotNumber
	}
	return nil
}

type withdrawRequest struct {
	Amount      *amountValue       `json:"amount" binding:"required"`
	Currency    string             `json:"currency" binding:"required"`
	BankDetails bankDetailsRequest `json:"bankDetails"`
}

type bankDetailsRequest struct {
	AccountHolderName string `json:"accountHolderName" binding:"required"`
	BankName          string `json:"bankName" binding:"required"`
	AccountNumber     string `json:"accountNumber" binding:"required"`
	RoutingNumber     string `json:"routingNumber" binding:"required"`
	IBAN              string `json:"iban"`
	SwiftCode         string `json:"swiftCode"`
}

type reviewRequest struct {
	Status     string  `json:"status" binding:"required"`
	AdminNotes *string `json:"adminNotes" binding:"omitempty,max=500"`
}

type adjustBalanceRequest struct {
	UserID    string       `json:"userId" binding:"required,uuid"`
	Currency  string       `json:"currency" binding:"required"`
	Amount    *amountValue `json:"amount" binding:"required"`
	Operation string       `json:"operation" binding:"required,oneof=add subtract set"`
}

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Message string               `json:"message"`
	Errors  []fieldErrorResponse `json:"errors,omitempty"`
}

type ledgerResponse struct {
	UserID    string            `json:"userId"`
	Balances  map[string]string `json:"balances"`
	Formatted map[string]string `json:"formatted"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func newLedgerResponse(l *domain.Ledger) ledgerResponse {
	resp := ledgerResponse{
		UserID:    l.UserID.String(),
		Balances:  make(map[string]string, len(domain.SupportedCurrencies)),
		Formatted: make(map[string]string, len(domain.SupportedCurrencies)),
		UpdatedAt: l.UpdatedAt,
	}
	for _, c := range domain.SupportedCurrencies {
		b := l.Balance(c)
		resp.Balances[string(c)] = b.StringFixed(2)
		resp.Formatted[string(c)] = c.FormatSymbol(b)
	}
	return resp
}

type userRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type withdrawalResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	User        *userRef           `json:"user,omitempty"`
	Amount      string             `json:"amount"`
	Currency    string             `json:"currency"`
	BankDetails domain.BankDetails `json:"bankDetails"`
	Status      string             `json:"status"`
	AdminNotes  *string            `json:"adminNotes,omitempty"`
	ProcessedBy *userRef           `json:"processedBy,omitempty"`
	ProcessedAt *time.Time         `json:"processedAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func newWithdrawalResponse(w *domain.Withdrawal) withdrawalResponse {
	resp := withdrawalResponse{
		ID:          w.ID.String(),
		UserID:      w.UserID.String(),
		Amount:      w.Amount.StringFixed(2),
		Currency:    string(w.Currency),
		BankDetails: w.BankDetails,
		Status:      string(w.Status),
		AdminNotes:  w.AdminNotes,
		ProcessedAt: w.ProcessedAt,
		CreatedAt:   w.CreatedAt,
	}
	if w.Owner != nil {
		resp.User = &userRef{ID: w.Owner.ID.String(), Name: w.Owner.Name, Email: w.Owner.Email}
	}
	if w.ProcessedBy != nil {
		resp.ProcessedBy = &userRef{ID: w.ProcessedBy.String()}
		if w.Processor != nil {
			resp.ProcessedBy.Name = w.Processor.Name
		}
	}
	return resp
}

func newWithdrawalList(list []*domain.Withdrawal) []withdrawalResponse {
	out := make([]withdrawalResponse, 0, len(list))
	for _, w := range list {
		out = append(out, newWithdrawalResponse(w))
	}
	return out
}
