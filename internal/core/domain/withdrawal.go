package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	StatusPending   WithdrawalStatus = "pending"
	StatusApproved  WithdrawalStatus = "approved"
	StatusRejected  WithdrawalStatus = "rejected"
	StatusProcessed WithdrawalStatus = "processed"
)

// MaxAdminNotesLength bounds the free-text note an admin attaches to a review.
const MaxAdminNotesLength = 500

// MinWithdrawalAmount is the smallest amount a user may request.
var MinWithdrawalAmount = decimal.NewFromInt(1)

// MaxAmount is the largest value a balance or withdrawal column holds
// (NUMERIC(20,2)).
var MaxAmount = decimal.New(1, 18).Sub(decimal.New(1, -2))

func ParseWithdrawalStatus(s string) (WithdrawalStatus, error) {
	st := WithdrawalStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusApproved, StatusRejected, StatusProcessed:
		return st, nil
	}
	return "", NewValidationError("status", "Invalid status")
}

func (s WithdrawalStatus) String() string { return string(s) }

// ReviewPlan is the outcome of checking a status change.
type ReviewPlan struct {
	From  WithdrawalStatus
	To    WithdrawalStatus
	Debit bool
}

// PlanReview decides whether from -> to is allowed and whether it moves
// funds. Only pending requests can be reviewed. Approved takes the amount
// out of the ledger; rejected and processed leave it alone, processed being
// a bookkeeping mark for a payout settled outside the wallet.
func PlanReview(from, to WithdrawalStatus) (ReviewPlan, error) {
	if from != StatusPending {
		return ReviewPlan{}, &TransitionError{From: from, To: to}
	}
	switch to {
	case StatusApproved:
		return ReviewPlan{From: from, To: to, Debit: true}, nil
	case StatusRejected, StatusProcessed:
		return ReviewPlan{From: from, To: to}, nil
	}
	return ReviewPlan{}, &TransitionError{From: from, To: to}
}

// BankDetails is the payout destination supplied with a request.
type BankDetails struct {
	AccountHolderName string `json:"accountHolderName"`
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	RoutingNumber     string `json:"routingNumber"`
	IBAN              string `json:"iban,omitempty"`
	SwiftCode         string `json:"swiftCode,omitempty"`
}

// Normalize trims every field in place.
func (b *BankDetails) Normalize() {
	b.AccountHolderName = strings.TrimSpace(b.AccountHolderName)
	b.BankName = strings.TrimSpace(b.BankName)
	b.AccountNumber = strings.TrimSpace(b.AccountNumber)
	b.RoutingNumber = strings.TrimSpace(b.RoutingNumber)
	b.IBAN = strings.TrimSpace(b.IBAN)
	b.SwiftCode = strings.TrimSpace(b.SwiftCode)
}

func (b BankDetails) validate(verr *ValidationError) {
	if b.AccountHolderName == "" {
		verr.Add("bankDetails.accountHolderName", "Account holder name is required")
	}
	if b.BankName == "" {
		verr.Add("bankDetails.bankName", "Bank name is required")
	}
	if b.AccountNumber == "" {
		verr.Add("bankDetails.accountNumber", "Account number is required")
	}
	if b.RoutingNumber == "" {
		verr.Add("bankDetails.routingNumber", "Routing number is required")
	}
}

// MaskedAccountNumber keeps the last four characters visible.
func (b BankDetails) MaskedAccountNumber() string {
	n := utf8.RuneCountInString(b.AccountNumber)
	if n <= 4 {
		return b.AccountNumber
	}
	r := []rune(b.AccountNumber)
	return strings.Repeat("*", n-4) + string(r[n-4:])
}

// Withdrawal is a user's request to move funds out to a bank account.
type Withdrawal struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Currency    Currency
	BankDetails BankDetails
	Status      WithdrawalStatus
	AdminNotes  *string
	ProcessedBy *uuid.UUID
	ProcessedAt *time.Time
	CreatedAt   time.Time

	// Display enrichment, resolved from the user directory.
	Owner     *UserSummary
	Processor *UserSummary
}

// WithdrawalRequest is the user input for a new withdrawal.
type WithdrawalRequest struct {
	Amount      decimal.Decimal
	Currency    Currency
	BankDetails BankDetails
}

// Validate trims bank details and reports every invalid field.
func (r *WithdrawalRequest) Validate() error {
	verr := &ValidationError{}

	if r.Amount.LessThan(MinWithdrawalAmount) {
		verr.Add("amount", "Amount must be at least 1")
	} else if r.Amount.GreaterThan(MaxAmount) {
		verr.Add("amount", "Amount is too large")
	} else if !r.Amount.Equal(r.Amount.Round(2)) {
		verr.Add("amount", "Amount cannot have more than 2 decimal places")
	}
	if !r.Currency.Valid() {
		verr.Add("currency", "Invalid currency")
	}
	r.BankDetails.Normalize()
	r.BankDetails.validate(verr)

	return verr.OrNil()
}

// NewWithdrawal builds a pending request owned by userID.
func NewWithdrawal(userID uuid.UUID, req WithdrawalRequest, now time.Time) *Withdrawal {
	return &Withdrawal{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		BankDetails: req.BankDetails,
		Status:      StatusPending,
		CreatedAt:   now,
	}
}

// Review is an admin decision on one withdrawal.
type Review struct {
	WithdrawalID uuid.UUID
	Status       WithdrawalStatus
	AdminNotes   *string
}

// Validate normalizes the status, trims the note and checks its length.
func (r *Review) Validate() error {
	verr := &ValidationError{}
	if r.WithdrawalID == uuid.Nil {
		verr.Add("id", "Withdrawal ID is required")
	}
	if status, err := ParseWithdrawalStatus(string(r.Status)); err != nil {
		verr.Add("status", "Invalid status")
	} else {
		r.Status = status
	}
	if r.AdminNotes != nil {
		notes := strings.TrimSpace(*r.AdminNotes)
		r.AdminNotes = &notes
		if utf8.RuneCountInString(notes) > MaxAdminNotesLength {
			verr.Add("adminNotes", "Admin notes cannot exceed 500 characters")
		}
	}
	return verr.OrNil()
}

// ReviewCommand is what the store needs to apply a review atomically.
type ReviewCommand struct {
	WithdrawalID   uuid.UUID
	ExpectedStatus WithdrawalStatus
	Status         WithdrawalStatus
	AdminNotes     *string
	ProcessedBy    uuid.UUID
	ProcessedAt    time.Time
	Debit          bool
}

// WithdrawalFilter narrows admin listings. Zero values mean "any".
type WithdrawalFilter struct {
	UserID *uuid.UUID
	Status *WithdrawalStatus
}

// WithdrawalReviewed is published after a review commits.
type WithdrawalReviewed struct {
	Withdrawal     *Withdrawal
	PreviousStatus WithdrawalStatus
	Debited        bool
}
