package ports

import (
	"ReferralHub/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// LedgerRepository stores per-currency balances. Every mutation is a single
// conditional statement so concurrent writers cannot drive a balance negative.
type LedgerRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Ledger, error)

	// Adjust applies an admin adjustment and returns the resulting ledger.
	// Subtracting more than the balance yields *domain.InsufficientBalanceError.
	Adjust(ctx context.Context, adj domain.BalanceAdjustment) (*domain.Ledger, error)
}

// WithdrawalRepository stores withdrawal requests.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *domain.Withdrawal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error)

	// List returns matching requests, newest first.
	List(ctx context.Context, filter domain.WithdrawalFilter) ([]*domain.Withdrawal, error)

	// Review applies cmd in one transaction: the status moves only if it is
	// still cmd.ExpectedStatus, and when cmd.Debit is set the owner's balance
	// is decremented only if it covers the amount. Either both happen or
	// neither does.
	Review(ctx context.Context, cmd domain.ReviewCommand) (*domain.Withdrawal, error)
}

// WalletService is the application API shared by the HTTP and bot adapters.
type WalletService interface {
	GetMyLedger(ctx context.Context, actor domain.Actor) (*domain.Ledger, error)
	GetUserLedger(ctx context.Context, actor domain.Actor, userID uuid.UUID) (*domain.Ledger, error)

	RequestWithdrawal(ctx context.Context, actor domain.Actor, req domain.WithdrawalRequest) (*domain.Withdrawal, error)
	GetWithdrawal(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Withdrawal, error)
	ListMyWithdrawals(ctx context.Context, actor domain.Actor) ([]*domain.Withdrawal, error)
	ListAllWithdrawals(ctx context.Context, actor domain.Actor, filter domain.WithdrawalFilter) ([]*domain.Withdrawal, error)

	ReviewWithdrawal(ctx context.Context, actor domain.Actor, review domain.Review) (*domain.Withdrawal, error)
	AdjustBalance(ctx context.Context, actor domain.Actor, adj domain.BalanceAdjustment) (*domain.Ledger, error)
}
