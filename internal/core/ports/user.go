package ports

import (
	"ReferralHub/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence operations for Users.
type UserRepository interface {
	// Create saves a new user together with a zeroed ledger.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns domain.ErrNotFound when no user has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByTelegramID finds a user by their linked Telegram account.
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)

	// Summaries resolves display data for many users at once. Unknown ids
	// are left out of the result.
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error)
}

// UserDirectory is the read side used to enrich withdrawals for display.
type UserDirectory interface {
	Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error)
}
