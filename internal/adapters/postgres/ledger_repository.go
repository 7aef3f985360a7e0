package postgres

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.LedgerRepository = (*ledgerRepository)(nil)

func NewLedgerRepository(db *DB, baseLogger *zerolog.Logger) ports.LedgerRepository {
	return &ledgerRepository{
		db:  db,
		log: baseLogger.With().Str("component", "ledger_repo").Logger(),
	}
}

func (r *ledgerRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Ledger, error) {
	return loadLedger(ctx, r.db.pool, userID)
}

func (r *ledgerRepository) Adjust(ctx context.Context, adj domain.BalanceAdjustment) (*domain.Ledger, error) {
	var ledger *domain.Ledger

	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		switch adj.Operation {
		case domain.OperationAdd:
			_, err = tx.Exec(ctx, `
				INSERT INTO wallet_balances (user_id, currency, balance, updated_at)
				VALUES ($1, $2, $3, now())
				ON CONFLICT (user_id, currency)
				DO UPDATE SET balance = wallet_balances.balance + EXCLUDED.balance, updated_at = now()
			`, adj.UserID, string(adj.Currency), toNumeric(adj.Amount))
		case domain.OperationSet:
			_, err = tx.Exec(ctx, `
				INSERT INTO wallet_balances (user_id, currency, balance, updated_at)
				VALUES ($1, $2, $3, now())
				ON CONFLICT (user_id, currency)
				DO UPDATE SET balance = EXCLUDED.balance, updated_at = now()
			`, adj.UserID, string(adj.Currency), toNumeric(adj.Amount))
		case domain.OperationSubtract:
			err = debit(ctx, tx, adj.UserID, adj.Currency, adj.Amount)
		default:
			return domain.NewValidationError("operation", "Invalid operation")
		}
		if err != nil {
			return err
		}

		ledger, err = loadLedger(ctx, tx, adj.UserID)
		return err
	})
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return nil, domain.ErrNotFound
		case isCheckViolation(err):
			return nil, domain.NewValidationError("amount", "Balance cannot be negative")
		case isNumericOutOfRange(err):
			return nil, domain.NewValidationError("amount", "Resulting balance is too large")
		case errors.Is(err, domain.ErrInsufficientBalance), errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		r.log.Error().Err(err).
			Str("user_id", adj.UserID.String()).
			Str("operation", string(adj.Operation)).
			Msg("Failed to adjust balance")
		return nil, fmt.Errorf("adjust balance: %w", err)
	}
	return ledger, nil
}

// debit takes amount out of one balance only if it is covered. The check
// and the write are a single statement, so two concurrent debits can never
// both pass against the same funds.
func debit(ctx context.Context, q querier, userID uuid.UUID, currency domain.Currency, amount decimal.Decimal) error {
	tag, err := q.Exec(ctx, `
		UPDATE wallet_balances
		SET balance = balance - $3, updated_at = now()
		WHERE user_id = $1 AND currency = $2 AND balance >= $3
	`, userID, string(currency), toNumeric(amount))
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var balance pgtype.Numeric
	err = q.QueryRow(ctx, `
		SELECT balance FROM wallet_balances WHERE user_id = $1 AND currency = $2
	`, userID, string(currency)).Scan(&balance)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("read balance: %w", err)
	}
	available, _ := fromNumeric(balance)
	return &domain.InsufficientBalanceError{Available: available, Currency: currency}
}

// loadLedger reads every balance row of a user. A user without rows does
// not exist, since rows are created with the user.
func loadLedger(ctx context.Context, q querier, userID uuid.UUID) (*domain.Ledger, error) {
	rows, err := q.Query(ctx, `
		SELECT currency, balance, updated_at FROM wallet_balances WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	ledger := &domain.Ledger{UserID: userID, Balances: make(map[domain.Currency]decimal.Decimal)}
	found := false
	for rows.Next() {
		var (
			currency  string
			balance   pgtype.Numeric
			updatedAt time.Time
		)
		if err := rows.Scan(&currency, &balance, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		amount, err := fromNumeric(balance)
		if err != nil {
			return nil, err
		}
		ledger.Balances[domain.Currency(currency)] = amount
		if updatedAt.After(ledger.UpdatedAt) {
			ledger.UpdatedAt = updatedAt
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return ledger, nil
}
