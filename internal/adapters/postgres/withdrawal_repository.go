package postgres

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
)

type withdrawalRepository struct {
	db     *DB
	secSvc ports.SecurityPort
	log    zerolog.Logger
}

var _ ports.WithdrawalRepository = (*withdrawalRepository)(nil)

// NewWithdrawalRepository stores withdrawals with bank details encrypted
// through secSvc.
func NewWithdrawalRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.WithdrawalRepository {
	return &withdrawalRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "withdrawal_repo").Logger(),
	}
}

const withdrawalColumns = `
	id, user_id, amount, currency, bank_details, status,
	admin_notes, processed_by, processed_at, created_at
`

func (r *withdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	sealed, err := r.sealBankDetails(w.ID, w.BankDetails)
	if err != nil {
		return err
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO withdrawals (id, user_id, amount, currency, bank_details, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, w.ID, w.UserID, toNumeric(w.Amount), string(w.Currency), sealed, string(w.Status), w.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		r.log.Error().Err(err).Str("withdrawal_id", w.ID.String()).Msg("Failed to insert withdrawal")
		return err
	}
	return nil
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
	return r.scanWithdrawal(row)
}

func (r *withdrawalRepository) List(ctx context.Context, filter domain.WithdrawalFilter) ([]*domain.Withdrawal, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list withdrawals")
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Withdrawal, 0)
	for rows.Next() {
		w, err := r.scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// Review applies the status change and, for funds-moving outcomes, the
// balance debit. The UPDATE is guarded on the expected status, so of two
// concurrent reviews only one can match; the loser sees zero rows and gets
// a transition error.
func (r *withdrawalRepository) Review(ctx context.Context, cmd domain.ReviewCommand) (*domain.Withdrawal, error) {
	var updated *domain.Withdrawal

	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE withdrawals
			SET status = $2,
			    admin_notes = COALESCE($3, admin_notes),
			    processed_by = $4,
			    processed_at = $5
			WHERE id = $1 AND status = $6
			RETURNING `+withdrawalColumns,
			cmd.WithdrawalID, string(cmd.Status), cmd.AdminNotes,
			cmd.ProcessedBy, cmd.ProcessedAt, string(cmd.ExpectedStatus),
		)
		w, err := r.scanWithdrawal(row)
		if errors.Is(err, domain.ErrNotFound) {
			return r.explainMiss(ctx, tx, cmd)
		}
		if err != nil {
			return err
		}

		if cmd.Debit {
			if err := debit(ctx, tx, w.UserID, w.Currency, w.Amount); err != nil {
				return err
			}
		}
		updated = w
		return nil
	})
	if err != nil {
		// processed_by must name an existing user; a token for a deleted
		// admin is refused rather than surfacing as a server error.
		if isForeignKeyViolation(err) {
			return nil, domain.ErrForbidden
		}
		if !errors.Is(err, domain.ErrInsufficientBalance) &&
			!errors.Is(err, domain.ErrInvalidTransition) &&
			!errors.Is(err, domain.ErrNotFound) {
			r.log.Error().Err(err).Str("withdrawal_id", cmd.WithdrawalID.String()).Msg("Failed to review withdrawal")
		}
		return nil, err
	}
	return updated, nil
}

// explainMiss tells apart a missing row from one whose status moved.
func (r *withdrawalRepository) explainMiss(ctx context.Context, tx pgx.Tx, cmd domain.ReviewCommand) error {
	var current string
	err := tx.QueryRow(ctx, `SELECT status FROM withdrawals WHERE id = $1`, cmd.WithdrawalID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return &domain.TransitionError{From: domain.WithdrawalStatus(current), To: cmd.Status}
}

func (r *withdrawalRepository) scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var (
		w        domain.Withdrawal
		amount   pgtype.Numeric
		currency string
		status   string
		sealed   string
	)
	err := row.Scan(
		&w.ID, &w.UserID, &amount, &currency, &sealed, &status,
		&w.AdminNotes, &w.ProcessedBy, &w.ProcessedAt, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.log.Error().Err(err).Msg("Failed to scan withdrawal row")
		return nil, err
	}

	if w.Amount, err = fromNumeric(amount); err != nil {
		return nil, err
	}
	w.Currency = domain.Currency(currency)
	w.Status = domain.WithdrawalStatus(status)

	if w.BankDetails, err = r.openBankDetails(w.ID, sealed); err != nil {
		return nil, err
	}
	return &w, nil
}

// sealBankDetails encrypts the details with the withdrawal id as associated
// data and base64-encodes the result for the TEXT column.
func (r *withdrawalRepository) sealBankDetails(id uuid.UUID, details domain.BankDetails) (string, error) {
	plain, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("encode bank details: %w", err)
	}
	encBytes, err := r.secSvc.Encrypt(plain, id[:])
	if err != nil {
		r.log.Error().Err(err).Str("withdrawal_id", id.String()).Msg("Failed to encrypt bank details")
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encBytes), nil
}

func (r *withdrawalRepository) openBankDetails(id uuid.UUID, sealed string) (domain.BankDetails, error) {
	var details domain.BankDetails

	encBytes, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return details, fmt.Errorf("decode bank details: %w", err)
	}
	plain, err := r.secSvc.Decrypt(encBytes, id[:])
	if err != nil {
		r.log.Error().Err(err).Str("withdrawal_id", id.String()).Msg("Failed to decrypt bank details")
		return details, err
	}
	if err := json.Unmarshal(plain, &details); err != nil {
		return details, fmt.Errorf("decode bank details: %w", err)
	}
	return details, nil
}
