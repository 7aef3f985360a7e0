package postgres

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type userRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.UserRepository = (*userRepository)(nil) // Ensure compliance

// NewUserRepository creates a new repository for user operations.
func NewUserRepository(db *DB, baseLogger *zerolog.Logger) ports.UserRepository {
	return &userRepository{
		db:  db,
		log: baseLogger.With().Str("component", "user_repo").Logger(),
	}
}

const userColumns = `id, name, email, role, telegram_id, created_at, updated_at`

// Create inserts the user and one zero balance row per supported currency
// in the same transaction, so a user never exists without a full ledger.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	currencies := make([]string, 0, len(domain.SupportedCurrencies))
	for _, c := range domain.SupportedCurrencies {
		currencies = append(currencies, string(c))
	}

	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, name, email, role, telegram_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, user.ID, user.Name, user.Email, string(user.Role), user.TelegramID, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO wallet_balances (user_id, currency, balance, updated_at)
			SELECT $1::uuid, c, 0, $2::timestamptz FROM unnest($3::text[]) AS c
		`, user.ID, user.CreatedAt, currencies)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Email, domain.ErrConflict)
		}
		r.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to insert new user")
		return err
	}

	r.log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("User created with empty ledger")
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanUser(row)
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID)
	return r.scanUser(row)
}

func (r *userRepository) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error) {
	result := make(map[uuid.UUID]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.db.pool.Query(ctx, `SELECT id, name, email FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		r.log.Error().Err(err).Int("ids", len(ids)).Msg("Failed to query user summaries")
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, err
		}
		result[s.ID] = s
	}
	return result, rows.Err()
}

// scanUser maps one row; a missing row becomes domain.ErrNotFound.
func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.TelegramID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.log.Error().Err(err).Msg("Failed to scan user row")
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
