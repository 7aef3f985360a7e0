package postgres

import (
	"ReferralHub/internal/adapters/security"
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

var (
	testDB     *DB
	testSecSvc ports.SecurityPort
)

// TestMain runs the integration tests against DATABASE_URL and skips the
// package when it is unset.
func TestMain(m *testing.M) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		fmt.Println("DATABASE_URL not set, skipping postgres integration tests")
		os.Exit(0)
	}

	nopLogger := zerolog.Nop()
	if err := MigrateUp(url, &nopLogger); err != nil {
		log.Fatalf("TestMain: migrate: %v", err)
	}

	var err error
	testSecSvc, err = security.NewAESServiceFromHex(testEncryptionKey, &nopLogger)
	if err != nil {
		log.Fatalf("TestMain: security service: %v", err)
	}

	testDB, err = NewDB(context.Background(), url, 10, &nopLogger)
	if err != nil {
		log.Fatalf("TestMain: connect: %v", err)
	}

	code := m.Run()
	testDB.Close()
	os.Exit(code)
}

// createTestUser inserts a user with zero balances and removes it, along
// with every withdrawal that references it, when the test ends.
func createTestUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	nopLogger := zerolog.Nop()
	repo := NewUserRepository(testDB, &nopLogger)

	id := uuid.New()
	user, err := domain.NewUser("Test "+string(role), fmt.Sprintf("%s@test.referralhub.dev", id), role, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(t.Context(), user))

	t.Cleanup(func() {
		ctx := context.Background()
		if _, err := testDB.pool.Exec(ctx, `DELETE FROM withdrawals WHERE user_id = $1 OR processed_by = $1`, user.ID); err != nil {
			t.Logf("cleanup withdrawals of %s: %v", user.ID, err)
		}
		if _, err := testDB.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID); err != nil {
			t.Logf("cleanup user %s: %v", user.ID, err)
		}
	})
	return user
}

func fund(t *testing.T, userID uuid.UUID, currency domain.Currency, amount string) {
	t.Helper()
	nopLogger := zerolog.Nop()
	_, err := NewLedgerRepository(testDB, &nopLogger).Adjust(t.Context(), domain.BalanceAdjustment{
		UserID:    userID,
		Currency:  currency,
		Amount:    dec(amount),
		Operation: domain.OperationSet,
	})
	require.NoError(t, err)
}

func newPendingWithdrawal(t *testing.T, userID uuid.UUID, amount string, currency domain.Currency) *domain.Withdrawal {
	t.Helper()
	nopLogger := zerolog.Nop()
	w := domain.NewWithdrawal(userID, domain.WithdrawalRequest{
		Amount:   dec(amount),
		Currency: currency,
		BankDetails: domain.BankDetails{
			AccountHolderName: "Test Holder",
			BankName:          "Test Bank",
			AccountNumber:     "9876543210",
			RoutingNumber:     "021000021",
			IBAN:              "AE070331234567890123456",
		},
	}, time.Now().UTC())
	require.NoError(t, NewWithdrawalRepository(testDB, testSecSvc, &nopLogger).Create(t.Context(), w))
	return w
}
