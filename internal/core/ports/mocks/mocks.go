// Package mocks holds testify mocks for the core ports.
package mocks

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *UserRepository) GetByTelegramID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *UserRepository) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.UserSummary), args.Error(1)
}

// UserDirectory
type UserDirectory struct {
	mock.Mock
}

func (m *UserDirectory) Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.UserSummary), args.Error(1)
}

// LedgerRepository
type LedgerRepository struct {
	mock.Mock
}

func (m *LedgerRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Ledger, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *LedgerRepository) Adjust(ctx context.Context, adj domain.BalanceAdjustment) (*domain.Ledger, error) {
	args := m.Called(ctx, adj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

// WithdrawalRepository
type WithdrawalRepository struct {
	mock.Mock
}

func (m *WithdrawalRepository) Create(ctx context.Context, w *domain.Withdrawal) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
func (m *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *WithdrawalRepository) List(ctx context.Context, filter domain.WithdrawalFilter) ([]*domain.Withdrawal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Withdrawal), args.Error(1)
}
func (m *WithdrawalRepository) Review(ctx context.Context, cmd domain.ReviewCommand) (*domain.Withdrawal, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

// WalletService
type WalletService struct {
	mock.Mock
}

func (m *WalletService) GetMyLedger(ctx context.Context, actor domain.Actor) (*domain.Ledger, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *WalletService) GetUserLedger(ctx context.Context, actor domain.Actor, userID uuid.UUID) (*domain.Ledger, error) {
	args := m.Called(ctx, actor, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}
func (m *WalletService) RequestWithdrawal(ctx context.Context, actor domain.Actor, req domain.WithdrawalRequest) (*domain.Withdrawal, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *WalletService) GetWithdrawal(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Withdrawal, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *WalletService) ListMyWithdrawals(ctx context.Context, actor domain.Actor) ([]*domain.Withdrawal, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Withdrawal), args.Error(1)
}
func (m *WalletService) ListAllWithdrawals(ctx context.Context, actor domain.Actor, filter domain.WithdrawalFilter) ([]*domain.Withdrawal, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Withdrawal), args.Error(1)
}
func (m *WalletService) ReviewWithdrawal(ctx context.Context, actor domain.Actor, review domain.Review) (*domain.Withdrawal, error) {
	args := m.Called(ctx, actor, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}
func (m *WalletService) AdjustBalance(ctx context.Context, actor domain.Actor, adj domain.BalanceAdjustment) (*domain.Ledger, error) {
	args := m.Called(ctx, actor, adj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

// Cache
type Cache struct {
	mock.Mock
}

func (m *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *Cache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// BotClient
type BotClient struct {
	mock.Mock
}

func (m *BotClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}
func (m *BotClient) EditMessageText(ctx context.Context, params ports.EditMessageParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *BotClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *BotClient) SetMenuCommands(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// EventBus records every publish and keeps subscribed handlers so tests can
// fire them synchronously.
type EventBus struct {
	mock.Mock
	mu       sync.Mutex
	Handlers map[string][]ports.EventHandler
}

func (m *EventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}
func (m *EventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Handlers == nil {
		m.Handlers = make(map[string][]ports.EventHandler)
	}
	m.Handlers[topic] = append(m.Handlers[topic], handler)
}

// Fire runs every handler subscribed to topic and returns the first error.
func (m *EventBus) Fire(ctx context.Context, topic string, data interface{}) error {
	m.mu.Lock()
	handlers := append([]ports.EventHandler(nil), m.Handlers[topic]...)
	m.mu.Unlock()
	for _, h := range handlers {
		if err := h(ctx, ports.Event{Topic: topic, Data: data}); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ ports.UserRepository       = (*UserRepository)(nil)
	_ ports.UserDirectory        = (*UserDirectory)(nil)
	_ ports.LedgerRepository     = (*LedgerRepository)(nil)
	_ ports.WithdrawalRepository = (*WithdrawalRepository)(nil)
	_ ports.WalletService        = (*WalletService)(nil)
	_ ports.Cache                = (*Cache)(nil)
	_ ports.BotClientPort        = (*BotClient)(nil)
	_ ports.EventBus             = (*EventBus)(nil)
)
