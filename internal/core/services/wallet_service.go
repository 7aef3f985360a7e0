package services

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// walletService implements ports.WalletService.
type walletService struct {
	users       ports.UserRepository
	directory   ports.UserDirectory
	ledgers     ports.LedgerRepository
	withdrawals ports.WithdrawalRepository
	bus         ports.EventBus
	now         func() time.Time
	log         zerolog.Logger
}

// Compile-time check
var _ ports.WalletService = (*walletService)(nil)

// WalletDeps groups the collaborators of the wallet service.
type WalletDeps struct {
	Users       ports.UserRepository
	Directory   ports.UserDirectory
	Ledgers     ports.LedgerRepository
	Withdrawals ports.WithdrawalRepository
	Bus         ports.EventBus
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

func NewWalletService(deps WalletDeps, baseLogger *zerolog.Logger) ports.WalletService {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &walletService{
		users:       deps.Users,
		directory:   deps.Directory,
		ledgers:     deps.Ledgers,
		withdrawals: deps.Withdrawals,
		bus:         deps.Bus,
		now:         now,
		log:         baseLogger.With().Str("component", "wallet_service").Logger(),
	}
}

func (s *walletService) GetMyLedger(ctx context.Context, actor domain.Actor) (*domain.Ledger, error) {
	return s.ledgers.Get(ctx, actor.UserID)
}

func (s *walletService) GetUserLedger(ctx context.Context, actor domain.Actor, userID uuid.UUID) (*domain.Ledger, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.ledgers.Get(ctx, userID)
}

// RequestWithdrawal records a pending request. The balance check here is
// advisory; the binding check happens when an admin approves.
func (s *walletService) RequestWithdrawal(ctx context.Context, actor domain.Actor, req domain.WithdrawalRequest) (*domain.Withdrawal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ledger, err := s.ledgers.Get(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	available := ledger.Balance(req.Currency)
	if available.LessThan(req.Amount) {
		return nil, &domain.InsufficientBalanceError{Available: available, Currency: req.Currency}
	}

	w := domain.NewWithdrawal(actor.UserID, req, s.now())
	if err := s.withdrawals.Create(ctx, w); err != nil {
		s.log.Error().Err(err).Str("user_id", actor.UserID.String()).Msg("Failed to store withdrawal request")
		return nil, fmt.Errorf("store withdrawal: %w", err)
	}

	s.enrich(ctx, []*domain.Withdrawal{w})

	s.log.Info().
		Str("withdrawal_id", w.ID.String()).
		Str("user_id", w.UserID.String()).
		Str("amount", w.Amount.String()).
		Str("currency", string(w.Currency)).
		Msg("Withdrawal requested")
	s.publish(ctx, ports.TopicWithdrawalRequested, w)

	return w, nil
}

// GetWithdrawal returns one request to its owner or to an admin.
func (s *walletService) GetWithdrawal(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Withdrawal, error) {
	w, err := s.withdrawals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	s.enrich(ctx, []*domain.Withdrawal{w})
	return w, nil
}

func (s *walletService) ListMyWithdrawals(ctx context.Context, actor domain.Actor) ([]*domain.Withdrawal, error) {
	userID := actor.UserID
	list, err := s.withdrawals.List(ctx, domain.WithdrawalFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, list)
	return list, nil
}

func (s *walletService) ListAllWithdrawals(ctx context.Context, actor domain.Actor, filter domain.WithdrawalFilter) ([]*domain.Withdrawal, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	list, err := s.withdrawals.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.enrich(ctx, list)
	return list, nil
}

// ReviewWithdrawal moves a pending request to its final status. For
// approved and processed the owner's balance is debited in the same
// transaction as the status change.
func (s *walletService) ReviewWithdrawal(ctx context.Context, actor domain.Actor, review domain.Review) (*domain.Withdrawal, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	current, err := s.withdrawals.GetByID(ctx, review.WithdrawalID)
	if err != nil {
		return nil, err
	}

	plan, err := domain.PlanReview(current.Status, review.Status)
	if err != nil {
		return nil, err
	}

	updated, err := s.withdrawals.Review(ctx, domain.ReviewCommand{
		WithdrawalID:   current.ID,
		ExpectedStatus: plan.From,
		Status:         plan.To,
		AdminNotes:     review.AdminNotes,
		ProcessedBy:    actor.UserID,
		ProcessedAt:    s.now(),
		Debit:          plan.Debit,
	})
	if err != nil {
		var insufficient *domain.InsufficientBalanceError
		if errors.As(err, &insufficient) {
			s.log.Warn().
				Str("withdrawal_id", current.ID.String()).
				Str("available", insufficient.Available.String()).
				Msg("Review refused, balance no longer covers the request")
		}
		return nil, err
	}

	s.enrich(ctx, []*domain.Withdrawal{updated})

	s.log.Info().
		Str("withdrawal_id", updated.ID.String()).
		Str("admin_id", actor.UserID.String()).
		Str("from", string(plan.From)).
		Str("to", string(plan.To)).
		Bool("debited", plan.Debit).
		Msg("Withdrawal reviewed")
	s.publish(ctx, ports.TopicWithdrawalReviewed, &domain.WithdrawalReviewed{
		Withdrawal:     updated,
		PreviousStatus: plan.From,
		Debited:        plan.Debit,
	})

	return updated, nil
}

func (s *walletService) AdjustBalance(ctx context.Context, actor domain.Actor, adj domain.BalanceAdjustment) (*domain.Ledger, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, adj.UserID); err != nil {
		return nil, err
	}

	ledger, err := s.ledgers.Adjust(ctx, adj)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", adj.UserID.String()).
		Str("admin_id", actor.UserID.String()).
		Str("operation", string(adj.Operation)).
		Str("amount", adj.Amount.String()).
		Str("currency", string(adj.Currency)).
		Msg("Balance adjusted")
	s.publish(ctx, ports.TopicLedgerAdjusted, &domain.LedgerAdjusted{
		Adjustment: adj,
		AdminID:    actor.UserID,
		Ledger:     ledger,
	})

	return ledger, nil
}

// enrich attaches owner and reviewer summaries. Lookup failures only cost
// display data, so they are logged and otherwise ignored.
func (s *walletService) enrich(ctx context.Context, list []*domain.Withdrawal) {
	if len(list) == 0 || s.directory == nil {
		return
	}

	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, w := range list {
		add(w.UserID)
		if w.ProcessedBy != nil {
			add(*w.ProcessedBy)
		}
	}

	summaries, err := s.directory.Lookup(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Int("users", len(ids)).Msg("User lookup failed, returning withdrawals without names")
		return
	}

	for _, w := range list {
		if owner, ok := summaries[w.UserID]; ok {
			w.Owner = &owner
		}
		if w.ProcessedBy != nil {
			if processor, ok := summaries[*w.ProcessedBy]; ok {
				w.Processor = &processor
			}
		}
	}
}

func (s *walletService) publish(ctx context.Context, topic string, data interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, topic, data); err != nil {
		s.log.Error().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
