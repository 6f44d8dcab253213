package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lendguard/internal/domain"
)

// memStore is a shared in-memory backing store for the fake repositories.
// Reads hand out copies so callers mutate their own snapshot until Update,
// the same visibility a row-returning database gives.
type memStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]domain.User
	positions     map[uuid.UUID]domain.LoanPosition
	topUps        []domain.TopUpTransaction
	samples       []domain.PriceSample
	notifications map[uuid.UUID]domain.Notification
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uuid.UUID]domain.User),
		positions:     make(map[uuid.UUID]domain.LoanPosition),
		notifications: make(map[uuid.UUID]domain.Notification),
	}
}

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copy := u
	return &copy, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Username == username {
			copy := u
			return &copy, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.store.users[user.ID] = *user
	return nil
}

type memPositionRepo struct{ store *memStore }

func (r *memPositionRepo) Create(_ context.Context, position *domain.LoanPosition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.positions[position.ID] = *position
	return nil
}

func (r *memPositionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.LoanPosition, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.positions[id]
	if !ok {
		return nil, domain.ErrPositionNotFound
	}
	copy := p
	return &copy, nil
}

func (r *memPositionRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*domain.LoanPosition, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.LoanPosition
	for _, p := range r.store.positions {
		if p.UserID == userID {
			copy := p
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memPositionRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.LoanPosition, error) {
	return r.GetByID(ctx, id)
}

func (r *memPositionRepo) Update(_ context.Context, position *domain.LoanPosition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.positions[position.ID]; !ok {
		return domain.ErrPositionNotFound
	}
	r.store.positions[position.ID] = *position
	return nil
}

func (r *memPositionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.positions[id]; !ok {
		return domain.ErrPositionNotFound
	}
	delete(r.store.positions, id)
	return nil
}

type memTopUpRepo struct{ store *memStore }

func (r *memTopUpRepo) Create(_ context.Context, txn *domain.TopUpTransaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.topUps = append(r.store.topUps, *txn)
	return nil
}

func (r *memTopUpRepo) GetByUserID(_ context.Context, userID uuid.UUID, limit int) ([]*domain.TopUpTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.TopUpTransaction
	for i := len(r.store.topUps) - 1; i >= 0 && len(out) < limit; i-- {
		if r.store.topUps[i].UserID == userID {
			copy := r.store.topUps[i]
			out = append(out, &copy)
		}
	}
	return out, nil
}

type memPriceRepo struct{ store *memStore }

func (r *memPriceRepo) Append(_ context.Context, sample *domain.PriceSample) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.samples = append(r.store.samples, *sample)
	return nil
}

func (r *memPriceRepo) Latest(_ context.Context, symbol string) (*domain.PriceSample, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := len(r.store.samples) - 1; i >= 0; i-- {
		if r.store.samples[i].Symbol == symbol {
			copy := r.store.samples[i]
			return &copy, nil
		}
	}
	return nil, domain.ErrNoSample
}

func (r *memPriceRepo) PastSample(_ context.Context, symbol string, age time.Duration) (*domain.PriceSample, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cutoff := time.Now().Add(-age)
	for i := len(r.store.samples) - 1; i >= 0; i-- {
		s := r.store.samples[i]
		if s.Symbol == symbol && !s.Timestamp.After(cutoff) {
			copy := s
			return &copy, nil
		}
	}
	return nil, domain.ErrNoSample
}

func (r *memPriceRepo) Recent(_ context.Context, symbol string, limit int) ([]*domain.PriceSample, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.PriceSample
	for i := len(r.store.samples) - 1; i >= 0 && len(out) < limit; i-- {
		if r.store.samples[i].Symbol == symbol {
			copy := r.store.samples[i]
			out = append(out, &copy)
		}
	}
	return out, nil
}

type memNotificationRepo struct{ store *memStore }

func (r *memNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications[n.ID] = *n
	return nil
}

func (r *memNotificationRepo) GetByUserID(_ context.Context, userID uuid.UUID, limit int) ([]*domain.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.store.notifications {
		if n.UserID == userID {
			copy := n
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n, ok := r.store.notifications[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	n.IsRead = true
	r.store.notifications[id] = n
	copy := n
	return &copy, nil
}

// memRepositorySet bundles the fake repositories over one store.
type memRepositorySet struct {
	users     *memUserRepo
	positions *memPositionRepo
	topUps    *memTopUpRepo
}

func (s *memRepositorySet) Users() domain.UserRepository             { return s.users }
func (s *memRepositorySet) Positions() domain.LoanPositionRepository { return s.positions }
func (s *memRepositorySet) TopUps() domain.TopUpTransactionRepository {
	return s.topUps
}

// memUnitOfWork serializes whole transactions with one mutex, standing in
// for the row locks the real implementation takes. There is no rollback:
// tests that exercise failure paths fail before any write happens.
type memUnitOfWork struct {
	mu  sync.Mutex
	set *memRepositorySet
}

func (u *memUnitOfWork) WithinTx(_ context.Context, fn func(tx domain.RepositorySet) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(u.set)
}

// recordingBroadcaster captures everything pushed at the realtime hub.
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []broadcastRecord
}

type broadcastRecord struct {
	messageType string
	payload     any
}

func (b *recordingBroadcaster) Broadcast(messageType string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, broadcastRecord{messageType: messageType, payload: payload})
}

func (b *recordingBroadcaster) byType(messageType string) []broadcastRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []broadcastRecord
	for _, m := range b.messages {
		if m.messageType == messageType {
			out = append(out, m)
		}
	}
	return out
}

// staticPriceSource always quotes the same price.
type staticPriceSource struct {
	price decimal.Decimal
}

func (s *staticPriceSource) CurrentPrice(context.Context, string) (decimal.Decimal, error) {
	return s.price, nil
}

func (s *staticPriceSource) PriceChange24h(context.Context, string) (*PriceQuote, error) {
	return &PriceQuote{Price: s.price, Change: decimal.Zero, ChangePercent: decimal.Zero}, nil
}

// env bundles a fully wired in-memory service stack for tests.
type env struct {
	store         *memStore
	users         *memUserRepo
	positions     *memPositionRepo
	topUps        *memTopUpRepo
	prices        *memPriceRepo
	notifications *memNotificationRepo
	uow           *memUnitOfWork
	hub           *recordingBroadcaster
	notifier      *NotificationService
}

func newEnv() *env {
	store := newMemStore()
	users := &memUserRepo{store: store}
	positions := &memPositionRepo{store: store}
	topUps := &memTopUpRepo{store: store}
	hub := &recordingBroadcaster{}
	notificationRepo := &memNotificationRepo{store: store}

	return &env{
		store:         store,
		users:         users,
		positions:     positions,
		topUps:        topUps,
		prices:        &memPriceRepo{store: store},
		notifications: notificationRepo,
		uow: &memUnitOfWork{set: &memRepositorySet{
			users:     users,
			positions: positions,
			topUps:    topUps,
		}},
		hub:      hub,
		notifier: NewNotificationService(notificationRepo, hub),
	}
}

func (e *env) seedUser(autoTopUp bool) *domain.User {
	now := time.Now()
	user := &domain.User{
		ID:                      uuid.New(),
		Username:                "trader.eth",
		WalletAddress:           "0x9730c4e0b01962a66b7582b7b8a7b21a329d4d4f",
		LinkedWalletBalanceBtc:  decimal.RequireFromString("0.5"),
		LinkedWalletBalanceUsdt: decimal.RequireFromString("20000"),
		AutoTopUpEnabled:        autoTopUp,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	e.store.users[user.ID] = *user
	return user
}

func (e *env) seedPosition(userID uuid.UUID, name, collateralBtc, collateralUsdt, borrowed, healthFactor string) *domain.LoanPosition {
	now := time.Now()
	position := &domain.LoanPosition{
		ID:               uuid.New(),
		UserID:           userID,
		PositionName:     name,
		CollateralBtc:    decimal.RequireFromString(collateralBtc),
		CollateralUsdt:   decimal.RequireFromString(collateralUsdt),
		BorrowedAmount:   decimal.RequireFromString(borrowed),
		Apr:              decimal.RequireFromString("7.5"),
		HealthFactor:     decimal.RequireFromString(healthFactor),
		IsProtected:      true,
		LiquidationPrice: decimal.RequireFromString("25000.00"),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	e.store.positions[position.ID] = *position
	return position
}

func (e *env) user(id uuid.UUID) domain.User {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.users[id]
}

func (e *env) position(id uuid.UUID) domain.LoanPosition {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.positions[id]
}
