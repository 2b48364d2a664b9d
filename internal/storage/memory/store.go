// Package memory is an in-memory storage.Store used by tests and by local
// runs without a database. A transaction holds the store lock for its whole
// lifetime, so concurrent transfers serialize the same way postgres row
// locks serialize them.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/storage"
	"golang.org/x/sync/semaphore"
)

type Store struct {
	sem *semaphore.Weighted

	accounts map[uuid.UUID]domain.Account
	entries  []domain.TransactionEntry
	profiles map[uuid.UUID]domain.Profile
	methods  map[uuid.UUID]domain.PaymentMethod
}

func NewStore() *Store {
	return &Store{
		sem:      semaphore.NewWeighted(1),
		accounts: make(map[uuid.UUID]domain.Account),
		profiles: make(map[uuid.UUID]domain.Profile),
		methods:  make(map[uuid.UUID]domain.PaymentMethod),
	}
}

// AddAccount registers a profile with an account at the given starting
// balance. Signup is external to the core; this stands in for it.
func (s *Store) AddAccount(profile domain.Profile, balance decimal.Decimal) {
	_ = s.sem.Acquire(context.Background(), 1)
	defer s.sem.Release(1)

	s.profiles[profile.ID] = profile
	s.accounts[profile.ID] = domain.Account{
		ID:        profile.ID,
		Balance:   balance,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.CreatedAt,
	}
}

// RemoveProfile drops only the profile, keeping the account. Used to model a
// deleted counterparty whose ledger entries must still resolve.
func (s *Store) RemoveProfile(id uuid.UUID) {
	_ = s.sem.Acquire(context.Background(), 1)
	defer s.sem.Release(1)

	delete(s.profiles, id)
}

// ErrTxClosed is returned when a transaction is used after Commit or
// Rollback, mirroring how a pgx transaction becomes unusable once closed.
var ErrTxClosed = errors.New("transaction already closed")

type memTx struct {
	store    *Store
	balances map[uuid.UUID]decimal.Decimal
	entries  []domain.TransactionEntry
	done     bool
}

func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return &memTx{
		store:    s,
		balances: make(map[uuid.UUID]decimal.Decimal),
	}, nil
}

func (t *memTx) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	if t.done {
		return domain.Account{}, ErrTxClosed
	}
	acc, ok := t.store.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if staged, ok := t.balances[id]; ok {
		acc.Balance = staged
	}
	return acc, nil
}

func (t *memTx) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	acc, err := t.GetAccountForUpdate(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	newBalance := acc.Balance.Add(delta)
	t.balances[id] = newBalance
	return newBalance, nil
}

func (t *memTx) CreateEntry(ctx context.Context, entry *domain.TransactionEntry) error {
	if t.done {
		return ErrTxClosed
	}
	t.entries = append(t.entries, *entry)
	return nil
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxClosed
	}
	for id, balance := range t.balances {
		acc := t.store.accounts[id]
		acc.Balance = balance
		acc.UpdatedAt = time.Now()
		t.store.accounts[id] = acc
	}
	t.store.entries = append(t.store.entries, t.entries...)
	t.done = true
	t.store.sem.Release(1)
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.sem.Release(1)
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return domain.Account{}, err
	}
	defer s.sem.Release(1)

	acc, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return acc, nil
}

func (s *Store) ListEntriesForAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionEntry, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	var result []domain.TransactionEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.SenderID == accountID || e.RecipientID == accountID {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return domain.Profile{}, err
	}
	defer s.sem.Release(1)

	p, ok := s.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s *Store) GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Profile, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	profiles := make(map[uuid.UUID]domain.Profile, len(ids))
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			profiles[id] = p
		}
	}
	return profiles, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id uuid.UUID, update storage.ProfileUpdate) (domain.Profile, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return domain.Profile{}, err
	}
	defer s.sem.Release(1)

	p, ok := s.profiles[id]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Avatar != nil {
		p.Avatar = *update.Avatar
	}
	if update.Phone != nil {
		p.Phone = *update.Phone
	}
	p.UpdatedAt = time.Now()
	s.profiles[id] = p
	return p, nil
}

func (s *Store) SearchProfiles(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	q := strings.ToLower(query)
	var result []domain.Profile
	for _, p := range s.profiles {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Email), q) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) ListPaymentMethods(ctx context.Context, accountID uuid.UUID) ([]domain.PaymentMethod, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	var result []domain.PaymentMethod
	for _, m := range s.methods {
		if m.AccountID == accountID {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsDefault != result[j].IsDefault {
			return result[i].IsDefault
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	s.methods[method.ID] = *method
	return nil
}

func (s *Store) SetDefaultPaymentMethod(ctx context.Context, accountID, methodID uuid.UUID) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	target, ok := s.methods[methodID]
	if !ok || target.AccountID != accountID {
		return domain.ErrPaymentMethodNotFound
	}
	for id, m := range s.methods {
		if m.AccountID == accountID {
			m.IsDefault = id == methodID
			s.methods[id] = m
		}
	}
	return nil
}

func (s *Store) DeletePaymentMethod(ctx context.Context, accountID, methodID uuid.UUID) error {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	m, ok := s.methods[methodID]
	if !ok || m.AccountID != accountID {
		return domain.ErrPaymentMethodNotFound
	}
	delete(s.methods, methodID)
	return nil
}

var _ storage.Store = (*Store)(nil)
