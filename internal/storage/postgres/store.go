package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/storage"
)

// Store is the pgx-backed implementation of storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction with the balance and ledger operations.
type Tx struct {
	tx pgx.Tx
}

func (t *Tx) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	const query = `SELECT id, balance, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE`

	var acc domain.Account
	err := t.tx.QueryRow(ctx, query, id).Scan(&acc.ID, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lock account: %w", err)
	}
	return acc, nil
}

func (t *Tx) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	const query = `UPDATE accounts SET balance = balance + $2, updated_at = now() WHERE id = $1 RETURNING balance`

	var balance decimal.Decimal
	err := t.tx.QueryRow(ctx, query, id, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrAccountNotFound
		}
		return decimal.Zero, fmt.Errorf("apply balance delta: %w", err)
	}
	return balance, nil
}

func (t *Tx) CreateEntry(ctx context.Context, entry *domain.TransactionEntry) error {
	const query = `INSERT INTO transactions (id, sender_id, recipient_id, amount, kind, status, note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := t.tx.Exec(ctx, query,
		entry.ID, entry.SenderID, entry.RecipientID, entry.Amount,
		string(entry.Kind), string(entry.Status), entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	const query = `SELECT id, balance, created_at, updated_at FROM accounts WHERE id = $1`

	var acc domain.Account
	err := s.pool.QueryRow(ctx, query, id).Scan(&acc.ID, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

func (s *Store) ListEntriesForAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionEntry, error) {
	const query = `SELECT id, sender_id, recipient_id, amount, kind, status, note, created_at
	FROM transactions
	WHERE sender_id = $1 OR recipient_id = $1
	ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var entries []domain.TransactionEntry
	for rows.Next() {
		var e domain.TransactionEntry
		var kind, status string
		if err := rows.Scan(&e.ID, &e.SenderID, &e.RecipientID, &e.Amount, &kind, &status, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		e.Kind = domain.TransactionKind(kind)
		e.Status = domain.TransactionStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return entries, nil
}

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	const query = `SELECT id, name, email, avatar, phone, created_at, updated_at FROM profiles WHERE id = $1`

	var p domain.Profile
	err := s.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Email, &p.Avatar, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *Store) GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Profile, error) {
	const query = `SELECT id, name, email, avatar, phone, created_at, updated_at FROM profiles WHERE id = ANY($1)`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	defer rows.Close()

	profiles := make(map[uuid.UUID]domain.Profile, len(ids))
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Avatar, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	return profiles, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id uuid.UUID, update storage.ProfileUpdate) (domain.Profile, error) {
	const query = `UPDATE profiles
	SET name = COALESCE($2, name),
	    avatar = COALESCE($3, avatar),
	    phone = COALESCE($4, phone),
	    updated_at = now()
	WHERE id = $1
	RETURNING id, name, email, avatar, phone, created_at, updated_at`

	var p domain.Profile
	err := s.pool.QueryRow(ctx, query, id, update.Name, update.Avatar, update.Phone).
		Scan(&p.ID, &p.Name, &p.Email, &p.Avatar, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (s *Store) SearchProfiles(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	const sql = `SELECT id, name, email, avatar, phone, created_at, updated_at
	FROM profiles
	WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
	ORDER BY name
	LIMIT $2`

	rows, err := s.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Avatar, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	return profiles, nil
}

func (s *Store) ListPaymentMethods(ctx context.Context, accountID uuid.UUID) ([]domain.PaymentMethod, error) {
	const query = `SELECT id, account_id, processor_token, brand, last4, exp_month, exp_year, is_default, created_at
	FROM payment_methods
	WHERE account_id = $1
	ORDER BY is_default DESC, created_at DESC`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		if err := rows.Scan(&m.ID, &m.AccountID, &m.ProcessorToken, &m.Brand, &m.Last4, &m.ExpMonth, &m.ExpYear, &m.IsDefault, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

func (s *Store) CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error {
	const query = `INSERT INTO payment_methods (id, account_id, processor_token, brand, last4, exp_month, exp_year, is_default, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query,
		method.ID, method.AccountID, method.ProcessorToken, method.Brand,
		method.Last4, method.ExpMonth, method.ExpYear, method.IsDefault, method.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment method: %w", err)
	}
	return nil
}

func (s *Store) SetDefaultPaymentMethod(ctx context.Context, accountID, methodID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE payment_methods SET is_default = false WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("clear default payment methods: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE payment_methods SET is_default = true WHERE id = $1 AND account_id = $2`, methodID, accountID)
	if err != nil {
		return fmt.Errorf("set default payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentMethodNotFound
	}

	return tx.Commit(ctx)
}

func (s *Store) DeletePaymentMethod(ctx context.Context, accountID, methodID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM payment_methods WHERE id = $1 AND account_id = $2`, methodID, accountID)
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentMethodNotFound
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
