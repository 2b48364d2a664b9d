package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/storage"
)

// LedgerService reads transaction history with both parties resolved to
// display records.
type LedgerService struct {
	store storage.Store
}

func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// ListForUser returns every entry where the account is sender or recipient,
// newest first. A counterparty with no profile resolves to the Unknown
// placeholder for that entry only; it never fails the whole read.
func (s *LedgerService) ListForUser(ctx context.Context, accountID uuid.UUID) ([]domain.ResolvedEntry, error) {
	entries, err := s.store.ListEntriesForAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if len(entries) == 0 {
		return []domain.ResolvedEntry{}, nil
	}

	ids := make([]uuid.UUID, 0, len(entries)*2)
	seen := make(map[uuid.UUID]bool, len(entries)*2)
	for _, e := range entries {
		for _, id := range []uuid.UUID{e.SenderID, e.RecipientID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	profiles, err := s.store.GetProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve profiles: %w", err)
	}

	resolved := make([]domain.ResolvedEntry, 0, len(entries))
	for _, e := range entries {
		resolved = append(resolved, *resolveEntry(e, profiles))
	}
	return resolved, nil
}

// resolveEntry fills party display records from the profile map, falling back
// to the Unknown placeholder for absent profiles.
func resolveEntry(entry domain.TransactionEntry, profiles map[uuid.UUID]domain.Profile) *domain.ResolvedEntry {
	resolved := &domain.ResolvedEntry{
		TransactionEntry: entry,
		Sender:           domain.UnknownParty(entry.SenderID),
		Recipient:        domain.UnknownParty(entry.RecipientID),
	}
	if p, ok := profiles[entry.SenderID]; ok {
		resolved.Sender = p.DisplayParty()
	}
	if p, ok := profiles[entry.RecipientID]; ok {
		resolved.Recipient = p.DisplayParty()
	}
	return resolved
}
