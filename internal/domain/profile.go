package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the human-facing identity attached to an account. Profiles are
// owned by the profile collaborator; the ledger only reads them to resolve
// party display records.
type Profile struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Avatar    string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UnknownParty is the placeholder substituted when a counterparty's profile
// cannot be resolved. A missing profile never fails a history read.
func UnknownParty(id uuid.UUID) Party {
	return Party{ID: id, Name: "Unknown", Avatar: ""}
}

// DisplayParty projects a profile into its display record.
func (p Profile) DisplayParty() Party {
	return Party{ID: p.ID, Name: p.Name, Avatar: p.Avatar}
}
