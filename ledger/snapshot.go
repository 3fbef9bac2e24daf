/*
snapshot.go - Serialize/restore of the whole ledger state

PURPOSE:
  The persistence boundary. The entire state serializes to a single opaque
  JSON blob; the surrounding application saves it after each mutation and
  restores it at startup. The store itself never touches durable media.

FORWARD COMPATIBILITY:
  Restore applies defaults for fields older blobs may lack:
  - a player without initialBalance gets 0
  - a blob without ongoingMatch gets none
  - nil collections and charge maps are normalized to empty
*/
package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// snapshotState is the wire schema of the blob. Field names are part of the
// stored format; do not rename them.
type snapshotState struct {
	Players      []Player      `json:"players"`
	Matches      []Match       `json:"matches"`
	Payments     []Payment     `json:"payments"`
	Expenses     []Expense     `json:"expenses"`
	OngoingMatch *OngoingMatch `json:"ongoingMatch"`
	CurrentUser  CurrentUser   `json:"currentUser"`
}

// Snapshot serializes the full state to an opaque blob.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := snapshotState{
		Players:      s.players,
		Matches:      s.matches,
		Payments:     s.payments,
		Expenses:     s.expenses,
		OngoingMatch: s.ongoing,
		CurrentUser:  s.currentUser,
	}
	blob, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return blob, nil
}

// Restore replaces the store's state with the decoded blob, applying the
// forward-compatibility defaults. On decode failure the existing state is
// left untouched.
func (s *Store) Restore(blob []byte) error {
	var state snapshotState
	if err := json.Unmarshal(blob, &state); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	// Normalize older blobs. decimal's zero value already reads as 0, so a
	// missing initialBalance needs no special casing beyond that; charge maps
	// and collections must not be nil.
	for i := range state.Matches {
		if state.Matches[i].Charges == nil {
			state.Matches[i].Charges = make(map[PlayerID]decimal.Decimal)
		}
	}
	if state.CurrentUser.Role == "" {
		state.CurrentUser = CurrentUser{Role: RoleAdmin, Name: "Partner 1"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = state.Players
	s.matches = state.Matches
	s.payments = state.Payments
	s.expenses = state.Expenses
	s.ongoing = state.OngoingMatch
	s.currentUser = state.CurrentUser
	return nil
}
