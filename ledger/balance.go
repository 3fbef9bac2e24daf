/*
balance.go - Per-player balance derivation

PURPOSE:
  Computes a player's aggregate financial position from the raw record set.
  This is the central calculation that answers "how much does this player
  owe?".

KEY INSIGHT:
  Pending dues are never stored; they are recomputed from scratch on every
  query. Deriving from raw events instead of maintaining a running balance
  means the displayed balance can never drift from the underlying ledger, at
  the cost of O(matches + payments) per query - trivial for a single club's
  history.

THE FORMULA:
  pending = totalSpent - totalPaid - totalDiscounted - initialBalance

  Positive pending means the player owes the club. Negative or zero means
  paid up or in credit. Discounts count exactly like cash toward dues; they
  just aren't money received.
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// PlayerStats is a player's aggregate financial position, derived fresh from
// the full record set on every call.
type PlayerStats struct {
	// Games counts matches the player appeared in, charged or not.
	Games int

	// TotalSpent sums the player's charges across all matches.
	TotalSpent decimal.Decimal

	// TotalPaid sums the payment allocation amounts credited to the player.
	TotalPaid decimal.Decimal

	// TotalDiscounted sums the allocation discounts credited to the player.
	TotalDiscounted decimal.Decimal

	// InitialBalance is the player's starting position (credit positive).
	InitialBalance decimal.Decimal

	// Pending is the player's current net dues.
	Pending decimal.Decimal
}

// PlayerStats computes the aggregate stats for one player.
func (s *Store) PlayerStats(id PlayerID) (PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerStatsLocked(id)
}

// PlayerDues returns just the pending amount; a convenience alias.
func (s *Store) PlayerDues(id PlayerID) (decimal.Decimal, error) {
	stats, err := s.PlayerStats(id)
	if err != nil {
		return decimal.Zero, err
	}
	return stats.Pending, nil
}

func (s *Store) playerStatsLocked(id PlayerID) (PlayerStats, error) {
	player, ok := s.playerLocked(id)
	if !ok {
		return PlayerStats{}, playerNotFound(id)
	}

	stats := PlayerStats{
		TotalSpent:      decimal.Zero,
		TotalPaid:       decimal.Zero,
		TotalDiscounted: decimal.Zero,
		InitialBalance:  player.InitialBalance,
	}

	for _, m := range s.matches {
		if m.PlayerAID == id || m.PlayerBID == id {
			stats.Games++
		}
		stats.TotalSpent = stats.TotalSpent.Add(m.ChargeFor(id))
	}

	for _, p := range s.payments {
		for _, a := range p.Allocations {
			if a.PlayerID != id {
				continue
			}
			stats.TotalPaid = stats.TotalPaid.Add(a.Amount)
			stats.TotalDiscounted = stats.TotalDiscounted.Add(a.Discount)
		}
	}

	stats.Pending = stats.TotalSpent.
		Sub(stats.TotalPaid).
		Sub(stats.TotalDiscounted).
		Sub(stats.InitialBalance)
	return stats, nil
}
