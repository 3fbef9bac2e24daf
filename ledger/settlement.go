/*
settlement.go - FIFO per-match settlement

PURPOSE:
  Answers "is this specific match paid off yet for this player?". Payments
  are not tagged to matches, so the resolver models "payments clear the
  oldest debts first": a match is settled once the player's lifetime
  resources cover their cumulative charges through that match's position in
  their personal charge timeline.

ALGORITHM:
  1. Collect every match that charges the player, sorted ascending by
     creation instant (not calendar date - a day is too coarse to order
     same-day games).
  2. Accumulate charges up to and including the target match.
  3. resources = totalPaid + initialBalance + totalDiscounted (lifetime,
     not time-bounded).
  4. Settled iff resources >= cumulative charge.

ACCEPTED APPROXIMATION:
  Resources are matched to charges by amount and chronological order only,
  never by explicit payment-to-match linkage. A later, larger payment can
  retroactively settle an older match it was never intended for, and a
  partial payment's leftover rolls forward to the next-oldest charge. For a
  casual club ledger this is the intended reconciliation policy, not a bug.
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// IsMatchSettled reports whether the match's charge to the player has been
// cleared under FIFO consumption of the player's lifetime resources.
// A match that never charged the player has nothing to settle and reports
// true. Result-pending matches (LOSER billing, no winner) carry no charges;
// callers surface those via Match.ResultPending, independent of settlement.
func (s *Store) IsMatchSettled(matchID MatchID, playerID PlayerID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var target *Match
	for i := range s.matches {
		if s.matches[i].ID == matchID {
			target = &s.matches[i]
			break
		}
	}
	if target == nil {
		return false, &NotFoundError{Kind: "match", ID: string(matchID)}
	}

	stats, err := s.playerStatsLocked(playerID)
	if err != nil {
		return false, err
	}

	if _, charged := target.Charges[playerID]; !charged {
		return true, nil
	}

	// The player's personal charge timeline, oldest first.
	var history []Match
	for _, m := range s.matches {
		if _, ok := m.Charges[playerID]; ok {
			history = append(history, m)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].RecordedAt.Before(history[j].RecordedAt)
	})

	cumulative := decimal.Zero
	for _, m := range history {
		cumulative = cumulative.Add(m.ChargeFor(playerID))
		if m.ID == matchID {
			break
		}
	}

	resources := stats.TotalPaid.Add(stats.InitialBalance).Add(stats.TotalDiscounted)
	return resources.GreaterThanOrEqual(cumulative), nil
}
