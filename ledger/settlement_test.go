package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topspin/club-ledger/ledger"
)

// =============================================================================
// FIFO SETTLEMENT TESTS
// =============================================================================

func TestIsMatchSettled_FIFOMonotonicity(t *testing.T) {
	// GIVEN: M1 charges the player 20 (earliest), M2 charges 30 (later)
	// WHEN: resources are exactly 20
	// THEN: M1 is settled, M2 is not
	// WHEN: resources grow to 50
	// THEN: both are settled - settlement only ever moves forward

	s := newTestStore(t)
	p := addPlayer(t, s, "Parvez", 0)
	opp := addPlayer(t, s, "Opponent", 0)

	m1 := addMatch(t, s, ledger.NewMatch{
		Points: ledger.Points10, PlayerAID: p.ID, PlayerBID: opp.ID,
		PayerOption: ledger.PayerPlayerA, // charges P 20
	})
	m2 := addMatch(t, s, ledger.NewMatch{
		Points: ledger.Points20, PlayerAID: p.ID, PlayerBID: opp.ID,
		PayerOption: ledger.PayerPlayerA, // charges P 30
	})

	cash(t, s, p.ID, alloc(p.ID, 20, 0))

	settled, err := s.IsMatchSettled(m1.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, settled, "oldest charge is covered by the 20 paid")

	settled, err = s.IsMatchSettled(m2.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, settled, "later charge is not covered yet")

	cash(t, s, p.ID, alloc(p.ID, 30, 0))

	settled, err = s.IsMatchSettled(m1.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, settled)

	settled, err = s.IsMatchSettled(m2.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, settled)
}

func TestIsMatchSettled_OrderedByRecordingInstantNotDate(t *testing.T) {
	// GIVEN: a match recorded later but dated earlier than another
	// THEN: the resolver orders by recording instant - the earlier-recorded
	// match consumes resources first even though its calendar day is later

	s := newTestStore(t)
	p := addPlayer(t, s, "Parvez", 0)
	opp := addPlayer(t, s, "Opponent", 0)

	first := addMatch(t, s, ledger.NewMatch{
		Date:   "2026-08-20",
		Points: ledger.Points10, PlayerAID: p.ID, PlayerBID: opp.ID,
		PayerOption: ledger.PayerPlayerA, // charges 20, recorded first
	})
	backdated := addMatch(t, s, ledger.NewMatch{
		Date:   "2026-08-01",
		Points: ledger.Points20, PlayerAID: p.ID, PlayerBID: opp.ID,
		PayerOption: ledger.PayerPlayerA, // charges 30, recorded second
	})

	cash(t, s, p.ID, alloc(p.ID, 20, 0))

	settled, err := s.IsMatchSettled(first.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, settled, "first-recorded match is first in the charge timeline")

	settled, err = s.IsMatchSettled(backdated.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, settled, "backdated but later-recorded match waits its turn")
}

func TestIsMatchSettled_InitialCreditAndDiscountsCount(t *testing.T) {
	// GIVEN: a player whose only resources are starting credit and a waiver
	// THEN: those count exactly like cash toward settling charges

	s := newTestStore(t)
	p := addPlayer(t, s, "Parvez", 10)
	opp := addPlayer(t, s, "Opponent", 0)

	m := addMatch(t, s, ledger.NewMatch{
		Points: ledger.Points10, PlayerAID: p.ID, PlayerBID: opp.ID,
		PayerOption: ledger.PayerPlayerA, // charges 20
	})

	settled, err := s.IsMatchSettled(m.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, settled, "10 credit does not cover a 20 charge")

	cash(t, s, p.ID, alloc(p.ID, 0, 10))

	settled, err = s.IsMatchSettled(m.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, settled, "credit 10 + discount 10 covers the 20 charge")
}

func TestIsMatchSettled_UnchargedPlayerHasNothingToSettle(t *testing.T) {
	// GIVEN: a loser-pays match won by A
	// THEN: the match reports settled for A, who was never charged

	s := newTestStore(t)
	a := addPlayer(t, s, "Arman", 0)
	b := addPlayer(t, s, "Bilal", 0)

	m := addMatch(t, s, ledger.NewMatch{
		Points: ledger.Points20, PlayerAID: a.ID, PlayerBID: b.ID,
		PayerOption: ledger.PayerLoser, WinnerID: &a.ID,
	})

	settled, err := s.IsMatchSettled(m.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, settled)

	settled, err = s.IsMatchSettled(m.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, settled, "the loser owes 30 and has paid nothing")
}

func TestResultPending(t *testing.T) {
	// GIVEN: a loser-pays match with no winner
	// THEN: it is result-pending and carries no charges at all

	s := newTestStore(t)
	a := addPlayer(t, s, "Arman", 0)
	b := addPlayer(t, s, "Bilal", 0)

	m := addMatch(t, s, ledger.NewMatch{
		Points: ledger.Points20, PlayerAID: a.ID, PlayerBID: b.ID,
		PayerOption: ledger.PayerLoser,
	})

	assert.True(t, m.ResultPending())
	assert.Empty(t, m.Charges)

	// Recording the winner resolves billing and clears the pending flag.
	updated, err := s.UpdateMatch(m.ID, ledger.MatchPatch{WinnerID: &a.ID})
	require.NoError(t, err)
	assert.False(t, updated.ResultPending())
	assert.True(t, updated.Charges[b.ID].Equal(decimal.NewFromInt(30)))
}

func TestIsMatchSettled_OverpaymentSettlesOlderMatch(t *testing.T) {
	// The documented approximation: resources are matched by amount and
	// chronological order only. A payment intended for the newer match still
	// settles the older one first.

	s := newTestStore(t)
	p := addPlayer(t, s, "Parvez", 0)
	opp := addPlayer(t, s, "Opponent", 0)

	older := addMatch(t, s, ledger.NewMatch{
		Points: ledger.Points20, PlayerAID: p.ID, PlayerBID: opp.ID,
		PayerOption: ledger.PayerPlayerA, // 30
	})
	addMatch(t, s, ledger.NewMatch{
		Points: ledger.Points10, PlayerAID: p.ID, PlayerBID: opp.ID,
		PayerOption: ledger.PayerPlayerA, // 20
	})

	cash(t, s, p.ID, alloc(p.ID, 30, 0))

	settled, err := s.IsMatchSettled(older.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, settled, "oldest charge consumes the payment first")
}

func TestIsMatchSettled_UnknownMatch(t *testing.T) {
	s := newTestStore(t)
	p := addPlayer(t, s, "Parvez", 0)

	_, err := s.IsMatchSettled("nope", p.ID)
	assert.True(t, ledger.IsNotFound(err))
}
