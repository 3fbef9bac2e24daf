package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/topspin/club-ledger/ledger"
)

const (
	playerA = ledger.PlayerID("player-a")
	playerB = ledger.PlayerID("player-b")
)

func winner(id ledger.PlayerID) *ledger.PlayerID { return &id }

// =============================================================================
// BILLING RULE TESTS
// =============================================================================

func TestChargesFor_BothSplit_20Points(t *testing.T) {
	// GIVEN: a 20-point match (value 30) billed to both players
	// THEN: each player is charged half

	charges, total := ledger.ChargesFor(ledger.Points20, ledger.PayerBoth, playerA, playerB, nil)

	assert.True(t, total.Equal(decimal.NewFromInt(30)))
	assert.Len(t, charges, 2)
	assert.True(t, charges[playerA].Equal(decimal.NewFromInt(15)))
	assert.True(t, charges[playerB].Equal(decimal.NewFromInt(15)))
}

func TestChargesFor_BothSplit_10Points(t *testing.T) {
	// GIVEN: a 10-point match (value 20) billed to both players
	// THEN: each player is charged 10

	charges, total := ledger.ChargesFor(ledger.Points10, ledger.PayerBoth, playerA, playerB, nil)

	assert.True(t, total.Equal(decimal.NewFromInt(20)))
	assert.True(t, charges[playerA].Equal(decimal.NewFromInt(10)))
	assert.True(t, charges[playerB].Equal(decimal.NewFromInt(10)))
}

func TestChargesFor_LoserPays_WinnerRecorded(t *testing.T) {
	// GIVEN: loser-pays with A as the winner
	// THEN: B is charged in full and A does not appear at all

	charges, total := ledger.ChargesFor(ledger.Points20, ledger.PayerLoser, playerA, playerB, winner(playerA))

	assert.True(t, total.Equal(decimal.NewFromInt(30)))
	assert.Len(t, charges, 1)
	assert.True(t, charges[playerB].Equal(decimal.NewFromInt(30)))
	_, ok := charges[playerA]
	assert.False(t, ok, "winner must not be a key in the charge map")
}

func TestChargesFor_LoserPays_NoWinner_BillingDeferred(t *testing.T) {
	// GIVEN: loser-pays with no winner recorded yet
	// THEN: nobody is charged - billing is deferred, not split

	charges, total := ledger.ChargesFor(ledger.Points20, ledger.PayerLoser, playerA, playerB, nil)

	assert.True(t, total.Equal(decimal.NewFromInt(30)))
	assert.Empty(t, charges)
}

func TestChargesFor_NamedPayer(t *testing.T) {
	// GIVEN: PLAYER_A / PLAYER_B billing
	// THEN: the named side pays in full regardless of outcome

	charges, _ := ledger.ChargesFor(ledger.Points10, ledger.PayerPlayerA, playerA, playerB, winner(playerB))
	assert.Len(t, charges, 1)
	assert.True(t, charges[playerA].Equal(decimal.NewFromInt(20)))

	charges, _ = ledger.ChargesFor(ledger.Points10, ledger.PayerPlayerB, playerA, playerB, nil)
	assert.Len(t, charges, 1)
	assert.True(t, charges[playerB].Equal(decimal.NewFromInt(20)))
}

func TestChargesFor_ChargesSumToTotalWhenResolved(t *testing.T) {
	cases := []struct {
		name   string
		option ledger.PayerOption
		winner *ledger.PlayerID
	}{
		{"both", ledger.PayerBoth, nil},
		{"loser resolved", ledger.PayerLoser, winner(playerB)},
		{"player a", ledger.PayerPlayerA, nil},
		{"player b", ledger.PayerPlayerB, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			charges, total := ledger.ChargesFor(ledger.Points20, tc.option, playerA, playerB, tc.winner)
			sum := decimal.Zero
			for _, c := range charges {
				sum = sum.Add(c)
			}
			assert.True(t, sum.Equal(total), "charges must sum to the match value")
		})
	}
}
