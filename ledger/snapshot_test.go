package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topspin/club-ledger/ledger"
)

// =============================================================================
// SNAPSHOT / RESTORE TESTS
// =============================================================================

func TestSnapshot_RoundTrip(t *testing.T) {
	// GIVEN: a store with every record kind populated
	// WHEN: snapshotting and restoring into a fresh store
	// THEN: records, derived stats, and the live game all survive

	src := newTestStore(t)
	a := addPlayer(t, src, "Arman", 10)
	b := addPlayer(t, src, "Bilal", 0)

	addMatch(t, src, ledger.NewMatch{
		Points: ledger.Points20, PlayerAID: a.ID, PlayerBID: b.ID,
		PayerOption: ledger.PayerBoth,
	})
	cash(t, src, a.ID, alloc(a.ID, 15, 5))
	_, err := src.AddExpense(ledger.NewExpense{
		Date: ledger.Today(), Category: ledger.CategoryBalls,
		Amount: decimal.NewFromInt(12), Mode: ledger.ModeCash,
	})
	require.NoError(t, err)
	_, err = src.StartOngoingMatch(a.ID, b.ID, ledger.Points10, "Table 2")
	require.NoError(t, err)
	require.NoError(t, src.SwitchRole(ledger.RoleStaff))

	blob, err := src.Snapshot()
	require.NoError(t, err)

	dst := ledger.New()
	require.NoError(t, dst.Restore(blob))

	assert.Len(t, dst.Players(), 2)
	assert.Len(t, dst.Matches(), 1)
	assert.Len(t, dst.Payments(), 1)
	assert.Len(t, dst.Expenses(), 1)
	require.NotNil(t, dst.OngoingMatch())
	assert.Equal(t, ledger.RoleStaff, dst.CurrentUser().Role)

	srcStats, err := src.PlayerStats(a.ID)
	require.NoError(t, err)
	dstStats, err := dst.PlayerStats(a.ID)
	require.NoError(t, err)
	assert.True(t, srcStats.Pending.Equal(dstStats.Pending))
}

func TestRestore_LegacyBlobDefaults(t *testing.T) {
	// Older saved states predate initialBalance, the live-game slot, and the
	// charge maps. Restore must default all of them instead of failing.

	blob := []byte(`{
		"players": [{"id": "p1", "name": "Old Timer", "createdAt": "2024-01-01T00:00:00Z"}],
		"matches": [{
			"id": "m1", "date": "2024-01-02",
			"recordedAt": "2024-01-02T10:00:00Z",
			"recordedBy": {"role": "ADMIN", "name": "Partner 1"},
			"points": 20, "playerAId": "p1", "playerBId": "p2",
			"payerOption": "LOSER", "totalValue": "30"
		}],
		"payments": [],
		"expenses": []
	}`)

	s := ledger.New()
	require.NoError(t, s.Restore(blob))

	players := s.Players()
	require.Len(t, players, 1)
	assert.True(t, players[0].InitialBalance.IsZero(), "missing initialBalance reads as 0")

	matches := s.Matches()
	require.Len(t, matches, 1)
	assert.NotNil(t, matches[0].Charges, "missing charge map is normalized to empty")
	assert.Empty(t, matches[0].Charges)

	assert.Nil(t, s.OngoingMatch())
	assert.Equal(t, ledger.RoleAdmin, s.CurrentUser().Role, "missing currentUser falls back to the admin partner")
}

func TestRestore_RejectsGarbageAndKeepsState(t *testing.T) {
	s := newTestStore(t)
	addPlayer(t, s, "Keeper", 0)

	err := s.Restore([]byte("not json"))
	require.Error(t, err)

	assert.Len(t, s.Players(), 1, "a failed restore must not clobber live state")
}

func TestSnapshot_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	blob, err := s.Snapshot()
	require.NoError(t, err)

	dst := ledger.New()
	require.NoError(t, dst.Restore(blob))
	assert.Empty(t, dst.Players())
	assert.Equal(t, ledger.RoleAdmin, dst.CurrentUser().Role)
}
