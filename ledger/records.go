package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// The record structs carry camelCase json tags so that Snapshot/Restore produce
// a stable blob schema; the api package has its own DTO types.

// =============================================================================
// PLAYER
// =============================================================================

// Player is an identity plus its billing configuration.
type Player struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname,omitempty"`
	Phone    string   `json:"phone,omitempty"`

	// InitialBalance is the player's starting position: positive means credit
	// the player already holds, negative means debt carried over from before
	// the ledger existed.
	InitialBalance decimal.Decimal `json:"initialBalance"`

	CreatedAt time.Time `json:"createdAt"`
}

// =============================================================================
// MATCH
// =============================================================================

// RecordedBy is an audit snapshot of who logged a match.
type RecordedBy struct {
	Role UserRole `json:"role"`
	Name string   `json:"name"`
}

// Match is a single game's billing record.
type Match struct {
	ID MatchID `json:"id"`

	// Date is the calendar day used for period filtering. RecordedAt is the
	// creation instant and defines chronological order for settlement; the two
	// are deliberately separate fields.
	Date       Date       `json:"date"`
	RecordedAt time.Time  `json:"recordedAt"`
	RecordedBy RecordedBy `json:"recordedBy"`

	Table     string      `json:"table,omitempty"`
	Points    MatchPoints `json:"points"`
	PlayerAID PlayerID    `json:"playerAId"`
	PlayerBID PlayerID    `json:"playerBId"`

	// WinnerID is nil while the result is not yet recorded.
	WinnerID *PlayerID `json:"winnerId,omitempty"`

	PayerOption PayerOption     `json:"payerOption"`
	TotalValue  decimal.Decimal `json:"totalValue"`

	// Charges maps player id to the amount billed for this match. Only players
	// with a nonzero charge appear as keys; a LOSER-billed match with no winner
	// has an empty map.
	Charges map[PlayerID]decimal.Decimal `json:"charges"`
}

// ResultPending reports whether billing is deferred on a missing winner.
// Such matches are always surfaced as unresolved, independent of settlement.
func (m Match) ResultPending() bool {
	return m.PayerOption == PayerLoser && m.WinnerID == nil
}

// ChargeFor returns the amount billed to the player for this match (zero when
// the player is not charged).
func (m Match) ChargeFor(id PlayerID) decimal.Decimal {
	return m.Charges[id]
}

// =============================================================================
// ONGOING MATCH - At most one live game being timed
// =============================================================================

// OngoingMatch is the process-wide singleton for a live, in-progress game.
// It is not billed; it is promoted into a Match record on finalization.
type OngoingMatch struct {
	ID        MatchID     `json:"id"`
	PlayerAID PlayerID    `json:"playerAId"`
	PlayerBID PlayerID    `json:"playerBId"`
	Points    MatchPoints `json:"points"`
	Table     string      `json:"table"`
	StartTime time.Time   `json:"startTime"`
}

// =============================================================================
// PAYMENT
// =============================================================================

// PaymentAllocation is one player's share of a single payment event.
type PaymentAllocation struct {
	PlayerID PlayerID        `json:"playerId"`
	Amount   decimal.Decimal `json:"amount"`
	// Discount is a waiver credited toward dues without cash received. Zero
	// means no discount; allocations where both amount and discount are zero
	// are never persisted.
	Discount decimal.Decimal `json:"discount"`
}

// Payment is a single transaction, possibly covering multiple players.
type Payment struct {
	ID PaymentID `json:"id"`

	// PrimaryPayerID is the player who physically handed over the money.
	// Informational only; it need not match the allocation recipients.
	PrimaryPayerID PlayerID `json:"primaryPayerId"`

	// TotalAmount is always derived as the sum of allocation amounts,
	// excluding discounts. Never accepted as independent input.
	TotalAmount decimal.Decimal `json:"totalAmount"`

	Allocations []PaymentAllocation `json:"allocations"`
	Mode        PaymentMode         `json:"mode"`
	Date        Date                `json:"date"`
	Notes       string              `json:"notes,omitempty"`
}

// =============================================================================
// EXPENSE
// =============================================================================

// Expense is a club operating cost, financially independent of player dues.
type Expense struct {
	ID       ExpenseID       `json:"id"`
	Date     Date            `json:"date"`
	Category ExpenseCategory `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Mode     PaymentMode     `json:"mode"`
	Notes    string          `json:"notes,omitempty"`
}

// =============================================================================
// CURRENT USER
// =============================================================================

// CurrentUser is the cosmetic role label stamped onto match records.
type CurrentUser struct {
	Role UserRole `json:"role"`
	Name string   `json:"name"`
}
