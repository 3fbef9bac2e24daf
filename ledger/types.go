/*
Package ledger provides the core club-ledger engine.

PURPOSE:
  This package contains the record store and the pure calculations that turn a
  stream of match charges and payment allocations into a consistent per-player
  financial position. It owns players, matches, payments, expenses, the single
  ongoing-match slot, and the derived values built from them: per-player stats,
  FIFO match settlement, and period reports.

KEY CONCEPTS IN THIS FILE (types.go):
  - Typed identifiers: PlayerID, MatchID, PaymentID, ExpenseID
  - Enumerations: PayerOption, PaymentMode, ExpenseCategory, UserRole
  - MatchPoints: the two fixed game formats and their currency values
  - Date: a calendar day used for all period filtering

DESIGN PRINCIPLES:
  1. Derive-on-read: dues are never stored, always recomputed from raw records
  2. Precision: uses decimal.Decimal to avoid floating-point drift on money
  3. Type Safety: strong typing for ids prevents mixing player/match references

SEE ALSO:
  - store.go: record store and mutations
  - balance.go: per-player stats derivation
  - settlement.go: FIFO per-match settlement
  - report.go: date filtering and period rollups
*/
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PlayerID string
type MatchID string
type PaymentID string
type ExpenseID string

// =============================================================================
// ENUMERATIONS
// =============================================================================

// UserRole is a cosmetic label recorded on match entries. It carries no
// authorization semantics.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleStaff UserRole = "STAFF"
)

func (r UserRole) Valid() bool { return r == RoleAdmin || r == RoleStaff }

// PaymentMode distinguishes how money was received (or spent, for expenses).
type PaymentMode string

const (
	ModeCash   PaymentMode = "CASH"
	ModeOnline PaymentMode = "ONLINE"
)

func (m PaymentMode) Valid() bool { return m == ModeCash || m == ModeOnline }

// ExpenseCategory classifies club operating costs.
type ExpenseCategory string

const (
	CategoryRent        ExpenseCategory = "RENT"
	CategoryBalls       ExpenseCategory = "BALLS"
	CategoryMaintenance ExpenseCategory = "MAINTENANCE"
	CategoryLights      ExpenseCategory = "LIGHTS"
	CategoryOther       ExpenseCategory = "OTHER"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case CategoryRent, CategoryBalls, CategoryMaintenance, CategoryLights, CategoryOther:
		return true
	}
	return false
}

// PayerOption selects the billing rule for a match.
type PayerOption string

const (
	// PayerBoth splits the match value evenly between the two players.
	PayerBoth PayerOption = "BOTH"
	// PayerLoser bills the non-winner in full. Until a winner is recorded the
	// match carries no charges at all; billing is deferred, not zeroed.
	PayerLoser PayerOption = "LOSER"
	// PayerPlayerA bills player A in full regardless of outcome.
	PayerPlayerA PayerOption = "PLAYER_A"
	// PayerPlayerB bills player B in full regardless of outcome.
	PayerPlayerB PayerOption = "PLAYER_B"
)

func (p PayerOption) Valid() bool {
	switch p {
	case PayerBoth, PayerLoser, PayerPlayerA, PayerPlayerB:
		return true
	}
	return false
}

// =============================================================================
// MATCH POINTS - The two fixed game formats
// =============================================================================

// MatchPoints is the point format of a game. Each format implies a fixed
// total match value: 20 points bills 30, 10 points bills 20.
type MatchPoints int

const (
	Points10 MatchPoints = 10
	Points20 MatchPoints = 20
)

func (p MatchPoints) Valid() bool { return p == Points10 || p == Points20 }

// Value returns the fixed currency value implied by the point format.
func (p MatchPoints) Value() decimal.Decimal {
	if p == Points20 {
		return decimal.NewFromInt(30)
	}
	return decimal.NewFromInt(20)
}

// =============================================================================
// DATE - Calendar day, the unit of all period filtering
// =============================================================================

// Date is an ISO calendar day ("2006-01-02"). Lexical comparison of two Dates
// matches chronological comparison, which is what the range filters rely on.
// Settlement ordering does NOT use Date; it uses the record's creation
// instant, since a day is too coarse to order same-day matches.
type Date string

const dateLayout = "2006-01-02"

func NewDate(t time.Time) Date { return Date(t.Format(dateLayout)) }

func Today() Date { return NewDate(time.Now()) }

func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// Month returns the "2006-01" prefix of the date.
func (d Date) Month() string {
	if len(d) < 7 {
		return string(d)
	}
	return string(d[:7])
}

func (d Date) InMonth(month string) bool { return strings.HasPrefix(string(d), month) }

func (d Date) Between(from, to Date) bool { return d >= from && d <= to }
