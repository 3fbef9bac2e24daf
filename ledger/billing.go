/*
billing.go - The match billing rule

PURPOSE:
  Turns a match's point format, payer option, and (optional) winner into the
  charge map billed to the players. This is the single place charges come
  from: AddMatch and UpdateMatch both derive charges and total value here,
  callers never supply them.

BILLING RULES:
  BOTH      half the match value to each player
  LOSER     full value to the non-winner; no charges until a winner exists
  PLAYER_A  full value to player A regardless of outcome
  PLAYER_B  full value to player B regardless of outcome

INVARIANT:
  The charge map sums to the match value whenever the rule is resolved. A
  LOSER match without a winner yields an empty map - billing deferred.
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// ChargesFor computes the charge map and total value for a match.
// Only nonzero charges appear as keys.
func ChargesFor(points MatchPoints, option PayerOption, a, b PlayerID, winner *PlayerID) (map[PlayerID]decimal.Decimal, decimal.Decimal) {
	total := points.Value()
	charges := make(map[PlayerID]decimal.Decimal)

	switch option {
	case PayerBoth:
		half := total.Div(two)
		charges[a] = half
		charges[b] = half
	case PayerLoser:
		if winner == nil {
			break // result pending, billing deferred
		}
		if *winner == a {
			charges[b] = total
		} else {
			charges[a] = total
		}
	case PayerPlayerA:
		charges[a] = total
	case PayerPlayerB:
		charges[b] = total
	}

	return charges, total
}
