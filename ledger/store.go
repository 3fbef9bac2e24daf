/*
store.go - The record store

PURPOSE:
  Holds the four entity collections (players, matches, payments, expenses),
  the single ongoing-match slot, and the current-user role label. All state
  changes go through the enumerated mutations below - there are no ad hoc
  field writes, which preserves single-writer semantics.

ORDERING:
  Adds prepend, so each collection lists most-recent-first for display. The
  settlement resolver re-sorts by creation instant itself and does not depend
  on collection order.

HARDENING (behavior change from the observed source):
  - Updates of a nonexistent id fail with NotFoundError instead of no-op.
  - Every player reference on a mutation must resolve.
  - Negative amounts are rejected before any state changes.

CONCURRENCY:
  Guarded by a sync.RWMutex so the single-writer semantics survive concurrent
  HTTP requests. The calculations themselves are synchronous derive-on-read.

SEE ALSO:
  - billing.go: where match charges come from
  - snapshot.go: serialize/restore of the whole state
*/
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store owns all ledger records. The zero value is not usable; call New.
type Store struct {
	mu sync.RWMutex

	players  []Player
	matches  []Match
	payments []Payment
	expenses []Expense

	ongoing     *OngoingMatch
	currentUser CurrentUser
}

// New creates an empty store with the default admin user label.
func New() *Store {
	return &Store{
		currentUser: CurrentUser{Role: RoleAdmin, Name: "Partner 1"},
	}
}

// =============================================================================
// PLAYERS
// =============================================================================

// NewPlayer is the input to AddPlayer.
type NewPlayer struct {
	Name           string
	Nickname       string
	Phone          string
	InitialBalance decimal.Decimal
}

// PlayerPatch is a partial update; nil fields are left untouched.
// ID and CreatedAt are immutable.
type PlayerPatch struct {
	Name           *string
	Nickname       *string
	Phone          *string
	InitialBalance *decimal.Decimal
}

// AddPlayer registers a player and returns the stored record.
func (s *Store) AddPlayer(p NewPlayer) (Player, error) {
	if p.Name == "" {
		return Player{}, &ValidationError{Field: "name", Message: "required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	player := Player{
		ID:             PlayerID(uuid.NewString()),
		Name:           p.Name,
		Nickname:       p.Nickname,
		Phone:          p.Phone,
		InitialBalance: p.InitialBalance,
		CreatedAt:      time.Now(),
	}
	s.players = append([]Player{player}, s.players...)
	return player, nil
}

// UpdatePlayer merges the patch into an existing player.
func (s *Store) UpdatePlayer(id PlayerID, patch PlayerPatch) (Player, error) {
	if patch.Name != nil && *patch.Name == "" {
		return Player{}, &ValidationError{Field: "name", Message: "required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.players {
		if s.players[i].ID != id {
			continue
		}
		p := &s.players[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Nickname != nil {
			p.Nickname = *patch.Nickname
		}
		if patch.Phone != nil {
			p.Phone = *patch.Phone
		}
		if patch.InitialBalance != nil {
			p.InitialBalance = *patch.InitialBalance
		}
		return *p, nil
	}
	return Player{}, playerNotFound(id)
}

// Players returns all players, most-recent-first.
func (s *Store) Players() []Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Player, len(s.players))
	copy(out, s.players)
	return out
}

// Player looks up a single player.
func (s *Store) Player(id PlayerID) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.playerLocked(id); ok {
		return p, nil
	}
	return Player{}, playerNotFound(id)
}

func (s *Store) playerLocked(id PlayerID) (Player, bool) {
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// =============================================================================
// MATCHES
// =============================================================================

// NewMatch is the input to AddMatch. Charges and total value are derived,
// never supplied.
type NewMatch struct {
	Date        Date
	Points      MatchPoints
	PlayerAID   PlayerID
	PlayerBID   PlayerID
	PayerOption PayerOption
	WinnerID    *PlayerID
	Table       string
}

// MatchPatch is a partial update. Charges are recomputed from the merged
// fields on every update. ClearWinner resets a recorded result back to
// pending; it wins over WinnerID when both are set.
type MatchPatch struct {
	Date        *Date
	Points      *MatchPoints
	PlayerAID   *PlayerID
	PlayerBID   *PlayerID
	PayerOption *PayerOption
	WinnerID    *PlayerID
	ClearWinner bool
	Table       *string
}

// AddMatch logs a match, deriving its charges from the billing rule. When the
// match finalizes the live game (same player pair as the ongoing slot), the
// ongoing match is cleared.
func (s *Store) AddMatch(m NewMatch) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateMatchLocked(m.Date, m.Points, m.PlayerAID, m.PlayerBID, m.PayerOption, m.WinnerID); err != nil {
		return Match{}, err
	}

	charges, total := ChargesFor(m.Points, m.PayerOption, m.PlayerAID, m.PlayerBID, m.WinnerID)
	match := Match{
		ID:          MatchID(uuid.NewString()),
		Date:        m.Date,
		RecordedAt:  time.Now(),
		RecordedBy:  RecordedBy{Role: s.currentUser.Role, Name: s.currentUser.Name},
		Table:       m.Table,
		Points:      m.Points,
		PlayerAID:   m.PlayerAID,
		PlayerBID:   m.PlayerBID,
		WinnerID:    m.WinnerID,
		PayerOption: m.PayerOption,
		TotalValue:  total,
		Charges:     charges,
	}
	s.matches = append([]Match{match}, s.matches...)

	if s.ongoing != nil && s.ongoing.PlayerAID == m.PlayerAID && s.ongoing.PlayerBID == m.PlayerBID {
		s.ongoing = nil
	}
	return match, nil
}

// UpdateMatch merges the patch and recomputes charges under the billing rule.
func (s *Store) UpdateMatch(id MatchID, patch MatchPatch) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.matches {
		if s.matches[i].ID != id {
			continue
		}
		m := s.matches[i]
		if patch.Date != nil {
			m.Date = *patch.Date
		}
		if patch.Points != nil {
			m.Points = *patch.Points
		}
		if patch.PlayerAID != nil {
			m.PlayerAID = *patch.PlayerAID
		}
		if patch.PlayerBID != nil {
			m.PlayerBID = *patch.PlayerBID
		}
		if patch.PayerOption != nil {
			m.PayerOption = *patch.PayerOption
		}
		if patch.ClearWinner {
			m.WinnerID = nil
		} else if patch.WinnerID != nil {
			m.WinnerID = patch.WinnerID
		}
		if patch.Table != nil {
			m.Table = *patch.Table
		}

		if err := s.validateMatchLocked(m.Date, m.Points, m.PlayerAID, m.PlayerBID, m.PayerOption, m.WinnerID); err != nil {
			return Match{}, err
		}

		m.Charges, m.TotalValue = ChargesFor(m.Points, m.PayerOption, m.PlayerAID, m.PlayerBID, m.WinnerID)
		s.matches[i] = m
		return m, nil
	}
	return Match{}, &NotFoundError{Kind: "match", ID: string(id)}
}

// Matches returns all matches, most-recent-first.
func (s *Store) Matches() []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// Match looks up a single match.
func (s *Store) Match(id MatchID) (Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return Match{}, &NotFoundError{Kind: "match", ID: string(id)}
}

func (s *Store) validateMatchLocked(date Date, points MatchPoints, a, b PlayerID, option PayerOption, winner *PlayerID) error {
	if !date.Valid() {
		return &ValidationError{Field: "date", Message: "want YYYY-MM-DD"}
	}
	if !points.Valid() {
		return &ValidationError{Field: "points", Message: "must be 10 or 20"}
	}
	if !option.Valid() {
		return &ValidationError{Field: "payerOption", Message: "unknown option"}
	}
	if a == b {
		return &ValidationError{Field: "playerBId", Message: "players must be distinct"}
	}
	if _, ok := s.playerLocked(a); !ok {
		return playerNotFound(a)
	}
	if _, ok := s.playerLocked(b); !ok {
		return playerNotFound(b)
	}
	if winner != nil && *winner != a && *winner != b {
		return &ValidationError{Field: "winnerId", Message: "winner must be one of the two players"}
	}
	return nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

// NewPayment is the input to AddPayment. TotalAmount is derived from the
// allocations, never accepted as input.
type NewPayment struct {
	PrimaryPayerID PlayerID
	Allocations    []PaymentAllocation
	Mode           PaymentMode
	Date           Date
	Notes          string
}

// PaymentPatch is a partial update; nil fields are left untouched. A non-nil
// Allocations replaces the whole list and re-derives TotalAmount.
type PaymentPatch struct {
	PrimaryPayerID *PlayerID
	Allocations    []PaymentAllocation
	Mode           *PaymentMode
	Date           *Date
	Notes          *string
}

// AddPayment records a payment covering one or more players.
func (s *Store) AddPayment(p NewPayment) (Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validatePaymentLocked(p.PrimaryPayerID, p.Allocations, p.Mode, p.Date); err != nil {
		return Payment{}, err
	}

	payment := Payment{
		ID:             PaymentID(uuid.NewString()),
		PrimaryPayerID: p.PrimaryPayerID,
		TotalAmount:    sumAllocations(p.Allocations),
		Allocations:    append([]PaymentAllocation(nil), p.Allocations...),
		Mode:           p.Mode,
		Date:           p.Date,
		Notes:          p.Notes,
	}
	s.payments = append([]Payment{payment}, s.payments...)
	return payment, nil
}

// UpdatePayment merges the patch and re-derives TotalAmount.
func (s *Store) UpdatePayment(id PaymentID, patch PaymentPatch) (Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.payments {
		if s.payments[i].ID != id {
			continue
		}
		p := s.payments[i]
		if patch.PrimaryPayerID != nil {
			p.PrimaryPayerID = *patch.PrimaryPayerID
		}
		if patch.Allocations != nil {
			p.Allocations = append([]PaymentAllocation(nil), patch.Allocations...)
		}
		if patch.Mode != nil {
			p.Mode = *patch.Mode
		}
		if patch.Date != nil {
			p.Date = *patch.Date
		}
		if patch.Notes != nil {
			p.Notes = *patch.Notes
		}

		if err := s.validatePaymentLocked(p.PrimaryPayerID, p.Allocations, p.Mode, p.Date); err != nil {
			return Payment{}, err
		}
		p.TotalAmount = sumAllocations(p.Allocations)
		s.payments[i] = p
		return p, nil
	}
	return Payment{}, &NotFoundError{Kind: "payment", ID: string(id)}
}

// Payments returns all payments, most-recent-first.
func (s *Store) Payments() []Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

func (s *Store) validatePaymentLocked(payer PlayerID, allocations []PaymentAllocation, mode PaymentMode, date Date) error {
	if !date.Valid() {
		return &ValidationError{Field: "date", Message: "want YYYY-MM-DD"}
	}
	if !mode.Valid() {
		return &ValidationError{Field: "mode", Message: "unknown mode"}
	}
	if _, ok := s.playerLocked(payer); !ok {
		return playerNotFound(payer)
	}
	if len(allocations) == 0 {
		return &ValidationError{Field: "allocations", Message: "at least one allocation required"}
	}
	seen := make(map[PlayerID]bool, len(allocations))
	for _, a := range allocations {
		if _, ok := s.playerLocked(a.PlayerID); !ok {
			return playerNotFound(a.PlayerID)
		}
		if seen[a.PlayerID] {
			return &ValidationError{Field: "allocations", Message: "player " + string(a.PlayerID) + " allocated twice"}
		}
		seen[a.PlayerID] = true
		if a.Amount.IsNegative() || a.Discount.IsNegative() {
			return &ValidationError{Field: "allocations", Message: "amounts must not be negative"}
		}
		if a.Amount.IsZero() && a.Discount.IsZero() {
			return &ValidationError{Field: "allocations", Message: "amount or discount must be positive"}
		}
	}
	return nil
}

func sumAllocations(allocations []PaymentAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// =============================================================================
// EXPENSES
// =============================================================================

// NewExpense is the input to AddExpense. Expenses are create-only.
type NewExpense struct {
	Date     Date
	Category ExpenseCategory
	Amount   decimal.Decimal
	Mode     PaymentMode
	Notes    string
}

// AddExpense records a club operating cost.
func (s *Store) AddExpense(e NewExpense) (Expense, error) {
	if !e.Date.Valid() {
		return Expense{}, &ValidationError{Field: "date", Message: "want YYYY-MM-DD"}
	}
	if !e.Category.Valid() {
		return Expense{}, &ValidationError{Field: "category", Message: "unknown category"}
	}
	if !e.Mode.Valid() {
		return Expense{}, &ValidationError{Field: "mode", Message: "unknown mode"}
	}
	if !e.Amount.IsPositive() {
		return Expense{}, &ValidationError{Field: "amount", Message: "must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expense := Expense{
		ID:       ExpenseID(uuid.NewString()),
		Date:     e.Date,
		Category: e.Category,
		Amount:   e.Amount,
		Mode:     e.Mode,
		Notes:    e.Notes,
	}
	s.expenses = append([]Expense{expense}, s.expenses...)
	return expense, nil
}

// Expenses returns all expenses, most-recent-first.
func (s *Store) Expenses() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// =============================================================================
// ONGOING MATCH
// =============================================================================

// StartOngoingMatch begins timing a live game. A second start while one is
// active overwrites the first without warning; there is no merge step.
func (s *Store) StartOngoingMatch(a, b PlayerID, points MatchPoints, table string) (OngoingMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !points.Valid() {
		return OngoingMatch{}, &ValidationError{Field: "points", Message: "must be 10 or 20"}
	}
	if a == b {
		return OngoingMatch{}, &ValidationError{Field: "playerBId", Message: "players must be distinct"}
	}
	if _, ok := s.playerLocked(a); !ok {
		return OngoingMatch{}, playerNotFound(a)
	}
	if _, ok := s.playerLocked(b); !ok {
		return OngoingMatch{}, playerNotFound(b)
	}

	ongoing := OngoingMatch{
		ID:        MatchID(uuid.NewString()),
		PlayerAID: a,
		PlayerBID: b,
		Points:    points,
		Table:     table,
		StartTime: time.Now(),
	}
	s.ongoing = &ongoing
	return ongoing, nil
}

// OngoingMatch returns the live game, or nil when none is active.
func (s *Store) OngoingMatch() *OngoingMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ongoing == nil {
		return nil
	}
	ongoing := *s.ongoing
	return &ongoing
}

// ClearOngoingMatch discards the live game without billing it.
func (s *Store) ClearOngoingMatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ongoing = nil
}

// =============================================================================
// CURRENT USER
// =============================================================================

// SwitchRole changes the cosmetic role label stamped on new match records.
func (s *Store) SwitchRole(role UserRole) error {
	if !role.Valid() {
		return &ValidationError{Field: "role", Message: "unknown role"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser.Role = role
	return nil
}

// CurrentUser returns the active role label.
func (s *Store) CurrentUser() CurrentUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}
