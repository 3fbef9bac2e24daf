/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the ledger's domain model
  from the external contract. Amounts travel as decimal strings; dates as
  "YYYY-MM-DD".

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

VALIDATION:
  Input validation lives in the ledger core, not here. DTOs are pure data
  carriers; handlers only translate.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/topspin/club-ledger/ledger"
)

// =============================================================================
// PLAYERS
// =============================================================================

type PlayerDTO struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Nickname       string          `json:"nickname,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CreatedAt      string          `json:"created_at"`
}

type CreatePlayerRequest struct {
	Name           string          `json:"name"`
	Nickname       string          `json:"nickname"`
	Phone          string          `json:"phone"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type UpdatePlayerRequest struct {
	Name           *string          `json:"name"`
	Nickname       *string          `json:"nickname"`
	Phone          *string          `json:"phone"`
	InitialBalance *decimal.Decimal `json:"initial_balance"`
}

type StatsDTO struct {
	Games           int             `json:"games"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	TotalDiscounted decimal.Decimal `json:"total_discounted"`
	InitialBalance  decimal.Decimal `json:"initial_balance"`
	Pending         decimal.Decimal `json:"pending"`
}

type DuesDTO struct {
	PlayerID string          `json:"player_id"`
	Pending  decimal.Decimal `json:"pending"`
}

func toPlayerDTO(p ledger.Player) PlayerDTO {
	return PlayerDTO{
		ID:             string(p.ID),
		Name:           p.Name,
		Nickname:       p.Nickname,
		Phone:          p.Phone,
		InitialBalance: p.InitialBalance,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

func toStatsDTO(s ledger.PlayerStats) StatsDTO {
	return StatsDTO{
		Games:           s.Games,
		TotalSpent:      s.TotalSpent,
		TotalPaid:       s.TotalPaid,
		TotalDiscounted: s.TotalDiscounted,
		InitialBalance:  s.InitialBalance,
		Pending:         s.Pending,
	}
}

// =============================================================================
// MATCHES
// =============================================================================

type MatchDTO struct {
	ID          string                     `json:"id"`
	Date        string                     `json:"date"`
	RecordedAt  string                     `json:"recorded_at"`
	RecordedBy  RecordedByDTO              `json:"recorded_by"`
	Table       string                     `json:"table,omitempty"`
	Points      int                        `json:"points"`
	PlayerAID   string                     `json:"player_a_id"`
	PlayerBID   string                     `json:"player_b_id"`
	WinnerID    *string                    `json:"winner_id,omitempty"`
	PayerOption string                     `json:"payer_option"`
	TotalValue  decimal.Decimal            `json:"total_value"`
	Charges     map[string]decimal.Decimal `json:"charges"`

	// ResultPending: LOSER billing with no winner recorded; billing deferred.
	ResultPending bool `json:"result_pending"`
	// UnsettledPlayers lists charged players whose FIFO position this match
	// has not yet been covered for.
	UnsettledPlayers []string `json:"unsettled_players"`
}

type RecordedByDTO struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

type CreateMatchRequest struct {
	Date        string  `json:"date"`
	Points      int     `json:"points"`
	PlayerAID   string  `json:"player_a_id"`
	PlayerBID   string  `json:"player_b_id"`
	PayerOption string  `json:"payer_option"`
	WinnerID    *string `json:"winner_id"`
	Table       string  `json:"table"`
}

type UpdateMatchRequest struct {
	Date        *string `json:"date"`
	Points      *int    `json:"points"`
	PlayerAID   *string `json:"player_a_id"`
	PlayerBID   *string `json:"player_b_id"`
	PayerOption *string `json:"payer_option"`
	WinnerID    *string `json:"winner_id"`
	ClearWinner bool    `json:"clear_winner"`
	Table       *string `json:"table"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

type AllocationDTO struct {
	PlayerID string          `json:"player_id"`
	Amount   decimal.Decimal `json:"amount"`
	Discount decimal.Decimal `json:"discount"`
}

type PaymentDTO struct {
	ID             string          `json:"id"`
	PrimaryPayerID string          `json:"primary_payer_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Allocations    []AllocationDTO `json:"allocations"`
	Mode           string          `json:"mode"`
	Date           string          `json:"date"`
	Notes          string          `json:"notes,omitempty"`
}

type CreatePaymentRequest struct {
	PrimaryPayerID string          `json:"primary_payer_id"`
	Allocations    []AllocationDTO `json:"allocations"`
	Mode           string          `json:"mode"`
	Date           string          `json:"date"`
	Notes          string          `json:"notes"`
}

type UpdatePaymentRequest struct {
	PrimaryPayerID *string         `json:"primary_payer_id"`
	Allocations    []AllocationDTO `json:"allocations"`
	Mode           *string         `json:"mode"`
	Date           *string         `json:"date"`
	Notes          *string         `json:"notes"`
}

func toPaymentDTO(p ledger.Payment) PaymentDTO {
	allocations := make([]AllocationDTO, len(p.Allocations))
	for i, a := range p.Allocations {
		allocations[i] = AllocationDTO{
			PlayerID: string(a.PlayerID),
			Amount:   a.Amount,
			Discount: a.Discount,
		}
	}
	return PaymentDTO{
		ID:             string(p.ID),
		PrimaryPayerID: string(p.PrimaryPayerID),
		TotalAmount:    p.TotalAmount,
		Allocations:    allocations,
		Mode:           string(p.Mode),
		Date:           string(p.Date),
		Notes:          p.Notes,
	}
}

func fromAllocationDTOs(in []AllocationDTO) []ledger.PaymentAllocation {
	if in == nil {
		return nil
	}
	out := make([]ledger.PaymentAllocation, len(in))
	for i, a := range in {
		out[i] = ledger.PaymentAllocation{
			PlayerID: ledger.PlayerID(a.PlayerID),
			Amount:   a.Amount,
			Discount: a.Discount,
		}
	}
	return out
}

// =============================================================================
// EXPENSES
// =============================================================================

type ExpenseDTO struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Mode     string          `json:"mode"`
	Notes    string          `json:"notes,omitempty"`
}

type CreateExpenseRequest struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Mode     string          `json:"mode"`
	Notes    string          `json:"notes"`
}

func toExpenseDTO(e ledger.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:       string(e.ID),
		Date:     string(e.Date),
		Category: string(e.Category),
		Amount:   e.Amount,
		Mode:     string(e.Mode),
		Notes:    e.Notes,
	}
}

// =============================================================================
// ONGOING MATCH / ROLE
// =============================================================================

type OngoingDTO struct {
	ID        string `json:"id"`
	PlayerAID string `json:"player_a_id"`
	PlayerBID string `json:"player_b_id"`
	Points    int    `json:"points"`
	Table     string `json:"table"`
	StartTime string `json:"start_time"`
}

type StartOngoingRequest struct {
	PlayerAID string `json:"player_a_id"`
	PlayerBID string `json:"player_b_id"`
	Points    int    `json:"points"`
	Table     string `json:"table"`
}

type SwitchRoleRequest struct {
	Role string `json:"role"`
}

func toOngoingDTO(o ledger.OngoingMatch) OngoingDTO {
	return OngoingDTO{
		ID:        string(o.ID),
		PlayerAID: string(o.PlayerAID),
		PlayerBID: string(o.PlayerBID),
		Points:    int(o.Points),
		Table:     o.Table,
		StartTime: o.StartTime.Format(time.RFC3339),
	}
}

// =============================================================================
// REPORTS
// =============================================================================

type SummaryDTO struct {
	GrossRevenue    decimal.Decimal `json:"gross_revenue"`
	DiscountTotal   decimal.Decimal `json:"discount_total"`
	NetRevenue      decimal.Decimal `json:"net_revenue"`
	CollectedCash   decimal.Decimal `json:"collected_cash"`
	CollectedOnline decimal.Decimal `json:"collected_online"`
	ExpenseTotal    decimal.Decimal `json:"expense_total"`
	NetCashFlow     decimal.Decimal `json:"net_cash_flow"`
	MatchCount      int             `json:"match_count"`
}

type TotalDuesDTO struct {
	TotalDues decimal.Decimal `json:"total_dues"`
}

func toSummaryDTO(s ledger.Summary) SummaryDTO {
	return SummaryDTO{
		GrossRevenue:    s.GrossRevenue,
		DiscountTotal:   s.DiscountTotal,
		NetRevenue:      s.NetRevenue,
		CollectedCash:   s.CollectedCash,
		CollectedOnline: s.CollectedOnline,
		ExpenseTotal:    s.ExpenseTotal,
		NetCashFlow:     s.NetCashFlow,
		MatchCount:      s.MatchCount,
	}
}
