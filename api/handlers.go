/*
handlers.go - HTTP handlers for the club ledger

PURPOSE:
  Exposes the ledger engine via REST. Handles HTTP request/response and JSON
  translation, delegates every decision to the ledger core.

REQUEST FLOW:
  1. Parse request
  2. Call the ledger mutation or query
  3. On mutation success, save a snapshot (fire-and-forget, see below)
  4. Serialize response

PERSISTENCE BOUNDARY:
  After each successful mutation the handler snapshots the store and hands
  the blob to the snapshot saver. A save failure is logged as a warning and
  never propagated to the caller - the in-memory state stays authoritative
  for the session.

ERROR HANDLING:
  - 400: validation failures
  - 404: unknown ids
  - 500: everything else

SEE ALSO:
  - dto.go: request/response structures
  - server.go: router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/topspin/club-ledger/ledger"
)

// SnapshotSaver is the durable side of the persistence boundary.
type SnapshotSaver interface {
	Save(ctx context.Context, blob []byte) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *ledger.Store
	Snapshots SnapshotSaver // may be nil (no persistence, e.g. tests)
}

// NewHandler creates a handler around the given store.
func NewHandler(store *ledger.Store, snapshots SnapshotSaver) *Handler {
	return &Handler{Store: store, Snapshots: snapshots}
}

// persist saves a snapshot after a mutation. Failures are logged, not
// surfaced; the mutation already succeeded.
func (h *Handler) persist(ctx context.Context) {
	if h.Snapshots == nil {
		return
	}
	blob, err := h.Store.Snapshot()
	if err != nil {
		slog.Warn("snapshot encode failed", "error", err)
		return
	}
	if err := h.Snapshots.Save(ctx, blob); err != nil {
		slog.Warn("snapshot save failed", "error", err)
	}
}

// =============================================================================
// PLAYER HANDLERS
// =============================================================================

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players := h.Store.Players()
	dtos := make([]PlayerDTO, len(players))
	for i, p := range players {
		dtos[i] = toPlayerDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	player, err := h.Store.AddPlayer(ledger.NewPlayer{
		Name:           req.Name,
		Nickname:       req.Nickname,
		Phone:          req.Phone,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusCreated, toPlayerDTO(player))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req UpdatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	player, err := h.Store.UpdatePlayer(ledger.PlayerID(chi.URLParam(r, "id")), ledger.PlayerPatch{
		Name:           req.Name,
		Nickname:       req.Nickname,
		Phone:          req.Phone,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusOK, toPlayerDTO(player))
}

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.PlayerStats(ledger.PlayerID(chi.URLParam(r, "id")))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(stats))
}

func (h *Handler) GetPlayerDues(w http.ResponseWriter, r *http.Request) {
	id := ledger.PlayerID(chi.URLParam(r, "id"))
	dues, err := h.Store.PlayerDues(id)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DuesDTO{PlayerID: string(id), Pending: dues})
}

// =============================================================================
// MATCH HANDLERS
// =============================================================================

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	matches := h.Store.Matches()
	dtos := make([]MatchDTO, len(matches))
	for i, m := range matches {
		dtos[i] = h.toMatchDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	match, err := h.Store.AddMatch(ledger.NewMatch{
		Date:        ledger.Date(req.Date),
		Points:      ledger.MatchPoints(req.Points),
		PlayerAID:   ledger.PlayerID(req.PlayerAID),
		PlayerBID:   ledger.PlayerID(req.PlayerBID),
		PayerOption: ledger.PayerOption(req.PayerOption),
		WinnerID:    toWinnerID(req.WinnerID),
		Table:       req.Table,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusCreated, h.toMatchDTO(match))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	var req UpdateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	patch := ledger.MatchPatch{
		WinnerID:    toWinnerID(req.WinnerID),
		ClearWinner: req.ClearWinner,
		Table:       req.Table,
	}
	if req.Date != nil {
		d := ledger.Date(*req.Date)
		patch.Date = &d
	}
	if req.Points != nil {
		p := ledger.MatchPoints(*req.Points)
		patch.Points = &p
	}
	if req.PlayerAID != nil {
		id := ledger.PlayerID(*req.PlayerAID)
		patch.PlayerAID = &id
	}
	if req.PlayerBID != nil {
		id := ledger.PlayerID(*req.PlayerBID)
		patch.PlayerBID = &id
	}
	if req.PayerOption != nil {
		o := ledger.PayerOption(*req.PayerOption)
		patch.PayerOption = &o
	}

	match, err := h.Store.UpdateMatch(ledger.MatchID(chi.URLParam(r, "id")), patch)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusOK, h.toMatchDTO(match))
}

func (h *Handler) toMatchDTO(m ledger.Match) MatchDTO {
	dto := MatchDTO{
		ID:               string(m.ID),
		Date:             string(m.Date),
		RecordedAt:       m.RecordedAt.Format(time.RFC3339),
		RecordedBy:       RecordedByDTO{Role: string(m.RecordedBy.Role), Name: m.RecordedBy.Name},
		Table:            m.Table,
		Points:           int(m.Points),
		PlayerAID:        string(m.PlayerAID),
		PlayerBID:        string(m.PlayerBID),
		PayerOption:      string(m.PayerOption),
		TotalValue:       m.TotalValue,
		Charges:          make(map[string]decimal.Decimal, len(m.Charges)),
		ResultPending:    m.ResultPending(),
		UnsettledPlayers: []string{},
	}
	if m.WinnerID != nil {
		id := string(*m.WinnerID)
		dto.WinnerID = &id
	}
	for id, amount := range m.Charges {
		dto.Charges[string(id)] = amount
		settled, err := h.Store.IsMatchSettled(m.ID, id)
		if err == nil && !settled {
			dto.UnsettledPlayers = append(dto.UnsettledPlayers, string(id))
		}
	}
	return dto
}

func toWinnerID(id *string) *ledger.PlayerID {
	if id == nil || *id == "" {
		return nil
	}
	winner := ledger.PlayerID(*id)
	return &winner
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments := h.Store.Payments()
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	payment, err := h.Store.AddPayment(ledger.NewPayment{
		PrimaryPayerID: ledger.PlayerID(req.PrimaryPayerID),
		Allocations:    fromAllocationDTOs(req.Allocations),
		Mode:           ledger.PaymentMode(req.Mode),
		Date:           ledger.Date(req.Date),
		Notes:          req.Notes,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusCreated, toPaymentDTO(payment))
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	patch := ledger.PaymentPatch{
		Allocations: fromAllocationDTOs(req.Allocations),
		Notes:       req.Notes,
	}
	if req.PrimaryPayerID != nil {
		id := ledger.PlayerID(*req.PrimaryPayerID)
		patch.PrimaryPayerID = &id
	}
	if req.Mode != nil {
		m := ledger.PaymentMode(*req.Mode)
		patch.Mode = &m
	}
	if req.Date != nil {
		d := ledger.Date(*req.Date)
		patch.Date = &d
	}

	payment, err := h.Store.UpdatePayment(ledger.PaymentID(chi.URLParam(r, "id")), patch)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusOK, toPaymentDTO(payment))
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := h.Store.Expenses()
	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = toExpenseDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	expense, err := h.Store.AddExpense(ledger.NewExpense{
		Date:     ledger.Date(req.Date),
		Category: ledger.ExpenseCategory(req.Category),
		Amount:   req.Amount,
		Mode:     ledger.PaymentMode(req.Mode),
		Notes:    req.Notes,
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusCreated, toExpenseDTO(expense))
}

// =============================================================================
// ONGOING MATCH / ROLE HANDLERS
// =============================================================================

func (h *Handler) GetOngoing(w http.ResponseWriter, r *http.Request) {
	ongoing := h.Store.OngoingMatch()
	if ongoing == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, toOngoingDTO(*ongoing))
}

func (h *Handler) StartOngoing(w http.ResponseWriter, r *http.Request) {
	var req StartOngoingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	ongoing, err := h.Store.StartOngoingMatch(
		ledger.PlayerID(req.PlayerAID),
		ledger.PlayerID(req.PlayerBID),
		ledger.MatchPoints(req.Points),
		req.Table,
	)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	h.persist(r.Context())
	writeJSON(w, http.StatusCreated, toOngoingDTO(ongoing))
}

func (h *Handler) ClearOngoing(w http.ResponseWriter, r *http.Request) {
	h.Store.ClearOngoingMatch()
	h.persist(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SwitchRole(w http.ResponseWriter, r *http.Request) {
	var req SwitchRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if err := h.Store.SwitchRole(ledger.UserRole(req.Role)); err != nil {
		writeLedgerError(w, err)
		return
	}
	h.persist(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeFromQuery(r)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(h.Store.Summarize(rng)))
}

func (h *Handler) GetTotalDues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TotalDuesDTO{TotalDues: h.Store.TotalDues()})
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("TopSpin_Report_%s.csv", ledger.Today())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := h.Store.WriteStatsCSV(w); err != nil {
		slog.Error("csv export failed", "error", err)
	}
}

func rangeFromQuery(r *http.Request) (ledger.Range, error) {
	switch r.URL.Query().Get("range") {
	case "", "today":
		return ledger.TodayRange(), nil
	case "month":
		return ledger.ThisMonth(), nil
	case "lifetime":
		return ledger.Lifetime(), nil
	case "custom":
		return ledger.Custom(
			ledger.Date(r.URL.Query().Get("from")),
			ledger.Date(r.URL.Query().Get("to")),
		)
	default:
		return ledger.Range{}, &ledger.ValidationError{Field: "range", Message: "want today, month, custom or lifetime"}
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
