package ledgerapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakmere/ledgermatch/internal/ledger"
)

type Handler struct {
	repo   *ledger.Repository
	loader ledger.Loader
}

func NewHandler(repo *ledger.Repository, loader ledger.Loader) *Handler {
	return &Handler{repo: repo, loader: loader}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/invoices/{ref}", h.lookup)
	r.Get("/unmatched-receipts", h.unmatchedReceipts)
	r.Get("/checks/month", h.checkMonth)
	r.Get("/checks/day", h.checkDay)
	r.Post("/refresh", h.refresh)
}

type lookupResponse struct {
	Reference string            `json:"reference"`
	Field     string            `json:"field"`
	Value     ledger.FieldValue `json:"value"`
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	field, err := ledger.ParseField(r.URL.Query().Get("field"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var types []ledger.EntryType

	if s := r.URL.Query().Get("types"); s != "" {
		for _, t := range strings.Split(s, ",") {
			types = append(types, ledger.EntryType(strings.TrimSpace(t)))
		}
	}

	value, err := h.repo.UsingReference(ref, field, types...)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	writeJSON(w, http.StatusOK, lookupResponse{Reference: ref, Field: field.String(), Value: value})
}

func (h *Handler) unmatchedReceipts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"accounts": h.repo.UnmatchedReceiptAccounts(),
	})
}

func (h *Handler) checkMonth(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		http.Error(w, "account parameter is required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	var result ledger.CheckResult
	if details := r.URL.Query().Get("details"); details != "" {
		result = h.repo.TransactionsInMonthDetailed(account, date, details)
	} else {
		result = h.repo.TransactionsInMonth(account, date)
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) checkDay(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	entryType := r.URL.Query().Get("type")

	if account == "" || entryType == "" {
		http.Error(w, "account and type parameters are required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, h.repo.TransactionsOnDay(ledger.EntryType(entryType), account, date))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Refresh(r.Context(), h.loader); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
