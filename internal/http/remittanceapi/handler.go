package remittanceapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakmere/ledgermatch/internal/ledger"
	"github.com/oakmere/ledgermatch/internal/remittance"
	"github.com/oakmere/ledgermatch/internal/remittance/aisdoc"
)

type Handler struct {
	svc    *remittance.Service
	parser *aisdoc.Parser
}

func NewHandler(svc *remittance.Service, parser *aisdoc.Parser) *Handler {
	return &Handler{svc: svc, parser: parser}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.reconcile)
}

type reconcileResponse struct {
	Document *remittance.Document `json:"document"`
	Error    string               `json:"error,omitempty"`
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.parser.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc := remittance.NewDocument(rows)

	if err := h.svc.Reconcile(doc); err != nil {
		var recErr *remittance.ReconciliationError
		if errors.As(err, &recErr) {
			// The caller still gets the partially enriched document so
			// the mismatch can be inspected.
			writeJSON(w, http.StatusUnprocessableEntity, reconcileResponse{Document: doc, Error: recErr.Error()})
			return
		}

		if errors.Is(err, ledger.ErrNotFound) {
			writeJSON(w, http.StatusUnprocessableEntity, reconcileResponse{Document: doc, Error: err.Error()})
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, reconcileResponse{Document: doc})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
