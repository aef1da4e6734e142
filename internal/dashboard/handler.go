package dashboard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"financas/internal/category"
)

// Handler exposes the dashboard over JSON.
type Handler struct {
	svc    *Service
	store  *category.Store
	logger *slog.Logger
}

func NewHandler(svc *Service, store *category.Store, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, store: store, logger: logger}
}

// Register mounts the routes on the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/v1/months", h.listMonths).Methods(http.MethodGet)
	r.HandleFunc("/v1/dashboard", h.dashboard).Methods(http.MethodGet)
	r.HandleFunc("/v1/categories", h.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/v1/categories", h.addCategory).Methods(http.MethodPost)
	r.HandleFunc("/v1/categories/pix", h.listPixMappings).Methods(http.MethodGet)
	r.HandleFunc("/v1/categories/pix", h.savePixMappings).Methods(http.MethodPut)
	r.HandleFunc("/v1/categories/receipts", h.listReceiptMappings).Methods(http.MethodGet)
	r.HandleFunc("/v1/categories/receipts", h.saveReceiptMappings).Methods(http.MethodPut)
	r.HandleFunc("/v1/categories/suggest", h.suggest).Methods(http.MethodGet)
	r.HandleFunc("/v1/debts", h.listDebts).Methods(http.MethodGet)
	r.HandleFunc("/v1/debts", h.saveDebts).Methods(http.MethodPut)
}

type dashboardResponse struct {
	Month   string     `json:"month"`
	Data    *MonthData `json:"data"`
	Summary *Summary   `json:"summary"`
}

func (h *Handler) listMonths(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{"months": h.svc.Months()})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	var (
		data *MonthData
		err  error
	)
	if month == "" {
		data, err = h.svc.LoadAll(r.Context())
	} else {
		data, err = h.svc.LoadMonth(r.Context(), month)
	}
	if errors.Is(err, ErrUnknownMonth) {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	summary, err := h.svc.Summarize(data)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dashboardResponse{
		Month:   data.Label,
		Data:    data,
		Summary: summary,
	})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Categories()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	err := h.store.AddCategory(body.Name)
	switch {
	case errors.Is(err, category.ErrBlankCategory):
		h.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, category.ErrDuplicateCategory):
		h.writeError(w, http.StatusConflict, err)
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, err)
	default:
		h.writeJSON(w, http.StatusCreated, map[string]string{"name": body.Name})
	}
}

func (h *Handler) listPixMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.store.PixMappings()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, mappings)
}

func (h *Handler) savePixMappings(w http.ResponseWriter, r *http.Request) {
	var rows []category.PixMapping
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.SavePixMappings(rows); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"saved": len(rows)})
}

func (h *Handler) listReceiptMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.store.ReceiptMappings()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, mappings)
}

func (h *Handler) saveReceiptMappings(w http.ResponseWriter, r *http.Request) {
	var rows []category.ReceiptMapping
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.SaveReceiptMappings(rows); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"saved": len(rows)})
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, errors.New("key is required"))
		return
	}
	max := 5
	if raw := r.URL.Query().Get("max"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			max = n
		}
	}

	pixMappings, err := h.store.PixMappings()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	receiptMappings, err := h.store.ReceiptMappings()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	known := make([]string, 0, len(pixMappings)+len(receiptMappings))
	for k := range pixMappings {
		known = append(known, k)
	}
	for k := range receiptMappings {
		known = append(known, k)
	}
	sort.Strings(known)

	h.writeJSON(w, http.StatusOK, map[string][]string{
		"suggestions": category.Suggest(key, known, max),
	})
}

func (h *Handler) listDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := h.store.Debts()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]category.Debt{"debts": debts})
}

func (h *Handler) saveDebts(w http.ResponseWriter, r *http.Request) {
	var rows []category.Debt
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.SaveDebts(rows); err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"saved": len(rows)})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", slog.Any("error", err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
