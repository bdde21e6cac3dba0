package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pantagon/internal/domain"
	"pantagon/internal/excel"
	"pantagon/internal/money"
	"pantagon/internal/repository"
	"pantagon/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *service.Service
	log zerolog.Logger
}

func NewHandler(svc *service.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// ListRawItems serves the plain collection: stored records only, as a bare array.
func (h *Handler) ListRawItems(w http.ResponseWriter, r *http.Request) {
	filter, err := parseItemFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.svc.ListItems(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) GetRawItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter, err := parseItemFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	asOf, err := parseAsOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.svc.ListItemsWithMetrics(r.Context(), filter, asOf)
	if err != nil {
		h.fail(w, r, err, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	asOf, err := parseAsOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.svc.GetItemWithMetrics(r.Context(), id, asOf)
	if err != nil {
		h.fail(w, r, err, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req domain.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.svc.CreateItem(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "item not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) PatchItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req domain.ItemPatch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.svc.UpdateItem(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		h.fail(w, r, err, "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type dashboardResponse struct {
	domain.ItemDashboard
	Display map[string]string `json:"display"`
}

func (h *Handler) ItemDashboard(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dashboard, err := h.svc.ItemDashboard(r.Context(), asOf)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		ItemDashboard: dashboard,
		Display: map[string]string{
			"daily_burn_rate": money.FormatCurrency(dashboard.DailyBurnRate, money.THB),
			"total_profit":    money.FormatCurrency(dashboard.TotalProfit, money.THB),
		},
	})
}

func (h *Handler) GroupBurnRates(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	groups, err := h.svc.GroupBurnRates(r.Context(), asOf)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups, "count": len(groups)})
}

func (h *Handler) CategoryDistribution(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.CategoryDistribution(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories, "count": len(categories)})
}

func (h *Handler) ItemOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.svc.ItemOptions(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (h *Handler) ImportItemsExcel(w http.ResponseWriter, r *http.Request) {
	file, fileName, ok := readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	rows, err := excel.ParseItemRows(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	imported, err := h.svc.ImportItems(r.Context(), rows)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_name":  fileName,
		"total_rows": len(rows),
		"imported":   imported,
	})
}

func (h *Handler) ExportItems(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, dashboard, err := h.svc.ItemReport(r.Context(), asOf)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteItemReport(&buf, items, dashboard); err != nil {
		h.fail(w, r, err, "")
		return
	}
	stamp := asOf
	if stamp.IsZero() {
		stamp = time.Now()
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="items-%s.xlsx"`, stamp.Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) ListFXEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListFXEntries(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (h *Handler) CreateFXEntry(w http.ResponseWriter, r *http.Request) {
	var req domain.FXEntryInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.svc.CreateFXEntry(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "fx entry not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) PatchFXEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req domain.FXEntryPatch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.svc.UpdateFXEntry(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err, "fx entry not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteFXEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteFXEntry(r.Context(), id); err != nil {
		h.fail(w, r, err, "fx entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fxStatsResponse struct {
	service.FXSummary
	Display map[string]string `json:"display"`
}

func (h *Handler) FXStats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.FXSummary(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, fxStatsResponse{
		FXSummary: summary,
		Display: map[string]string{
			"total_usd":       money.FormatCurrency(summary.TotalUSD, money.USD),
			"total_thb":       money.FormatCurrency(summary.TotalTHB, money.THB),
			"total_value_thb": money.FormatCurrency(summary.TotalValueTHB, money.THB),
			"total_value_usd": money.FormatCurrency(summary.TotalValueUSD, money.USD),
		},
	})
}

func (h *Handler) ImportFXExcel(w http.ResponseWriter, r *http.Request) {
	file, fileName, ok := readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	rows, err := excel.ParseFXRows(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	imported, err := h.svc.ImportFXEntries(r.Context(), rows)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_name":  fileName,
		"total_rows": len(rows),
		"imported":   imported,
	})
}

func (h *Handler) ListWeights(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListWeights(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

func (h *Handler) CreateWeight(w http.ResponseWriter, r *http.Request) {
	var req domain.WeightInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.svc.AddWeight(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, "weight entry not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteWeight(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteWeight(r.Context(), id); err != nil {
		h.fail(w, r, err, "weight entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) WeightStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.WeightStats(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ImportWeightsExcel(w http.ResponseWriter, r *http.Request) {
	file, fileName, ok := readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	rows, err := excel.ParseWeightRows(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	imported, err := h.svc.ImportWeights(r.Context(), rows)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"file_name":  fileName,
		"total_rows": len(rows),
		"imported":   imported,
	})
}

// fail maps service errors onto status codes. Only unexpected errors are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if notFound == "" {
			notFound = "not found"
		}
		writeError(w, http.StatusNotFound, notFound)
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, string, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return nil, "", false
	}
	return file, header.Filename, true
}

func parseItemFilter(r *http.Request) (repository.ItemListFilter, error) {
	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"), 0)
	if err != nil {
		return repository.ItemListFilter{}, err
	}
	offset, err := parseOptionalInt(query.Get("offset"), 0)
	if err != nil {
		return repository.ItemListFilter{}, err
	}
	status := strings.ToLower(strings.TrimSpace(query.Get("status")))
	if status != "" && status != string(domain.ItemOwned) && status != string(domain.ItemSold) {
		return repository.ItemListFilter{}, fmt.Errorf("status must be owned or sold")
	}
	return repository.ItemListFilter{
		Search:   query.Get("search"),
		Status:   status,
		Group:    query.Get("group"),
		Category: query.Get("category"),
		Tag:      query.Get("tag"),
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// parseAsOf returns the zero time when the request does not pin a date.
func parseAsOf(r *http.Request) (time.Time, error) {
	parsed, err := parseOptionalTime(r.URL.Query().Get("as_of"))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of: use YYYY-MM-DD or RFC3339")
	}
	if parsed == nil {
		return time.Time{}, nil
	}
	return *parsed, nil
}

func parseItemID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid id")
	}
	return id.String(), nil
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func parseOptionalInt(raw string, defaultValue int) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %s", raw)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("value cannot be negative")
	}
	return parsed, nil
}

func parseOptionalTime(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, domain.DateLayout} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("invalid time")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
