package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/samruben96/documine-sub012/internal/engine"
	"github.com/samruben96/documine-sub012/internal/model"
	"github.com/samruben96/documine-sub012/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateQuote validates a raw extraction record and stores it.
// The body is the record itself; the source file name rides in a query
// parameter so the payload stays schema-shaped.
func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	extraction, err := engine.ValidateRecord(raw)
	if err != nil {
		var verr *engine.ValidationError
		if eris.As(err, &verr) {
			respondError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "invalid extraction record")
		return
	}

	quote, err := s.store.CreateQuote(r.Context(), r.URL.Query().Get("source_file"), *extraction)
	if err != nil {
		respondInternal(w, "create quote", err)
		return
	}
	respondJSON(w, http.StatusCreated, quote)
}

func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	filter := store.QuoteFilter{Carrier: r.URL.Query().Get("carrier")}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	quotes, err := s.store.ListQuotes(r.Context(), filter)
	if err != nil {
		respondInternal(w, "list quotes", err)
		return
	}
	if quotes == nil {
		quotes = []model.StoredQuote{}
	}
	respondJSON(w, http.StatusOK, quotes)
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.store.GetQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "quote not found")
			return
		}
		respondInternal(w, "get quote", err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (s *Server) handleDeleteQuote(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteQuote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "quote not found")
			return
		}
		respondInternal(w, "delete quote", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCompare loads 2-4 stored quotes, runs the engine, and persists the
// result.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuoteIDs []string `json:"quote_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.QuoteIDs) < 2 || len(req.QuoteIDs) > 4 {
		respondError(w, http.StatusBadRequest, "quote_ids must name between 2 and 4 quotes")
		return
	}

	docs := make([]model.QuoteExtraction, 0, len(req.QuoteIDs))
	for _, id := range req.QuoteIDs {
		quote, err := s.store.GetQuote(r.Context(), id)
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				respondError(w, http.StatusNotFound, fmt.Sprintf("quote %s not found", id))
				return
			}
			respondInternal(w, "load quote", err)
			return
		}
		docs = append(docs, quote.Extraction)
	}

	result := engine.Compare(docs, s.engineCfg)
	cmp, err := s.store.CreateComparison(r.Context(), req.QuoteIDs, result)
	if err != nil {
		respondInternal(w, "store comparison", err)
		return
	}
	respondJSON(w, http.StatusCreated, cmp)
}

func (s *Server) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	comparisons, err := s.store.ListComparisons(r.Context(), limit)
	if err != nil {
		respondInternal(w, "list comparisons", err)
		return
	}
	if comparisons == nil {
		comparisons = []model.StoredComparison{}
	}
	respondJSON(w, http.StatusOK, comparisons)
}

func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.store.GetComparison(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "comparison not found")
			return
		}
		respondInternal(w, "get comparison", err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}

// handleExportComparison streams the comparison as CSV or XLSX. Column
// headers use the carrier names of the underlying quotes.
func (s *Server) handleExportComparison(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cmp, err := s.store.GetComparison(r.Context(), id)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "comparison not found")
			return
		}
		respondInternal(w, "get comparison", err)
		return
	}

	docNames := s.comparisonDocNames(r, cmp)

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=comparison-%s.csv", id))
		if err := s.exporter.WriteCSV(w, &cmp.Result, docNames); err != nil {
			zap.L().Error("csv export failed", zap.String("comparison_id", id), zap.Error(err))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=comparison-%s.xlsx", id))
		if err := s.exporter.WriteXLSX(w, &cmp.Result, docNames); err != nil {
			zap.L().Error("xlsx export failed", zap.String("comparison_id", id), zap.Error(err))
		}
	default:
		respondError(w, http.StatusBadRequest, "format must be csv or xlsx")
	}
}

// comparisonDocNames resolves column headers. A quote deleted since the
// comparison ran falls back to its position.
func (s *Server) comparisonDocNames(r *http.Request, cmp *model.StoredComparison) []string {
	names := make([]string, len(cmp.QuoteIDs))
	for i, qid := range cmp.QuoteIDs {
		quote, err := s.store.GetQuote(r.Context(), qid)
		if err != nil {
			names[i] = fmt.Sprintf("quote %d", i+1)
			continue
		}
		names[i] = quote.Extraction.Carrier()
	}
	return names
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func respondInternal(w http.ResponseWriter, op string, err error) {
	zap.L().Error(op+" failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal error")
}
