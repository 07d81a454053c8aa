package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/starford/almanac/internal/apperr"
)

// maxBatch caps the number of texts accepted by NormalizeBatch.
const maxBatch = 10000

// Normalize handles POST /api/normalize.
//
//	@Summary		Normalize one free-text date
//	@Tags			dates
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NormalizeRequest	true	"Text to parse"
//	@Success		200		{object}	models.Normalized
//	@Failure		400		{object}	errResponse
//	@Router			/normalize [post]
func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req NormalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Normalize(req.Text))
}

// NormalizeBatch handles POST /api/normalize/batch.
//
//	@Summary		Normalize many free-text dates, preserving order
//	@Tags			dates
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NormalizeBatchRequest	true	"Texts to parse"
//	@Success		200		{object}	NormalizeBatchResponse
//	@Failure		400		{object}	errResponse
//	@Router			/normalize/batch [post]
func (h *Handler) NormalizeBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req NormalizeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if len(req.Texts) > maxBatch {
		writeJSON(w, http.StatusBadRequest, errorBody("too many texts"))
		return
	}
	results, err := h.svc.NormalizeBatch(r.Context(), req.Texts)
	if err != nil {
		writeError(w, "normalize batch", err)
		return
	}
	writeJSON(w, http.StatusOK, NormalizeBatchResponse{Results: results})
}

// Canonical handles GET /api/canonical?s=.
//
//	@Summary		Decompose a stored canonical date string
//	@Tags			dates
//	@Produce		json
//	@Param			s	query		string	true	"Canonical string"
//	@Success		200	{object}	models.Normalized
//	@Failure		400	{object}	errResponse
//	@Router			/canonical [get]
func (h *Handler) Canonical(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Canonical(r.URL.Query().Get("s"))
	if err != nil {
		writeError(w, "canonical", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Timeline handles GET /api/timeline.
//
//	@Summary		Chronological list of indexed dates
//	@Tags			dates
//	@Produce		json
//	@Param			from	query		int	false	"First year (inclusive)"
//	@Param			to		query		int	false	"Last year (inclusive)"
//	@Param			limit	query		int	false	"Max results"
//	@Success		200		{object}	EntriesResponse
//	@Failure		400		{object}	errResponse
//	@Router			/timeline [get]
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := yearParam(q.Get("from"))
	if err != nil {
		writeError(w, "timeline", err)
		return
	}
	to, err := yearParam(q.Get("to"))
	if err != nil {
		writeError(w, "timeline", err)
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	entries, err := h.svc.Timeline(r.Context(), from, to, limit)
	if err != nil {
		writeError(w, "timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, EntriesResponse{Entries: entries})
}

// Unparsed handles GET /api/unparsed.
//
//	@Summary		Raw values that could not be read as dates
//	@Tags			dates
//	@Produce		json
//	@Param			limit	query		int	false	"Max results"
//	@Success		200		{object}	EntriesResponse
//	@Router			/unparsed [get]
func (h *Handler) Unparsed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.Unparsed(r.Context(), limit)
	if err != nil {
		writeError(w, "unparsed", err)
		return
	}
	writeJSON(w, http.StatusOK, EntriesResponse{Entries: entries})
}

// Search handles GET /api/search.
//
//	@Summary		Search raw values, canonical forms and titles
//	@Tags			dates
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	EntriesResponse
//	@Failure		400		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, "query", q)
		return
	}
	writeJSON(w, http.StatusOK, EntriesResponse{Entries: entries})
}

// RecordDates handles GET /api/dates/*.
//
//	@Summary		Normalized dates of one record
//	@Tags			dates
//	@Produce		json
//	@Param			path	path		string	true	"Record path"
//	@Success		200		{object}	RecordDatesResponse
//	@Failure		404		{object}	errResponse
//	@Router			/dates/{path} [get]
func (h *Handler) RecordDates(w http.ResponseWriter, r *http.Request) {
	path := recordPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	dates, err := h.svc.RecordDates(r.Context(), path)
	if err != nil {
		writeError(w, "record dates", err, "path", path)
		return
	}
	writeJSON(w, http.StatusOK, RecordDatesResponse{Path: path, Dates: dates})
}

func yearParam(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperr.ErrInvalidInput
	}
	return &v, nil
}
