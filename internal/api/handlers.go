package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/almanac/internal/catalog"
)

const maxBody = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *catalog.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// recordPath extracts the record path from the wildcard URL segment.
// Encoded slashes (people%2Fada.md) are accepted.
func recordPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListRecords handles GET /api/records.
//
//	@Summary		List records with optional pagination and tag filter
//	@Tags			records
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by tag"
//	@Success		200		{object}	RecordListResponse
//	@Security		BearerAuth
//	@Router			/records [get]
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListRecords(r.Context(), limit, offset, q.Get("tag"))
	if err != nil {
		writeError(w, "list records", err)
		return
	}
	writeJSON(w, http.StatusOK, RecordListResponse{Records: items, Total: total})
}

// GetRecord handles GET /api/records/*.
//
//	@Summary		Get a single record with its normalized dates
//	@Tags			records
//	@Produce		json
//	@Param			path	path		string	true	"Record path"
//	@Success		200		{object}	RecordDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{path} [get]
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	path := recordPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	rec, err := h.svc.GetRecord(r.Context(), path)
	if err != nil {
		writeError(w, "get record", err, "path", path)
		return
	}
	writeRecord(w, http.StatusOK, rec)
}

// writeRecord sends rec with its checksum as a strong ETag, ready to be
// echoed back in If-Match.
func writeRecord(w http.ResponseWriter, status int, rec *catalog.RecordDetail) {
	w.Header().Set("ETag", `"`+rec.Checksum+`"`)
	writeJSON(w, status, rec)
}

// CreateRecord handles POST /api/records.
//
//	@Summary		Create a new record
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateRecordRequest	true	"Record to create"
//	@Success		201		{object}	RecordDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records [post]
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" || req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path and content are required"))
		return
	}
	rec, err := h.svc.CreateRecord(r.Context(), req.Path, []byte(req.Content))
	if err != nil {
		writeError(w, "create record", err, "path", req.Path)
		return
	}
	writeRecord(w, http.StatusCreated, rec)
}

// UpdateRecord handles PUT /api/records/*.
//
//	@Summary		Update a record with optimistic concurrency
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			path		path	string				true	"Record path"
//	@Param			If-Match	header	string				false	"SHA-256 checksum of the stored record"
//	@Param			body		body	UpdateRecordRequest	true	"Updated content"
//	@Success		200		{object}	RecordDetail
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{path} [put]
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	path := recordPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}
	var req UpdateRecordRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)
	rec, err := h.svc.UpdateRecord(r.Context(), path, []byte(req.Content), ifMatch)
	if err != nil {
		writeError(w, "update record", err, "path", path)
		return
	}
	writeRecord(w, http.StatusOK, rec)
}

// DeleteRecord handles DELETE /api/records/*.
//
//	@Summary		Delete a record
//	@Tags			records
//	@Param			path	path	string	true	"Record path"
//	@Success		204		"Record deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/{path} [delete]
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	path := recordPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.DeleteRecord(r.Context(), path); err != nil {
		writeError(w, "delete record", err, "path", path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveRecord handles POST /api/records/move.
//
//	@Summary		Rename a record
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			body	body		MoveRecordRequest	true	"Source and destination"
//	@Success		200		{object}	RecordDetail
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/records/move [post]
func (h *Handler) MoveRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req MoveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.From == "" || req.To == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("from and to are required"))
		return
	}
	rec, err := h.svc.MoveRecord(r.Context(), req.From, req.To)
	if err != nil {
		writeError(w, "move record", err, "from", req.From, "to", req.To)
		return
	}
	writeRecord(w, http.StatusOK, rec)
}
