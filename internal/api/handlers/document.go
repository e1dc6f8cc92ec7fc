package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jot/notes-backend/internal/api/middleware"
	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/service"
)

type DocumentHandler struct {
	documents *service.DocumentService
	trash     *service.TrashService
}

func NewDocumentHandler(documents *service.DocumentService, trash *service.TrashService) *DocumentHandler {
	return &DocumentHandler{documents: documents, trash: trash}
}

type DocumentRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type DocumentResponse struct {
	ID         uint     `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	IsFavorite bool     `json:"isFavorite"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

func toDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID,
		Title:      d.Title,
		Content:    d.Content,
		Tags:       d.TagList(),
		IsFavorite: d.IsFavorite,
		CreatedAt:  d.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  d.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

type TrashedDocumentResponse struct {
	ID         uint     `json:"id"`
	OriginalID uint     `json:"originalId"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	DeletedAt  string   `json:"deletedAt"`
}

func toTrashedResponse(a *domain.ArchivedDocument) TrashedDocumentResponse {
	return TrashedDocumentResponse{
		ID:         a.ID,
		OriginalID: a.OriginalID,
		Title:      a.Title,
		Tags:       a.TagList(),
		DeletedAt:  a.DeletedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	doc, err := h.documents.Create(r.Context(), userID, service.DocumentInput(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.documents.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	doc, err := h.documents.Update(r.Context(), userID, id, service.DocumentInput(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	favoritesOnly := r.URL.Query().Get("favorites") == "true"

	docs, err := h.documents.List(r.Context(), userID, favoritesOnly)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DocumentHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.documents.ToggleFavorite(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *DocumentHandler) RenderHTML(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rendered, err := h.documents.RenderHTML(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(rendered))
}

// Trash moves one document into the trash.
func (h *DocumentHandler) Trash(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	archived, err := h.trash.TrashOne(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrashedResponse(archived))
}

type BulkTrashRequest struct {
	DocumentIDs []uint `json:"documentIds"`
}

// TrashBulk moves several documents into the trash in one transaction.
func (h *DocumentHandler) TrashBulk(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req BulkTrashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if len(req.DocumentIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "documentIds is required"})
		return
	}

	archived, err := h.trash.TrashMany(r.Context(), userID, req.DocumentIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]TrashedDocumentResponse, 0, len(archived))
	for _, a := range archived {
		out = append(out, toTrashedResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DocumentHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	archived, err := h.trash.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]TrashedDocumentResponse, 0, len(archived))
	for _, a := range archived {
		out = append(out, toTrashedResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// RestoreTrashed recreates a live document from a trash row.
func (h *DocumentHandler) RestoreTrashed(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.trash.Restore(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// pathID parses a numeric {name} URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}
