package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jot/notes-backend/internal/api/middleware"
	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/service"
)

type FolderHandler struct {
	folders *service.FolderService
}

func NewFolderHandler(folders *service.FolderService) *FolderHandler {
	return &FolderHandler{folders: folders}
}

type FolderRequest struct {
	Name string `json:"name"`
}

type FolderResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func toFolderResponse(f *domain.Folder) FolderResponse {
	return FolderResponse{ID: f.ID, Name: f.Name}
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req FolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	folder, err := h.folders.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFolderResponse(folder))
}

func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	folders, err := h.folders.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]FolderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, toFolderResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.folders.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FolderHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	docs, err := h.folders.ListDocuments(r.Context(), userID, id)
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

func (h *FolderHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	folderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "documentId")
	if !ok {
		return
	}

	if err := h.folders.AddDocument(r.Context(), userID, folderID, documentID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FolderHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	folderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "documentId")
	if !ok {
		return
	}

	if err := h.folders.RemoveDocument(r.Context(), userID, folderID, documentID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
