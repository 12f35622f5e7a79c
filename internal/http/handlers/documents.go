package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docmind/internal/domain"
	"docmind/internal/limits"
	"docmind/pkg/archive"
)

type documentCreateRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	PageCount  int    `json:"page_count"`
	IsImage    bool   `json:"is_image"`
	FileBase64 string `json:"file_base64"`
}

type documentDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	IsImage   bool      `json:"is_image"`
	PageCount int       `json:"page_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func documentToDTO(d domain.Document, withContent bool) documentDTO {
	dto := documentDTO{
		ID:        d.ID,
		Title:     d.Title,
		IsImage:   d.IsImage,
		PageCount: d.PageCount,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if withContent {
		dto.Content = d.Content
	}
	return dto
}

func (a *App) DocumentsCreate(w http.ResponseWriter, r *http.Request) {
	var req documentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}
	if req.Content == "" && req.FileBase64 == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "content or file is required")
		return
	}
	if req.PageCount <= 0 {
		req.PageCount = 1
	}

	userID := a.currentUserID(r)
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load user")
		return
	}

	ok, err := limits.CanCreateDocument(user.Plan, user.DocumentsCount)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to check plan limits")
		return
	}
	if !ok {
		a.error(w, http.StatusForbidden, "plan_limit", "document limit reached for your plan")
		return
	}
	ok, err = limits.CanUploadPages(user.Plan, req.PageCount)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to check plan limits")
		return
	}
	if !ok {
		a.error(w, http.StatusForbidden, "plan_limit", "page count exceeds your plan limit")
		return
	}

	doc := &domain.Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		IsImage:   req.IsImage,
		PageCount: req.PageCount,
	}

	if req.FileBase64 != "" {
		raw, err := base64.StdEncoding.DecodeString(req.FileBase64)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "file_base64 is not valid base64")
			return
		}
		key, err := a.Store.Write(r.Context(), fmt.Sprintf("%s/%s", userID, doc.ID), raw)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to store file")
			return
		}
		doc.StorageKey = key
	}

	if err := a.Documents.Create(r.Context(), doc); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to create document")
		return
	}
	if err := a.Users.AdjustDocumentsCount(r.Context(), userID, 1); err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("adjust documents count")
	}

	a.json(w, http.StatusCreated, documentToDTO(*doc, true))
}

func (a *App) DocumentsList(w http.ResponseWriter, r *http.Request) {
	docs, err := a.Documents.ListByUser(r.Context(), a.currentUserID(r))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list documents")
		return
	}
	items := make([]documentDTO, 0, len(docs))
	for _, d := range docs {
		items = append(items, documentToDTO(d, false))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) DocumentsGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.loadOwnedDocument(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, documentToDTO(*doc, true))
}

func (a *App) DocumentsDelete(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.loadOwnedDocument(w, r)
	if !ok {
		return
	}
	userID := a.currentUserID(r)
	if err := a.Documents.Delete(r.Context(), doc.ID, userID); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete document")
		return
	}
	if doc.StorageKey != "" {
		if err := a.Store.Delete(r.Context(), doc.StorageKey); err != nil {
			a.Log.Error().Err(err).Str("key", doc.StorageKey).Msg("delete stored file")
		}
	}
	if err := a.Users.AdjustDocumentsCount(r.Context(), userID, -1); err != nil {
		a.Log.Error().Err(err).Str("user_id", userID).Msg("adjust documents count")
	}
	w.WriteHeader(http.StatusNoContent)
}

// DocumentsExport bundles a document and its analyses into a zip download.
func (a *App) DocumentsExport(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.loadOwnedDocument(w, r)
	if !ok {
		return
	}
	analyses, err := a.Documents.ListAnalyses(r.Context(), doc.ID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load analyses")
		return
	}

	entries := []archive.Entry{{Filename: "document.txt", Data: []byte(doc.Content)}}
	for _, an := range analyses {
		entries = append(entries, archive.Entry{
			Filename: fmt.Sprintf("analyses/%s-%s.md", an.Type, an.ID),
			Data:     []byte(an.Result),
		})
	}
	if doc.StorageKey != "" {
		if raw, err := a.Store.Read(r.Context(), doc.StorageKey); err == nil {
			entries = append(entries, archive.Entry{Filename: "original", Data: raw})
		}
	}

	data := archive.Bundle(entries)
	if len(data) == 0 {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Title+".zip"))
	_, _ = w.Write(data)
}

// loadOwnedDocument fetches the document in the URL and checks it belongs to
// the caller. It writes the error response itself when the lookup fails.
func (a *App) loadOwnedDocument(w http.ResponseWriter, r *http.Request) (*domain.Document, bool) {
	id := chi.URLParam(r, "id")
	doc, err := a.Documents.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "document not found")
			return nil, false
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load document")
		return nil, false
	}
	if doc.UserID != a.currentUserID(r) {
		// Hide other users' documents rather than acknowledging them.
		a.error(w, http.StatusNotFound, "not_found", "document not found")
		return nil, false
	}
	return doc, true
}
