package handler

import (
	"net/http"

	"github.com/bhvr/bhvr-api-go/internal/middleware"
	"github.com/bhvr/bhvr-api-go/internal/model"
	"github.com/bhvr/bhvr-api-go/internal/service"
	"github.com/go-chi/chi/v5"
)

const msgInvalidID = "invalid id"

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service *service.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{service: svc}
}

// HandleList handles GET /api/posts requests.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, "", posts)
}

// HandleListByUser handles GET /api/posts/user/{userId} requests.
func (h *PostHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(chi.URLParam(r, "userId"))
	if !ok {
		writeFailure(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	posts, err := h.service.ListByAuthor(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, "", posts)
}

// HandleGet handles GET /api/posts/{id} requests.
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeFailure(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	post, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, "", post)
}

// HandleCreate handles POST /api/posts requests.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, middleware.MsgMissingToken)
		return
	}

	var req model.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.Create(r.Context(), identity.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, "post created", post)
}

// HandleUpdate handles PUT /api/posts/{id} requests.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, middleware.MsgMissingToken)
		return
	}

	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeFailure(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	var req model.UpdatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.Update(r.Context(), identity.UserID, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, "post updated", post)
}

// HandleDelete handles DELETE /api/posts/{id} requests.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, middleware.MsgMissingToken)
		return
	}

	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeFailure(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, "post deleted", nil)
}
