package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskboard/backend/comments-service/models"
	"taskboard/backend/comments-service/services"
	"taskboard/backend/utils"
)

type CommentHandler struct {
	service  *services.CommentService
	identity *utils.IdentityExtractor
}

func NewCommentHandler(service *services.CommentService, identity *utils.IdentityExtractor) *CommentHandler {
	return &CommentHandler{service: service, identity: identity}
}

// Register mounts the /comments routes on r.
func (h *CommentHandler) Register(r *mux.Router) {
	r.HandleFunc("/comments", h.CreateComment).Methods(http.MethodPost)
	r.HandleFunc("/comments/task/{taskId}", h.ListTaskComments).Methods(http.MethodGet)
	r.HandleFunc("/comments/{id}", h.UpdateComment).Methods(http.MethodPut)
	r.HandleFunc("/comments/{id}", h.DeleteComment).Methods(http.MethodDelete)
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req models.CreateCommentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), caller, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) ListTaskComments(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	comments, err := h.service.ListTaskComments(r.Context(), caller, mux.Vars(r)["taskId"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req models.UpdateCommentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), caller, mux.Vars(r)["id"], req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	comment, err := h.service.DeleteComment(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, comment)
}
