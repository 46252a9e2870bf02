package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskboard/backend/notifications-service/models"
	"taskboard/backend/notifications-service/services"
	"taskboard/backend/utils"
)

type NotificationHandler struct {
	service  *services.NotificationService
	identity *utils.IdentityExtractor
}

func NewNotificationHandler(service *services.NotificationService, identity *utils.IdentityExtractor) *NotificationHandler {
	return &NotificationHandler{service: service, identity: identity}
}

// Register mounts the /notifications routes on r. mark-all-read is registered before {id} routes.
func (h *NotificationHandler) Register(r *mux.Router) {
	r.HandleFunc("/notifications", h.CreateNotification).Methods(http.MethodPost)
	r.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet)
	r.HandleFunc("/notifications/mark-all-read", h.MarkAllAsRead).Methods(http.MethodPut)
	r.HandleFunc("/notifications/{id}/read", h.MarkAsRead).Methods(http.MethodPut)
	r.HandleFunc("/notifications/{id}", h.DeleteNotification).Methods(http.MethodDelete)
}

func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req models.CreateNotificationRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	n, err := h.service.CreateNotification(r.Context(), caller, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	list, err := h.service.ListNotifications(r.Context(), caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	n, err := h.service.MarkAsRead(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	res, err := h.service.MarkAllAsRead(r.Context(), caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	n, err := h.service.DeleteNotification(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, n)
}
