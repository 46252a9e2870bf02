package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskboard/backend/api-composer-service/services"
	"taskboard/backend/utils"
)

type BoardHandler struct {
	service  *services.ComposerService
	identity *utils.IdentityExtractor
}

func NewBoardHandler(service *services.ComposerService, identity *utils.IdentityExtractor) *BoardHandler {
	return &BoardHandler{service: service, identity: identity}
}

func (h *BoardHandler) Register(r *mux.Router) {
	r.HandleFunc("/board/{projectId}", h.GetBoard).Methods(http.MethodGet)
}

func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	board, err := h.service.GetBoard(r.Context(), caller, mux.Vars(r)["projectId"], r.URL.Query())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, board)
}
