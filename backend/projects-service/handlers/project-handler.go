package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskboard/backend/projects-service/models"
	"taskboard/backend/projects-service/services"
	"taskboard/backend/utils"
)

type ProjectHandler struct {
	Service  *services.ProjectService
	Identity *utils.IdentityExtractor
}

func NewProjectHandler(service *services.ProjectService, identity *utils.IdentityExtractor) *ProjectHandler {
	return &ProjectHandler{Service: service, Identity: identity}
}

// Register mounts the /projects routes on r.
func (h *ProjectHandler) Register(r *mux.Router) {
	r.HandleFunc("/projects", h.CreateProject).Methods(http.MethodPost)
	r.HandleFunc("/projects", h.ListProjects).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}", h.GetProject).Methods(http.MethodGet)
	r.HandleFunc("/projects/{id}", h.UpdateProject).Methods(http.MethodPut)
	r.HandleFunc("/projects/{id}", h.DeleteProject).Methods(http.MethodDelete)
	r.HandleFunc("/projects/{id}/members", h.AddMember).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}/members/{memberId}", h.RemoveMember).Methods(http.MethodDelete)
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req models.CreateProjectRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	project, err := h.Service.CreateProject(r.Context(), caller, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	projects, err := h.Service.ListProjects(r.Context(), caller)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	project, err := h.Service.GetProject(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req models.UpdateProjectRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	project, err := h.Service.UpdateProject(r.Context(), caller, mux.Vars(r)["id"], req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	project, err := h.Service.DeleteProject(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req models.AddMemberRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	project, err := h.Service.AddMember(r.Context(), caller, mux.Vars(r)["id"], req.MemberID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	vars := mux.Vars(r)
	project, err := h.Service.RemoveMember(r.Context(), caller, vars["id"], vars["memberId"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, project)
}
