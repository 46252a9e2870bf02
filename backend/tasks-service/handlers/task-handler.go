package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskboard/backend/tasks-service/models"
	"taskboard/backend/tasks-service/services"
	"taskboard/backend/utils"
)

type TaskHandler struct {
	service  *services.TaskService
	identity *utils.IdentityExtractor
}

func NewTaskHandler(service *services.TaskService, identity *utils.IdentityExtractor) *TaskHandler {
	return &TaskHandler{service: service, identity: identity}
}

// Register mounts the /tasks routes on r.
func (h *TaskHandler) Register(r *mux.Router) {
	r.HandleFunc("/tasks", h.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/project/{projectId}", h.ListProjectTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", h.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", h.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id}", h.DeleteTask).Methods(http.MethodDelete)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req models.CreateTaskRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), caller, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) ListProjectTasks(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	filter := models.TaskFilter{
		Status:     models.TaskStatus(q.Get("status")),
		Priority:   models.TaskPriority(q.Get("priority")),
		AssignedTo: q.Get("assignedTo"),
		Search:     q.Get("search"),
	}

	tasks, err := h.service.ListProjectTasks(r.Context(), caller, mux.Vars(r)["projectId"], filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	task, err := h.service.GetTask(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req models.UpdateTaskRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), caller, mux.Vars(r)["id"], req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, err := h.identity.Extract(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	task, err := h.service.DeleteTask(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, task)
}
