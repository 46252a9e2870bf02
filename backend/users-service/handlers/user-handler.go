package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskboard/backend/users-service/models"
	"taskboard/backend/users-service/services"
	"taskboard/backend/utils"
)

type UserHandler struct {
	AuthService *services.AuthService
	Identity    *utils.IdentityExtractor
}

func NewUserHandler(authService *services.AuthService, identity *utils.IdentityExtractor) *UserHandler {
	return &UserHandler{AuthService: authService, Identity: identity}
}

// Register mounts the /auth routes on r.
func (h *UserHandler) Register(r *mux.Router) {
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.RegisterUser).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	auth.HandleFunc("/validate", h.Validate).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	auth.HandleFunc("/profile", h.Profile).Methods(http.MethodGet)
	auth.HandleFunc("/user/{id}", h.GetUser).Methods(http.MethodGet)
	auth.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
}

func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	resp, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// Validate always answers 200; the body says whether the token is valid.
func (h *UserHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusOK, models.VerifyResult{Valid: false})
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.AuthService.VerifyToken(r.Context(), req.Token))
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.BearerToken(r)
	if !ok {
		utils.WriteError(w, utils.NewUnauthorized("No token provided"))
		return
	}
	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.BearerToken(r)
	if !ok {
		utils.WriteError(w, utils.NewUnauthorized("No token provided"))
		return
	}
	user, err := h.AuthService.Profile(r.Context(), token)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Identity.Extract(r); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, err := h.AuthService.GetUserByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Identity.Extract(r); err != nil {
		utils.WriteError(w, err)
		return
	}

	users, err := h.AuthService.ListUsers(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}
