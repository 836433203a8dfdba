package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"geo_hierarchy/logger"
	"geo_hierarchy/middleware"
	"geo_hierarchy/models"
	"geo_hierarchy/users"
	"geo_hierarchy/utils"
)

const loginCodeLength = 4

type RegisterRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Role string `json:"role"`
}

type LoginRequest struct {
	Code string `json:"code"`
	Role string `json:"role"`
}

// AuthHandler registers users, issues tokens and lists the user directory.
type AuthHandler struct {
	users users.Store
	auth  *middleware.Auth
}

func NewAuthHandler(store users.Store, auth *middleware.Auth) *AuthHandler {
	return &AuthHandler{users: store, auth: auth}
}

func (h *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/register-user", h.RegisterUser).Methods(http.MethodPost)
	r.HandleFunc("/register-admin", h.RegisterAdmin).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	r.Handle("/all-users", h.auth.Authenticate(adminOnly(http.HandlerFunc(h.GetAllUsers)))).Methods(http.MethodGet)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return false
	}
	return true
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name, req.Code, req.Role = strings.TrimSpace(req.Name), strings.TrimSpace(req.Code), strings.TrimSpace(req.Role)

	if req.Name == "" || req.Code == "" || req.Role == "" {
		utils.WriteMessage(w, http.StatusBadRequest, false, "All fields are required")
		return
	}
	if !models.ValidRole(req.Role) {
		utils.WriteMessage(w, http.StatusBadRequest, false, "Invalid role")
		return
	}
	h.create(w, r, &models.User{Name: req.Name, Code: req.Code, Role: req.Role}, "User registered successfully")
}

func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name, req.Code = strings.TrimSpace(req.Name), strings.TrimSpace(req.Code)

	if req.Code == "" {
		utils.WriteMessage(w, http.StatusBadRequest, false, "Code is required")
		return
	}
	if req.Name == "" {
		req.Name = "Admin"
	}
	h.create(w, r, &models.User{Name: req.Name, Code: req.Code, Role: models.RoleAdmin}, "Admin registered successfully")
}

func (h *AuthHandler) create(w http.ResponseWriter, r *http.Request, u *models.User, msg string) {
	err := h.users.Create(r.Context(), u)
	switch {
	case errors.Is(err, users.ErrDuplicateCode):
		utils.WriteMessage(w, http.StatusBadRequest, false, "User with this code already exists")
		return
	case err != nil:
		serverError(w, r, "error creating user", err)
		return
	}

	logger.Log.Infow("user registered", "id", u.ID, "role", u.Role)
	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": msg,
		"data":    map[string]any{"user": u},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Code, req.Role = strings.TrimSpace(req.Code), strings.TrimSpace(req.Role)

	if req.Code == "" || req.Role == "" {
		utils.WriteMessage(w, http.StatusBadRequest, false, "All fields are required")
		return
	}
	if len(req.Code) != loginCodeLength {
		utils.WriteMessage(w, http.StatusBadRequest, false, "Code must be 4 characters long")
		return
	}

	u, err := h.users.FindByCodeRole(r.Context(), req.Code, req.Role)
	switch {
	case errors.Is(err, users.ErrNotFound):
		utils.WriteMessage(w, http.StatusUnauthorized, false, "User Not found")
		return
	case err != nil:
		serverError(w, r, "error finding user", err)
		return
	}

	token, err := h.auth.Issue(u)
	if err != nil {
		serverError(w, r, "error issuing token", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login Successful",
		"data":    map[string]any{"token": token, "user": u},
	})
}

func (h *AuthHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		serverError(w, r, "error listing users", err)
		return
	}
	if len(list) == 0 {
		utils.WriteMessage(w, http.StatusNotFound, false, "No users found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": list})
}
