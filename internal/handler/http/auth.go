package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/validator"
	userservice "github.com/cmlabs-hris/attendance-go/internal/service/user"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	userService *userservice.Service
	jwtService  jwt.Service
}

func NewAuthHandler(userService *userservice.Service, jwtService jwt.Service) AuthHandler {
	return &authHandlerImpl{userService: userService, jwtService: jwtService}
}

type registerRequest struct {
	UID        string `json:"uid"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// Register implements AuthHandler.
func (h *authHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "invalid request body")
		return
	}
	if validator.IsEmpty(req.UID) || validator.IsEmpty(req.Password) {
		response.BadRequest(w, "uid and password are required")
		return
	}

	created, err := h.userService.Register(r.Context(), userservice.RegisterInput{
		UID:        req.UID,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Position:   req.Position,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, created)
}

type loginRequest struct {
	UID      string `json:"uid"`
	Password string `json:"password"`
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "invalid request body")
		return
	}
	if validator.IsEmpty(req.UID) || validator.IsEmpty(req.Password) {
		response.BadRequest(w, "uid and password are required")
		return
	}

	u, err := h.userService.Authenticate(r.Context(), req.UID, req.Password)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	accessToken, expiresAt, err := h.jwtService.GenerateAccessToken(u.UID, u.IsAdmin)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	refreshToken, _, err := h.jwtService.GenerateRefreshToken(u.UID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, h.jwtService.RefreshTokenCookie(refreshToken, expiresAt))
	response.Success(w, map[string]interface{}{
		"accessToken": accessToken,
		"expiresAt":   expiresAt,
		"user":        u,
	})
}

// Logout implements AuthHandler. Revokes the bearer token presented on
// this request so AuthRequired rejects any further use of it.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if raw := middleware.BearerToken(r); raw != "" {
		h.jwtService.RevokeToken(raw)
	}
	response.Success(w, map[string]interface{}{"loggedOut": true})
}
