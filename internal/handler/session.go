package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/pkg/httputils"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/session"
)

type SessionHandler struct {
	session *session.Session
}

func NewSessionHandler(sess *session.Session) *SessionHandler {
	return &SessionHandler{session: sess}
}

func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/login", h.login).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/logout", h.logout).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/me", h.me).Methods("GET", "OPTIONS")
}

type loginRequest struct {
	Username string `json:"username"`
}

type identityResponse struct {
	Username string `json:"username"`
}

func (h *SessionHandler) login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if err := h.session.Login(request.Username); err != nil {
		if errors.Is(err, session.ErrEmptyName) {
			httputils.ResponseError(w, http.StatusBadRequest, "display name must not be empty")
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "failed to save display name")
		return
	}

	name, _ := h.session.Name()
	httputils.ResponseJSON(w, http.StatusOK, identityResponse{Username: name})
}

func (h *SessionHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(); err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "failed to clear display name")
		return
	}
	httputils.ResponseJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// me reports the stored identity so the shell can decide between the
// login view and the chat view.
func (h *SessionHandler) me(w http.ResponseWriter, r *http.Request) {
	name, ok := h.session.Name()
	if !ok {
		httputils.ResponseError(w, http.StatusNotFound, "no identity set")
		return
	}
	httputils.ResponseJSON(w, http.StatusOK, identityResponse{Username: name})
}
