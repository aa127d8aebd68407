package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/chat"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/pkg/httputils"
)

// maxUploadMemory bounds the in-memory part of a multipart send.
const maxUploadMemory = 32 << 20

type ChatHandler struct {
	composer *chat.Composer
	deleter  *chat.Deleter
}

func NewChatHandler(composer *chat.Composer, deleter *chat.Deleter) *ChatHandler {
	return &ChatHandler{composer: composer, deleter: deleter}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/send", h.send).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/delete", h.deleteOne).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/delete-all", h.deleteAll).Methods("POST", "OPTIONS")
}

// send accepts a multipart form with a text field and an optional file
// part. Validation failures and backend errors reach the user as
// notices over the relay, not as HTTP errors, so the response is a
// plain accepted.
func (h *ChatHandler) send(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	text := r.FormValue("text")

	var file *chat.File
	part, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer part.Close()
		file = &chat.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        part,
		}
	case errors.Is(err, http.ErrMissingFile):
		// Text-only send.
	default:
		httputils.ResponseError(w, http.StatusBadRequest, "invalid file part")
		return
	}

	h.composer.Send(r.Context(), text, file)
	httputils.ResponseJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

type deleteRequest struct {
	ID      string `json:"id"`
	FileURL string `json:"fileUrl,omitempty"`
}

// deleteOne removes a single message. The browser modal is the
// confirmation step, so the coordinator runs with auto-approval here.
func (h *ChatHandler) deleteOne(w http.ResponseWriter, r *http.Request) {
	var request deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if request.ID == "" {
		httputils.ResponseError(w, http.StatusBadRequest, "message id is required")
		return
	}

	h.deleter.DeleteOne(r.Context(), request.ID, request.FileURL)
	httputils.ResponseJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *ChatHandler) deleteAll(w http.ResponseWriter, r *http.Request) {
	h.deleter.DeleteAll(r.Context())
	httputils.ResponseJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
