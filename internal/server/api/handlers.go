package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/teaisforme/teataster/internal/common"
	"github.com/teaisforme/teataster/internal/server/models"
)

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is the shape the client stores in its vault.
type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user := &models.User{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}
	created, token, err := h.users.Register(r.Context(), user, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{User: created, Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

// logout exists so clients have a definite end-of-session call. Tokens are
// stateless, so there is nothing to revoke server-side.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.notes.Categories(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if cats == nil {
		cats = []models.TeaCategory{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user")
		return
	}

	items, err := h.notes.List(r.Context(), userID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if items == nil {
		items = []models.TastingNote{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad note id")
		return
	}

	note, err := h.notes.Get(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "no such note")
			return
		}
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) saveNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user")
		return
	}

	var note models.TastingNote
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	note.UserID = userID

	saved, err := h.notes.Save(r.Context(), &note)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "no such note")
			return
		}
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad note id")
		return
	}

	if err := h.notes.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "no such note")
			return
		}
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
