package sessionhandler

import (
	"context"
	"log/slog"
	"net/http"

	"retailpos/internal/handlers/respond"
	"retailpos/internal/models"
	"retailpos/internal/session"
	"retailpos/pkg/lib/logger/sl"
)

type AuthService interface {
	Current() session.Session
	Login(ctx context.Context, creds models.Credentials) (session.Session, error)
	Logout(ctx context.Context) error
}

type Handler struct {
	log     *slog.Logger
	service AuthService
}

func New(log *slog.Logger, service AuthService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// View is what the till shows about the login. Token never leaves the process.
type View struct {
	Authenticated    bool         `json:"authenticated"`
	User             *models.User `json:"user,omitempty"`
	CanManageCatalog bool         `json:"canManageCatalog"`
	CanCheckout      bool         `json:"canCheckout"`
}

func viewOf(sess session.Session) View {
	v := View{
		Authenticated:    sess.Authenticated(),
		CanManageCatalog: sess.CanManageCatalog(),
		CanCheckout:      sess.CanCheckout(),
	}
	if user, ok := sess.User(); ok {
		v.User = &user
	}
	return v
}

// POST /session/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.Login"
	log := h.log.With("op", op)

	var creds models.Credentials
	if err := respond.Decode(r, &creds); err != nil {
		log.Error("Cannot unmarshal request body", sl.Err(err))
		http.Error(w, "Cannot unmarshal request body", http.StatusBadRequest)
		return
	}

	sess, err := h.service.Login(r.Context(), creds)
	if err != nil {
		respond.Error(w, log, err, "Login failed")
		return
	}

	respond.JSON(w, log, http.StatusOK, viewOf(sess))
}

// POST /session/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.Logout"
	log := h.log.With("op", op)

	if err := h.service.Logout(r.Context()); err != nil {
		respond.Error(w, log, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /session
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.Get"
	respond.JSON(w, h.log.With("op", op), http.StatusOK, viewOf(h.service.Current()))
}
