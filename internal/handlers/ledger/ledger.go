package ledgerhandler

import (
	"context"
	"log/slog"
	"net/http"

	"retailpos/internal/handlers/respond"
	"retailpos/internal/models"
)

type LedgerService interface {
	Refresh(ctx context.Context, staffName string) ([]models.Order, error)
}

type Handler struct {
	log     *slog.Logger
	service LedgerService
}

func New(log *slog.Logger, service LedgerService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// GET /orders?user=
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ledger.ListOrders"
	log := h.log.With("op", op)

	orders, err := h.service.Refresh(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		respond.Error(w, log, err, "Failed to fetch orders")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	respond.JSON(w, log, http.StatusOK, orders)
}
