package ledgerservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"retailpos/internal/models"
	serviceerrors "retailpos/internal/service"
	"retailpos/internal/session"
	"retailpos/pkg/lib/logger/sl"
)

type OrderGateway interface {
	ListOrders(ctx context.Context, staffName string) ([]models.Order, error)
}

type SessionSource interface {
	Current() session.Session
}

// LedgerService is the admin's read-only view of submitted orders.
type LedgerService struct {
	log      *slog.Logger
	gateway  OrderGateway
	sessions SessionSource

	mu     sync.RWMutex
	orders []models.Order
	filter string
}

func New(log *slog.Logger, gateway OrderGateway, sessions SessionSource) *LedgerService {
	return &LedgerService{
		log:      log,
		gateway:  gateway,
		sessions: sessions,
	}
}

// Refresh replaces the displayed orders with the server's, narrowed to one
// staff member when staffName is not blank.
func (l *LedgerService) Refresh(ctx context.Context, staffName string) ([]models.Order, error) {
	const op = "service.ledger.Refresh"
	log := l.log.With("op", op)

	sess := l.sessions.Current()
	if !sess.Authenticated() {
		return nil, fmt.Errorf("%s: %w", op, serviceerrors.ErrAnonymous)
	}
	if !sess.CanManageCatalog() {
		return nil, fmt.Errorf("%s: %w", op, serviceerrors.ErrForbidden)
	}

	if mapped := serviceerrors.FromContext(ctx.Err()); mapped != nil {
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	staffName = strings.TrimSpace(staffName)

	orders, err := l.gateway.ListOrders(ctx, staffName)
	if err != nil {
		if mapped := serviceerrors.FromContext(err); mapped != nil {
			log.Warn("Request abandoned", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, mapped)
		}
		log.Error("Failed to fetch orders", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	l.mu.Lock()
	l.orders = orders
	l.filter = staffName
	l.mu.Unlock()

	log.Debug("Ledger refreshed", slog.Int("orders", len(orders)), slog.String("user", staffName))

	return l.Orders(), nil
}

// Orders returns the list loaded by the last successful Refresh.
func (l *LedgerService) Orders() []models.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// Filter is the staff name the current list was loaded for.
func (l *LedgerService) Filter() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filter
}

// Reset forgets the loaded orders, e.g. when the admin logs out.
func (l *LedgerService) Reset() {
	l.mu.Lock()
	l.orders = nil
	l.filter = ""
	l.mu.Unlock()
}
