package cartservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"retailpos/internal/models"
	serviceerrors "retailpos/internal/service"
	"retailpos/internal/service/confirm"
	"retailpos/internal/session"
	"retailpos/pkg/lib/logger/sl"
	"retailpos/pkg/lib/validate"

	"github.com/shopspring/decimal"
)

type OrderGateway interface {
	PlaceOrder(ctx context.Context, req models.OrderRequest) (models.Order, error)
}

type SessionSource interface {
	Current() session.Session
}

// CartService is the till's checkout cart. Lines live in memory only and
// keep the order in which products were first added.
type CartService struct {
	log      *slog.Logger
	gateway  OrderGateway
	sessions SessionSource

	mu    sync.Mutex
	lines []models.CartLine
	// set while an order is being submitted; the cart is frozen meanwhile
	submitting bool
}

func New(log *slog.Logger, gateway OrderGateway, sessions SessionSource) *CartService {
	return &CartService{
		log:      log,
		gateway:  gateway,
		sessions: sessions,
	}
}

// AddToCart bumps the line for product by one, or appends a new line.
// Stock is not checked here; the API decides.
func (c *CartService) AddToCart(product models.Product) (models.CartLine, error) {
	const op = "service.cart.AddToCart"
	log := c.log.With("op", op)

	if product.Id == "" {
		log.Warn("Product without id")
		return models.CartLine{}, fmt.Errorf("%s: %w", op, serviceerrors.Invalid("Product id is required"))
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return models.CartLine{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrInProgress)
	}

	for i := range c.lines {
		if c.lines[i].Product.Id == product.Id {
			c.lines[i].Quantity++
			return c.lines[i], nil
		}
	}

	line := models.CartLine{Product: product, Quantity: 1}
	c.lines = append(c.lines, line)
	log.Debug("Line added", slog.String("product", product.Id))

	return line, nil
}

// RemoveFromCart drops the whole line, whatever its quantity.
func (c *CartService) RemoveFromCart(productId string) error {
	const op = "service.cart.RemoveFromCart"

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return fmt.Errorf("%s: %w", op, serviceerrors.ErrInProgress)
	}

	for i := range c.lines {
		if c.lines[i].Product.Id == productId {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}

	c.log.With("op", op).Warn("Line not in cart", slog.String("product", productId))
	return fmt.Errorf("%s: %w", op, serviceerrors.ErrNotFound)
}

// ClearCart empties the cart once confirmer agrees.
func (c *CartService) ClearCart(ctx context.Context, confirmer confirm.Confirmer) error {
	const op = "service.cart.ClearCart"

	if !confirmer.Confirm(ctx, "Clear all items from the cart?") {
		return fmt.Errorf("%s: %w", op, serviceerrors.ErrNotConfirmed)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return fmt.Errorf("%s: %w", op, serviceerrors.ErrInProgress)
	}
	c.lines = nil

	return nil
}

// Reset drops every line without asking. Used when the cashier logs out.
func (c *CartService) Reset() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

func (c *CartService) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]models.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *CartService) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return total(c.lines)
}

func total(lines []models.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// ConfirmOrder submits the cart as an order paid with cashReceived. On
// success the cart is emptied and the server's order, change included, is
// returned. On any failure the cart is left as it was.
func (c *CartService) ConfirmOrder(ctx context.Context, cashReceived decimal.Decimal) (models.Order, error) {
	const op = "service.cart.ConfirmOrder"
	log := c.log.With("op", op)

	lines, ok := c.freeze()
	if !ok {
		log.Warn("Checkout already pending")
		return models.Order{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrInProgress)
	}
	defer c.unfreeze()

	if mapped := serviceerrors.FromContext(ctx.Err()); mapped != nil {
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.Order{}, fmt.Errorf("%s: %w", op, mapped)
	}

	sess := c.sessions.Current()
	if !sess.Authenticated() {
		return models.Order{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrAnonymous)
	}
	if !sess.CanCheckout() {
		return models.Order{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrForbidden)
	}

	sum := total(lines)

	if len(lines) == 0 {
		return models.Order{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrEmptyCart)
	}
	if err := validate.Struct(models.Payment{CashReceived: cashReceived}); err != nil {
		log.Warn("Invalid payment", sl.Err(err))
		return models.Order{}, fmt.Errorf("%s: %w", op, serviceerrors.Invalid("Cash received must not be negative"))
	}
	if cashReceived.LessThan(sum) {
		log.Info("Not enough cash", slog.String("total", sum.String()), slog.String("cash", cashReceived.String()))
		return models.Order{}, fmt.Errorf("%s: %w", op, serviceerrors.ErrInsufficientCash)
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			Name:     l.Product.Name,
			Price:    l.Product.Price,
			Quantity: l.Quantity,
		})
	}

	req := models.OrderRequest{
		Items:        items,
		Total:        sum,
		User:         sess.UserName(),
		CashReceived: cashReceived,
	}

	placed, err := c.gateway.PlaceOrder(ctx, req)
	if err != nil {
		if mapped := serviceerrors.FromContext(err); mapped != nil {
			log.Warn("Checkout abandoned", sl.Err(err))
			return models.Order{}, fmt.Errorf("%s: %w", op, mapped)
		}
		log.Error("Failed to place order", sl.Err(err))
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	receipt := fillReceipt(placed, req)

	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()

	log.Info("Order placed",
		slog.String("user", req.User),
		slog.String("total", receipt.Total.String()),
		slog.String("change", receipt.Change.String()),
	)

	return receipt, nil
}

// freeze marks a checkout as pending and snapshots the lines it covers.
func (c *CartService) freeze() ([]models.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return nil, false
	}
	c.submitting = true

	lines := make([]models.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines, true
}

func (c *CartService) unfreeze() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

// fillReceipt completes the server's answer with what was submitted. The
// server's change wins; it is only derived locally when the answer has none.
func fillReceipt(placed models.Order, req models.OrderRequest) models.Order {
	if placed.User == "" {
		placed.User = req.User
	}
	if len(placed.Items) == 0 {
		placed.Items = req.Items
	}
	if placed.Total.IsZero() {
		placed.Total = req.Total
	}
	if placed.CashReceived.IsZero() {
		placed.CashReceived = req.CashReceived
	}
	if placed.Change == nil {
		change := req.CashReceived.Sub(req.Total)
		placed.Change = &change
	}
	return placed
}
