package carthandler

import (
	"context"
	"log/slog"
	"net/http"

	"retailpos/internal/handlers/respond"
	"retailpos/internal/models"
	"retailpos/internal/service/confirm"
	"retailpos/pkg/lib/logger/sl"

	"github.com/shopspring/decimal"
)

type CartService interface {
	Lines() []models.CartLine
	Total() decimal.Decimal
	AddToCart(product models.Product) (models.CartLine, error)
	RemoveFromCart(productId string) error
	ClearCart(ctx context.Context, confirmer confirm.Confirmer) error
	ConfirmOrder(ctx context.Context, cashReceived decimal.Decimal) (models.Order, error)
}

// ProductFinder resolves a product id against the catalog on display.
type ProductFinder interface {
	Product(id string) (models.Product, bool)
}

type Handler struct {
	log      *slog.Logger
	service  CartService
	products ProductFinder
}

func New(log *slog.Logger, service CartService, products ProductFinder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		products: products,
	}
}

type View struct {
	Items []models.CartLine `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

type addRequest struct {
	ProductId string `json:"productId"`
}

type checkoutRequest struct {
	CashReceived decimal.Decimal `json:"cashReceived"`
}

// GET /cart
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.ViewCart"
	respond.JSON(w, h.log.With("op", op), http.StatusOK, h.view())
}

// POST /cart/items
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.AddToCart"
	log := h.log.With("op", op)

	var req addRequest
	if err := respond.Decode(r, &req); err != nil {
		log.Error("Cannot unmarshal request body", sl.Err(err))
		http.Error(w, "Cannot unmarshal request body", http.StatusBadRequest)
		return
	}
	if req.ProductId == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}

	product, ok := h.products.Product(req.ProductId)
	if !ok {
		log.Warn("Product not in catalog", slog.String("product", req.ProductId))
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	line, err := h.service.AddToCart(product)
	if err != nil {
		respond.Error(w, log, err, "Failed to add to cart")
		return
	}

	respond.JSON(w, log, http.StatusOK, line)
}

// DELETE /cart/items/{productId}
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, productId string) {
	const op = "handlers.cart.RemoveFromCart"
	log := h.log.With("op", op, slog.String("product", productId))

	if err := h.service.RemoveFromCart(productId); err != nil {
		respond.Error(w, log, err, "Item not in cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /cart?confirm=true
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.ClearCart"
	log := h.log.With("op", op)

	if err := h.service.ClearCart(r.Context(), respond.Confirmed(r)); err != nil {
		respond.Error(w, log, err, "Failed to clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /cart/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.Checkout"
	log := h.log.With("op", op)

	var req checkoutRequest
	if err := respond.Decode(r, &req); err != nil {
		log.Error("Cannot unmarshal request body", sl.Err(err))
		http.Error(w, "Cannot unmarshal request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.ConfirmOrder(r.Context(), req.CashReceived)
	if err != nil {
		respond.Error(w, log, err, "Failed to place order")
		return
	}

	respond.JSON(w, log, http.StatusCreated, order)
}

func (h *Handler) view() View {
	items := h.service.Lines()
	if items == nil {
		items = []models.CartLine{}
	}
	return View{Items: items, Total: h.service.Total()}
}
