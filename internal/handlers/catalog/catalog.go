package cataloghandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"retailpos/internal/handlers/respond"
	"retailpos/internal/models"
	serviceerrors "retailpos/internal/service"
	"retailpos/internal/service/confirm"
	"retailpos/pkg/lib/logger/sl"
)

type CatalogService interface {
	Refresh(ctx context.Context) ([]models.Product, error)
	Products(category string) []models.Product
	Categories() []string
	AddCategory(ctx context.Context, name string) (models.Category, error)
	AddProduct(ctx context.Context, input models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error)
	DeleteProduct(ctx context.Context, id string, confirmer confirm.Confirmer) error
}

type Handler struct {
	log     *slog.Logger
	service CatalogService
}

func New(log *slog.Logger, service CatalogService) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// GET /products?category=&refresh=
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.ListProducts"
	log := h.log.With("op", op)

	query := r.URL.Query()
	if refresh, _ := strconv.ParseBool(query.Get("refresh")); refresh {
		if _, err := h.service.Refresh(r.Context()); err != nil {
			respond.Error(w, log, err, "Failed to fetch products")
			return
		}
	}

	respond.JSON(w, log, http.StatusOK, h.service.Products(query.Get("category")))
}

// GET /categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.ListCategories"
	respond.JSON(w, h.log.With("op", op), http.StatusOK, h.service.Categories())
}

// POST /categories
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.AddCategory"
	log := h.log.With("op", op)

	var category models.Category
	if err := respond.Decode(r, &category); err != nil {
		log.Error("Cannot unmarshal request body", sl.Err(err))
		http.Error(w, "Cannot unmarshal request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.AddCategory(r.Context(), category.Name)
	if err != nil {
		respond.Error(w, log, err, "Failed to add category")
		return
	}

	respond.JSON(w, log, http.StatusCreated, created)
}

// POST /products
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.AddProduct"
	log := h.log.With("op", op)

	var input models.ProductInput
	if err := respond.Decode(r, &input); err != nil {
		log.Error("Cannot unmarshal request body", sl.Err(err))
		http.Error(w, "Cannot unmarshal request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.AddProduct(r.Context(), input)
	if err != nil {
		fallback := "Failed to add product"
		if errors.Is(err, serviceerrors.ErrCategoryNotCreated) {
			fallback = "Failed to add category"
		}
		respond.Error(w, log, err, fallback)
		return
	}

	respond.JSON(w, log, http.StatusCreated, created)
}

// PUT /products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, id string) {
	const op = "handlers.catalog.UpdateProduct"
	log := h.log.With("op", op, slog.String("product", id))

	var patch models.ProductPatch
	if err := respond.Decode(r, &patch); err != nil {
		log.Error("Cannot unmarshal request body", sl.Err(err))
		http.Error(w, "Cannot unmarshal request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		respond.Error(w, log, err, "Failed to update product")
		return
	}

	respond.JSON(w, log, http.StatusOK, updated)
}

// DELETE /products/{id}?confirm=true
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, id string) {
	const op = "handlers.catalog.DeleteProduct"
	log := h.log.With("op", op, slog.String("product", id))

	if err := h.service.DeleteProduct(r.Context(), id, respond.Confirmed(r)); err != nil {
		respond.Error(w, log, err, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
