package catalogservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"retailpos/internal/models"
	serviceerrors "retailpos/internal/service"
	"retailpos/internal/service/confirm"
	"retailpos/pkg/lib/logger/sl"
	"retailpos/pkg/lib/validate"
)

type ProductGateway interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, input models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, name string) (models.Category, error)
}

// CatalogService caches the product list for the current view. The cache is
// only ever replaced by a full refresh, never patched locally.
type CatalogService struct {
	log     *slog.Logger
	gateway ProductGateway

	mu       sync.RWMutex
	products []models.Product
	// categories created since the last refresh that no product carries yet
	created []string
}

func New(log *slog.Logger, gateway ProductGateway) *CatalogService {
	return &CatalogService{
		log:     log,
		gateway: gateway,
	}
}

func (c *CatalogService) Refresh(ctx context.Context) ([]models.Product, error) {
	const op = "service.catalog.Refresh"
	log := c.log.With("op", op)

	if mapped := serviceerrors.FromContext(ctx.Err()); mapped != nil {
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	products, err := c.gateway.ListProducts(ctx)
	if err != nil {
		return nil, c.fail(log, op, err, "Failed to fetch products")
	}

	c.mu.Lock()
	c.products = products
	c.created = nil
	c.mu.Unlock()

	log.Debug("Catalog refreshed", slog.Int("products", len(products)))

	return c.Products(""), nil
}

// Products returns the cached products, narrowed to category unless it is empty.
func (c *CatalogService) Products(category string) []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Product looks a cached product up by id.
func (c *CatalogService) Product(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.Id == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Categories is derived on every call: each distinct non-empty product
// category once, in first-seen order, then categories added since the
// last refresh.
func (c *CatalogService) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return DistinctCategories(c.products, c.created...)
}

func DistinctCategories(products []models.Product, extra ...string) []string {
	seen := make(map[string]struct{}, len(products)+len(extra))
	out := make([]string, 0)

	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, p := range products {
		add(p.Category)
	}
	for _, name := range extra {
		add(name)
	}
	return out
}

// AddCategory creates name on the server. The name the server echoes back
// is the one kept.
func (c *CatalogService) AddCategory(ctx context.Context, name string) (models.Category, error) {
	const op = "service.catalog.AddCategory"
	log := c.log.With("op", op)

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, fmt.Errorf("%s: %w", op, serviceerrors.Invalid("Please enter a new category"))
	}

	if mapped := serviceerrors.FromContext(ctx.Err()); mapped != nil {
		log.Warn("Context is over", sl.Err(ctx.Err()))
		return models.Category{}, fmt.Errorf("%s: %w", op, mapped)
	}

	created, err := c.gateway.CreateCategory(ctx, name)
	if err != nil {
		return models.Category{}, c.fail(log, op, err, "Failed to add category")
	}
	if created.Name == "" {
		created.Name = name
	}

	c.mu.Lock()
	c.created = append(c.created, created.Name)
	c.mu.Unlock()

	log.Info("Category added", slog.String("category", created.Name))

	return created, nil
}

// AddProduct creates a product, first creating input.NewCategory when set,
// and refreshes the cache once the server has accepted it.
func (c *CatalogService) AddProduct(ctx context.Context, input models.ProductInput) (models.Product, error) {
	const op = "service.catalog.AddProduct"
	log := c.log.With("op", op)

	input.Name = strings.TrimSpace(input.Name)
	input.NewCategory = strings.TrimSpace(input.NewCategory)

	if err := validate.Struct(input); err != nil {
		log.Warn("Invalid product", sl.Err(err))
		return models.Product{}, fmt.Errorf("%s: %w", op, serviceerrors.Invalid("Please fill all fields"))
	}

	if input.NewCategory != "" {
		category, err := c.AddCategory(ctx, input.NewCategory)
		if err != nil {
			return models.Product{}, fmt.Errorf("%s: %w: %w", op, serviceerrors.ErrCategoryNotCreated, err)
		}
		input.Category = category.Name
		input.NewCategory = ""
	}

	created, err := c.gateway.CreateProduct(ctx, input)
	if err != nil {
		return models.Product{}, c.fail(log, op, err, "Failed to add product")
	}

	log.Info("Product added", slog.String("product", created.Id), slog.String("name", created.Name))

	c.refreshAfterWrite(ctx, log)

	return created, nil
}

func (c *CatalogService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	const op = "service.catalog.UpdateProduct"
	log := c.log.With("op", op, slog.String("product", id))

	if id == "" {
		return models.Product{}, fmt.Errorf("%s: %w", op, serviceerrors.Invalid("Product id is required"))
	}
	if err := validate.Struct(patch); err != nil {
		log.Warn("Invalid product patch", sl.Err(err))
		return models.Product{}, fmt.Errorf("%s: %w", op, serviceerrors.Invalid("Name must not be blank; price and stock must not be negative"))
	}

	updated, err := c.gateway.UpdateProduct(ctx, id, patch)
	if err != nil {
		return models.Product{}, c.fail(log, op, err, "Failed to update product")
	}

	log.Info("Product updated")

	c.refreshAfterWrite(ctx, log)

	return updated, nil
}

// DeleteProduct removes a product once confirmer agrees.
func (c *CatalogService) DeleteProduct(ctx context.Context, id string, confirmer confirm.Confirmer) error {
	const op = "service.catalog.DeleteProduct"
	log := c.log.With("op", op, slog.String("product", id))

	if id == "" {
		return fmt.Errorf("%s: %w", op, serviceerrors.Invalid("Product id is required"))
	}

	prompt := "Delete this product?"
	if p, ok := c.Product(id); ok {
		prompt = fmt.Sprintf("Delete %q?", p.Name)
	}
	if !confirmer.Confirm(ctx, prompt) {
		return fmt.Errorf("%s: %w", op, serviceerrors.ErrNotConfirmed)
	}

	if err := c.gateway.DeleteProduct(ctx, id); err != nil {
		return c.fail(log, op, err, "Failed to delete product")
	}

	log.Info("Product deleted")

	c.refreshAfterWrite(ctx, log)

	return nil
}

// refreshAfterWrite reloads the cache after an accepted write. The write
// itself already succeeded, so a failed reload is only logged; the stale
// cache stays until the next refresh.
func (c *CatalogService) refreshAfterWrite(ctx context.Context, log *slog.Logger) {
	if _, err := c.Refresh(ctx); err != nil {
		log.Warn("Catalog not refreshed after write", sl.Err(err))
	}
}

func (c *CatalogService) fail(log *slog.Logger, op string, err error, msg string) error {
	if mapped := serviceerrors.FromContext(err); mapped != nil {
		log.Warn("Request abandoned", sl.Err(err))
		return fmt.Errorf("%s: %w", op, mapped)
	}
	log.Error(msg, sl.Err(err))
	return fmt.Errorf("%s: %w", op, err)
}
