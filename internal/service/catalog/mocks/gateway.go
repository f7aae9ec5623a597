package mocks

import (
	"context"

	"retailpos/internal/models"

	"github.com/stretchr/testify/mock"
)

type Gateway struct {
	mock.Mock
}

func (m *Gateway) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *Gateway) CreateProduct(ctx context.Context, input models.ProductInput) (models.Product, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Product), args.Error(1)
}
func (m *Gateway) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Product), args.Error(1)
}
func (m *Gateway) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *Gateway) CreateCategory(ctx context.Context, name string) (models.Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.Category), args.Error(1)
}
