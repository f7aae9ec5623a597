package mocks

import (
	"context"

	"retailpos/internal/models"
	"retailpos/internal/service/confirm"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Refresh(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *Service) Products(category string) []models.Product {
	args := m.Called(category)
	return args.Get(0).([]models.Product)
}

func (m *Service) Categories() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *Service) AddCategory(ctx context.Context, name string) (models.Category, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *Service) AddProduct(ctx context.Context, input models.ProductInput) (models.Product, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *Service) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *Service) DeleteProduct(ctx context.Context, id string, confirmer confirm.Confirmer) error {
	args := m.Called(ctx, id, confirmer)
	return args.Error(0)
}
