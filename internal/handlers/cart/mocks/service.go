package mocks

import (
	"context"

	"retailpos/internal/models"
	"retailpos/internal/service/confirm"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Lines() []models.CartLine {
	args := m.Called()
	return args.Get(0).([]models.CartLine)
}

func (m *Service) Total() decimal.Decimal {
	args := m.Called()
	return args.Get(0).(decimal.Decimal)
}

func (m *Service) AddToCart(product models.Product) (models.CartLine, error) {
	args := m.Called(product)
	return args.Get(0).(models.CartLine), args.Error(1)
}

func (m *Service) RemoveFromCart(productId string) error {
	args := m.Called(productId)
	return args.Error(0)
}

func (m *Service) ClearCart(ctx context.Context, confirmer confirm.Confirmer) error {
	args := m.Called(ctx, confirmer)
	return args.Error(0)
}

func (m *Service) ConfirmOrder(ctx context.Context, cashReceived decimal.Decimal) (models.Order, error) {
	args := m.Called(ctx, cashReceived)
	return args.Get(0).(models.Order), args.Error(1)
}

// Products is a fixed catalog keyed by id.
type Products map[string]models.Product

func (p Products) Product(id string) (models.Product, bool) {
	product, ok := p[id]
	return product, ok
}
