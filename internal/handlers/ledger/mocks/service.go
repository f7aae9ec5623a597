package mocks

import (
	"context"

	"retailpos/internal/models"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Refresh(ctx context.Context, staffName string) ([]models.Order, error) {
	args := m.Called(ctx, staffName)
	return args.Get(0).([]models.Order), args.Error(1)
}
