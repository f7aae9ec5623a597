package mocks

import (
	"context"

	"retailpos/internal/models"
	"retailpos/internal/session"

	"github.com/stretchr/testify/mock"
)

type Gateway struct {
	mock.Mock
}

func (m *Gateway) ListOrders(ctx context.Context, staffName string) ([]models.Order, error) {
	args := m.Called(ctx, staffName)
	return args.Get(0).([]models.Order), args.Error(1)
}

type Sessions struct {
	Session session.Session
}

func (s Sessions) Current() session.Session {
	return s.Session
}
