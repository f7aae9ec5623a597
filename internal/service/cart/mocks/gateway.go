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

func (m *Gateway) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Order), args.Error(1)
}

// Sessions always reports the same session.
type Sessions struct {
	Session session.Session
}

func (s Sessions) Current() session.Session {
	return s.Session
}
