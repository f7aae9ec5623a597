package mocks

import (
	"context"

	"retailpos/internal/models"

	"github.com/stretchr/testify/mock"
)

type Gateway struct {
	mock.Mock
}

func (m *Gateway) Login(ctx context.Context, creds models.Credentials) (models.LoginResult, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(models.LoginResult), args.Error(1)
}
