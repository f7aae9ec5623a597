package mocks

import (
	"context"

	"retailpos/internal/models"
	"retailpos/internal/session"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Current() session.Session {
	args := m.Called()
	return args.Get(0).(session.Session)
}

func (m *Service) Login(ctx context.Context, creds models.Credentials) (session.Session, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *Service) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
