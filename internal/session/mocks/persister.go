package mocks

import (
	"context"

	"retailpos/internal/session"

	"github.com/stretchr/testify/mock"
)

type Persister struct {
	mock.Mock
}

func (m *Persister) Load(ctx context.Context) (session.State, error) {
	args := m.Called(ctx)
	return args.Get(0).(session.State), args.Error(1)
}
func (m *Persister) Save(ctx context.Context, state session.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}
func (m *Persister) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
