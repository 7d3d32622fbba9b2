package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/clientsession/pkg/session"
)

// MockTransport is a mock implementation of session.Transport.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Get(ctx context.Context, url string, opts session.RequestOptions) (*session.Response, error) {
	args := m.Called(ctx, url, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Response), args.Error(1)
}

func (m *MockTransport) Post(ctx context.Context, url string, data any, opts session.RequestOptions) (*session.Response, error) {
	args := m.Called(ctx, url, data, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Response), args.Error(1)
}

// MockNavigator is a mock implementation of session.Navigator.
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) Navigate(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}
