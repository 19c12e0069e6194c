// Package enginetest provides testify mocks of the engine interfaces.
package enginetest

import (
	"github.com/Brownie44l1/densenet-classify/internal/engine"
	"github.com/Brownie44l1/densenet-classify/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Name() string {
	return "mock"
}

func (m *MockEngine) Build(modelData []byte) (engine.Session, error) {
	args := m.Called(modelData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(engine.Session), args.Error(1)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) SetInput(t model.Tensor) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *MockSession) Run() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSession) Output() ([]float32, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// NewFixedSession returns a session that accepts any input and yields
// output. Close is expected exactly once.
func NewFixedSession(output []float32) *MockSession {
	s := new(MockSession)
	s.On("SetInput", mock.AnythingOfType("model.Tensor")).Return(nil)
	s.On("Run").Return(nil)
	s.On("Output").Return(output, nil)
	s.On("Close").Return(nil).Once()
	return s
}
