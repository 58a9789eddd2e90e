// Package mocks provides testify mocks of the managers.
package mocks

import (
	"code-atlas/internal/interfaces"

	"github.com/stretchr/testify/mock"
)

type MockDatabaseManager struct {
	mock.Mock
}

func (m *MockDatabaseManager) GetPool() interfaces.PgxPoolIface {
	args := m.Called()
	return args.Get(0).(interfaces.PgxPoolIface)
}
