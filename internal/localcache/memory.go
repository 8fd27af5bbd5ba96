package localcache

import (
	"context"
	"sync"

	"github.com/sculptbody/cierre-backend/internal/entity"
)

// Memory is an in-memory Store for tests.
type Memory struct {
	mu      sync.Mutex
	reports []entity.SalesReport
}

func NewMemory(seed ...entity.SalesReport) *Memory {
	return &Memory{reports: append([]entity.SalesReport{}, seed...)}
}

func (m *Memory) Read(_ context.Context) ([]entity.SalesReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.SalesReport{}, m.reports...), nil
}

func (m *Memory) Write(_ context.Context, reports []entity.SalesReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append([]entity.SalesReport{}, reports...)
	return nil
}
