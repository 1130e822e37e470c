package adapters

import (
	"context"
	"sync"

	"finance_collector/internal/feature/companies/domain/entity"
	"finance_collector/internal/feature/companies/usecase"
)

// StatusMemory keeps the latest run summary in process memory.
// Redis が使えない場合のフォールバックで、再起動すると消えます。
type StatusMemory struct {
	mu   sync.RWMutex
	last *entity.RunSummary
}

var _ usecase.RunStatusStore = (*StatusMemory)(nil)

func NewStatusMemory() *StatusMemory {
	return &StatusMemory{}
}

func (m *StatusMemory) SaveLastRun(ctx context.Context, s entity.RunSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Groups = append([]entity.GroupResult(nil), s.Groups...)
	m.last = &s
	return nil
}

func (m *StatusMemory) LastRun(ctx context.Context) (entity.RunSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return entity.RunSummary{}, usecase.ErrRunStatusNotFound
	}
	return *m.last, nil
}
