package ports_test

import (
	"context"
	"sort"
	"testing"

	"github.com/aretw0/caesartm/pkg/domain"
	"github.com/aretw0/caesartm/pkg/ports"
)

// MockStore is an in-memory implementation of RunStore for testing purposes.
type MockStore struct {
	data map[string]*domain.Run
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Run),
	}
}

func (m *MockStore) Save(ctx context.Context, run *domain.Run) error {
	m.data[run.ID] = run.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, id string) (*domain.Run, error) {
	run, ok := m.data[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	delete(m.data, id)
	return nil
}

// List returns IDs oldest first, ties broken by ID.
func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.data[ids[i]], m.data[ids[j]]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return ids, nil
}

func TestMockStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, NewMockStore())
}
