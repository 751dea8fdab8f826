package orderflowsvc

import (
	"context"
	"sort"
	"sync"
	"time"

	"delivery_marketplace/internal/api/orderflow/models"
	"delivery_marketplace/internal/common"
	"delivery_marketplace/internal/orderflow"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store with the same uniqueness and version rules as MongoStore.
// Handler and service tests run against it.
type MemoryStore struct {
	mu    sync.Mutex
	flows map[primitive.ObjectID]models.OrderFlow
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flows: map[primitive.ObjectID]models.OrderFlow{}}
}

// FindAll implements Store.
func (m *MemoryStore) FindAll(_ context.Context, f FlowFilter) ([]models.OrderFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.OrderFlow{}
	for _, flow := range m.flows {
		if f.ShopID != nil && (flow.ShopID == nil || *flow.ShopID != *f.ShopID) {
			continue
		}
		if f.IsDefault != nil && flow.IsDefault != *f.IsDefault {
			continue
		}
		if f.IsActive != nil && flow.IsActive != *f.IsActive {
			continue
		}
		out = append(out, orderflow.Clone(flow))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

// FindByID implements Store.
func (m *MemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (models.OrderFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flow, ok := m.flows[id]
	if !ok {
		return models.OrderFlow{}, common.ErrNotFound
	}
	return orderflow.Clone(flow), nil
}

// FindByShop implements Store.
func (m *MemoryStore) FindByShop(_ context.Context, shopID primitive.ObjectID) (models.OrderFlow, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, flow := range m.flows {
		if flow.ShopID != nil && *flow.ShopID == shopID {
			return orderflow.Clone(flow), true, nil
		}
	}
	return models.OrderFlow{}, false, nil
}

// FindDefault implements Store.
func (m *MemoryStore) FindDefault(_ context.Context) (models.OrderFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, flow := range m.flows {
		if flow.IsDefault {
			return orderflow.Clone(flow), nil
		}
	}
	return models.OrderFlow{}, common.ErrNotFound
}

// Insert implements Store.
func (m *MemoryStore) Insert(_ context.Context, flow models.OrderFlow) (models.OrderFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if flow.ShopID != nil {
		for _, existing := range m.flows {
			if existing.ShopID != nil && *existing.ShopID == *flow.ShopID {
				return models.OrderFlow{}, common.ErrMongoDuplicate
			}
		}
	}
	now := time.Now().UnixMilli()
	flow = orderflow.Clone(flow)
	flow.ID = primitive.NewObjectID()
	flow.Version = 1
	flow.CreatedAt = now
	flow.UpdatedAt = now
	m.flows[flow.ID] = flow
	return orderflow.Clone(flow), nil
}

// Replace implements Store.
func (m *MemoryStore) Replace(_ context.Context, flow models.OrderFlow, expectedVersion *int64) (models.OrderFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.flows[flow.ID]
	if !ok {
		return models.OrderFlow{}, common.ErrNotFound
	}
	if expectedVersion != nil && existing.Version != *expectedVersion {
		return models.OrderFlow{}, common.ErrVersionConflict
	}
	existing.Name = flow.Name
	existing.Description = flow.Description
	existing.Steps = orderflow.Clone(flow).Steps
	existing.IsActive = flow.IsActive
	existing.Version++
	existing.UpdatedAt = time.Now().UnixMilli()
	m.flows[existing.ID] = existing
	return orderflow.Clone(existing), nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flows[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.flows, id)
	return nil
}

// SetDefault implements Store.
func (m *MemoryStore) SetDefault(_ context.Context, id primitive.ObjectID) (models.OrderFlow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.flows[id]
	if !ok {
		return models.OrderFlow{}, common.ErrNotFound
	}
	for fid, flow := range m.flows {
		if fid != id && flow.IsDefault {
			flow.IsDefault = false
			flow.Version++
			m.flows[fid] = flow
		}
	}
	target.IsDefault = true
	target.ShopID = nil
	target.Version++
	m.flows[id] = target
	return orderflow.Clone(target), nil
}
