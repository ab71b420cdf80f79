package cache

import (
	"context"
	"fmt"
	"go-parking-facility/internal/model"
	"sync"
)

// MemoryCounterStore 單機部署用的 in-process CounterStore。
// 與 Redis 版共用同一份合約：每個 key 的操作都是原子的。
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counters: make(map[string]int64),
	}
}

func (s *MemoryCounterStore) getOccupancyKey(branchID int, category model.VehicleCategory) string {
	return fmt.Sprintf("occupancy:%d:%s", branchID, category)
}

func (s *MemoryCounterStore) Increment(ctx context.Context, branchID int, category model.VehicleCategory) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.getOccupancyKey(branchID, category)
	s.counters[key]++
	return s.counters[key], nil
}

func (s *MemoryCounterStore) Decrement(ctx context.Context, branchID int, category model.VehicleCategory) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.getOccupancyKey(branchID, category)
	s.counters[key]--
	if s.counters[key] < 0 {
		// 夾定回零（防止重複釋放）
		s.counters[key] = 0
		return 0, true, nil
	}
	return s.counters[key], false, nil
}

func (s *MemoryCounterStore) Set(ctx context.Context, branchID int, category model.VehicleCategory, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[s.getOccupancyKey(branchID, category)] = value
	return nil
}

func (s *MemoryCounterStore) Get(ctx context.Context, branchID int, category model.VehicleCategory) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counters[s.getOccupancyKey(branchID, category)], nil
}
