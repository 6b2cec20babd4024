package store

import (
	"context"
	"sync"
	"time"

	"github.com/Fraol7/FoodWagen/models"
)

// MemoryStore keeps items in insertion order in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	foods []models.Food
	index map[string]int
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
		now:   time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, food models.Food) (models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	food.ID = newID()
	food.CreatedAt = stamp(s.now())
	food.UpdatedAt = food.CreatedAt

	s.index[food.ID] = len(s.foods)
	s.foods = append(s.foods, food)
	return food, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Food{}, ErrNotFound
	}
	return s.foods[i], nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Food, len(s.foods))
	copy(out, s.foods)
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, patch models.FoodPatch) (models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return models.Food{}, ErrNotFound
	}
	food := s.foods[i]
	patch.Apply(&food)
	food.UpdatedAt = nextUpdate(food.UpdatedAt, s.now())
	s.foods[i] = food
	return food, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return "", ErrNotFound
	}
	s.foods = append(s.foods[:i], s.foods[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.foods); j++ {
		s.index[s.foods[j].ID] = j
	}
	return id, nil
}

// Len reports how many items are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.foods)
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }
