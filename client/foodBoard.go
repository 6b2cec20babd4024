package client

import (
	"context"
	"sync"

	"github.com/Fraol7/FoodWagen/models"
)

// FoodBoard is the view state of the item list. Each action goes through the
// Client and only changes the list once the server has accepted it.
type FoodBoard struct {
	client *Client

	mu    sync.RWMutex
	items []models.Food
	err   error
}

func NewFoodBoard(c *Client) *FoodBoard {
	return &FoodBoard{client: c}
}

// Items returns a copy of the current list.
func (b *FoodBoard) Items() []models.Food {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Food(nil), b.items...)
}

// Err is the error of the most recent failed action, cleared on success.
func (b *FoodBoard) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

func (b *FoodBoard) Refresh(ctx context.Context) error {
	foods, err := b.client.ListItems(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
	if err != nil {
		return err
	}
	b.items = foods
	return nil
}

func (b *FoodBoard) Add(ctx context.Context, in models.FoodInput) (models.Food, error) {
	food, err := b.client.CreateItem(ctx, in)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
	if err != nil {
		return models.Food{}, err
	}
	b.items = append(b.items, food)
	return food, nil
}

func (b *FoodBoard) Edit(ctx context.Context, id string, patch models.FoodPatch) (models.Food, error) {
	food, err := b.client.UpdateItem(ctx, id, patch)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
	if err != nil {
		return models.Food{}, err
	}
	for i := range b.items {
		if b.items[i].ID == id {
			b.items[i] = food
			break
		}
	}
	return food, nil
}

func (b *FoodBoard) Remove(ctx context.Context, id string) error {
	_, err := b.client.DeleteItem(ctx, id)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
	if err != nil {
		return err
	}
	kept := b.items[:0:0]
	for _, f := range b.items {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	b.items = kept
	return nil
}
