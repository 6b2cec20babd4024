// Package store persists food items. Every backend assigns ids and
// timestamps itself; callers hand in validated records only.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Fraol7/FoodWagen/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("food item not found")

// StorageError reports that the backing medium failed or was unreachable.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

type FoodStore interface {
	Create(ctx context.Context, food models.Food) (models.Food, error)
	Get(ctx context.Context, id string) (models.Food, error)
	List(ctx context.Context) ([]models.Food, error)
	Update(ctx context.Context, id string, patch models.FoodPatch) (models.Food, error)
	// Delete removes the item and returns its id.
	Delete(ctx context.Context, id string) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type Options struct {
	// Database is the Mongo database name. Ignored by other backends.
	Database string
}

// Open picks a backend from the URI scheme: mongodb, mongodb+srv,
// postgres, postgresql or memory.
func Open(ctx context.Context, uri string, opts Options) (FoodStore, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid storage uri: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		database := opts.Database
		if database == "" {
			database = "foodwagen"
		}
		return OpenMongo(ctx, uri, database)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, uri)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage scheme %q", u.Scheme)
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// stamp normalizes a timestamp to what every backend can round-trip.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// nextUpdate returns an updatedAt strictly after prev.
func nextUpdate(prev, now time.Time) time.Time {
	now = stamp(now)
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
