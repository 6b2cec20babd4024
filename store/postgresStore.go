package store

import (
	"context"
	"errors"
	"time"

	"github.com/Fraol7/FoodWagen/config"
	"github.com/Fraol7/FoodWagen/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS foods (
	seq           BIGSERIAL UNIQUE,
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	restaurant    TEXT NOT NULL,
	price         DOUBLE PRECISION NOT NULL CHECK (price > 0),
	rating        DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (rating >= 0 AND rating <= 5),
	status        TEXT NOT NULL DEFAULT 'Open' CHECK (status IN ('Open', 'Closed')),
	delivery_type TEXT NOT NULL DEFAULT 'Delivery' CHECK (delivery_type IN ('Delivery', 'Pickup', 'Both')),
	image         TEXT NOT NULL,
	logo          TEXT NOT NULL,
	category      TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
)`

const foodColumns = `id, name, restaurant, price, rating, status, delivery_type, image, logo, category, created_at, updated_at`

// PostgresStore keeps items in a single foods table. List order follows
// the seq column, which matches insertion order.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, &StorageError{Op: "migrate", Err: err}
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := config.PGinstance(ctx, url)
	if err != nil {
		return nil, &StorageError{Op: "connect", Err: err}
	}
	s, err := NewPostgresStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Create(ctx context.Context, food models.Food) (models.Food, error) {
	food.ID = newID()
	food.CreatedAt = stamp(s.now())
	food.UpdatedAt = food.CreatedAt

	_, err := s.pool.Exec(ctx, `
		INSERT INTO foods (`+foodColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		food.ID, food.Name, food.Restaurant, food.Price, food.Rating,
		string(food.Status), string(food.DeliveryType), food.Image, food.Logo, food.Category,
		food.CreatedAt, food.UpdatedAt,
	)
	if err != nil {
		return models.Food{}, &StorageError{Op: "insert", Err: err}
	}
	return food, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.Food, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, id)
	food, err := scanFood(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Food{}, ErrNotFound
		}
		return models.Food{}, &StorageError{Op: "find", Err: err}
	}
	return food, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Food, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+foodColumns+` FROM foods ORDER BY seq ASC`)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	foods := []models.Food{}
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return foods, nil
}

// Update applies the patch in one statement. A NULL parameter keeps the
// current column value.
func (s *PostgresStore) Update(ctx context.Context, id string, patch models.FoodPatch) (models.Food, error) {
	var status, deliveryType *string
	if patch.Status != nil {
		v := string(*patch.Status)
		status = &v
	}
	if patch.DeliveryType != nil {
		v := string(*patch.DeliveryType)
		deliveryType = &v
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE foods SET
			name          = COALESCE($2, name),
			restaurant    = COALESCE($3, restaurant),
			price         = COALESCE($4, price),
			rating        = COALESCE($5, rating),
			status        = COALESCE($6, status),
			delivery_type = COALESCE($7, delivery_type),
			image         = COALESCE($8, image),
			logo          = COALESCE($9, logo),
			category      = COALESCE($10, category),
			updated_at    = GREATEST($11::timestamptz, updated_at + INTERVAL '1 millisecond')
		WHERE id = $1
		RETURNING `+foodColumns,
		id, patch.Name, patch.Restaurant, patch.Price, patch.Rating,
		status, deliveryType, patch.Image, patch.Logo, patch.Category,
		stamp(s.now()),
	)
	food, err := scanFood(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Food{}, ErrNotFound
		}
		return models.Food{}, &StorageError{Op: "update", Err: err}
	}
	return food, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (string, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if err != nil {
		return "", &StorageError{Op: "delete", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return "", ErrNotFound
	}
	return id, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func scanFood(row pgx.Row) (models.Food, error) {
	var (
		food                 models.Food
		status, deliveryType string
	)
	err := row.Scan(
		&food.ID, &food.Name, &food.Restaurant, &food.Price, &food.Rating,
		&status, &deliveryType, &food.Image, &food.Logo, &food.Category,
		&food.CreatedAt, &food.UpdatedAt,
	)
	if err != nil {
		return models.Food{}, err
	}
	food.Status = models.Status(status)
	food.DeliveryType = models.DeliveryType(deliveryType)
	food.CreatedAt = food.CreatedAt.UTC()
	food.UpdatedAt = food.UpdatedAt.UTC()
	return food, nil
}
