package store

import (
	"context"
	"errors"
	"time"

	"github.com/Fraol7/FoodWagen/config"
	"github.com/Fraol7/FoodWagen/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const foodCollectionName = "foods"

// MongoStore keeps one document per item, keyed by ObjectID, using the
// camelCase field names the web app already stores.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{
		client: coll.Database().Client(),
		coll:   coll,
		now:    time.Now,
	}
}

func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := config.DBinstance(ctx, uri)
	if err != nil {
		return nil, &StorageError{Op: "connect", Err: err}
	}
	return NewMongoStore(config.OpenCollection(client, database, foodCollectionName)), nil
}

func (s *MongoStore) Create(ctx context.Context, food models.Food) (models.Food, error) {
	food.ObjectID = primitive.NewObjectID()
	food.ID = food.ObjectID.Hex()
	food.CreatedAt = stamp(s.now())
	food.UpdatedAt = food.CreatedAt

	if _, err := s.coll.InsertOne(ctx, food); err != nil {
		return models.Food{}, &StorageError{Op: "insert", Err: err}
	}
	return food, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Food, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Food{}, ErrNotFound
	}

	var food models.Food
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&food); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Food{}, ErrNotFound
		}
		return models.Food{}, &StorageError{Op: "find", Err: err}
	}
	return withID(food), nil
}

func (s *MongoStore) List(ctx context.Context) ([]models.Food, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer cursor.Close(ctx)

	foods := []models.Food{}
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	for i := range foods {
		foods[i] = withID(foods[i])
	}
	return foods, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, patch models.FoodPatch) (models.Food, error) {
	// Fetch existing food details
	existing, err := s.Get(ctx, id)
	if err != nil {
		return models.Food{}, err
	}

	updateObj := setDocument(patch)
	updateObj["updatedAt"] = nextUpdate(existing.UpdatedAt, s.now())

	var updated models.Food
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": existing.ObjectID},
		bson.M{"$set": updateObj},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Food{}, ErrNotFound
		}
		return models.Food{}, &StorageError{Op: "update", Err: err}
	}
	return withID(updated), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", ErrNotFound
	}

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return "", &StorageError{Op: "delete", Err: err}
	}
	if result.DeletedCount == 0 {
		return "", ErrNotFound
	}
	return id, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func withID(food models.Food) models.Food {
	food.ID = food.ObjectID.Hex()
	return food
}

func setDocument(p models.FoodPatch) bson.M {
	updateObj := bson.M{}
	if p.Name != nil {
		updateObj["name"] = *p.Name
	}
	if p.Restaurant != nil {
		updateObj["restaurant"] = *p.Restaurant
	}
	if p.Price != nil {
		updateObj["price"] = *p.Price
	}
	if p.Rating != nil {
		updateObj["rating"] = *p.Rating
	}
	if p.Status != nil {
		updateObj["status"] = *p.Status
	}
	if p.DeliveryType != nil {
		updateObj["deliveryType"] = *p.DeliveryType
	}
	if p.Image != nil {
		updateObj["image"] = *p.Image
	}
	if p.Logo != nil {
		updateObj["logo"] = *p.Logo
	}
	if p.Category != nil {
		updateObj["category"] = *p.Category
	}
	return updateObj
}
