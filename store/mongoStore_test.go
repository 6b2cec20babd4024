package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Fraol7/FoodWagen/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const mockNS = "foodwagen.foods"

func foodDoc(oid primitive.ObjectID, name string, status models.Status, updated time.Time) bson.D {
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: oid},
		{Key: "name", Value: name},
		{Key: "restaurant", Value: "Pancake House"},
		{Key: "price", Value: 3.99},
		{Key: "rating", Value: 0.0},
		{Key: "status", Value: string(status)},
		{Key: "deliveryType", Value: "Delivery"},
		{Key: "image", Value: models.DefaultImage},
		{Key: "logo", Value: models.DefaultLogo},
		{Key: "createdAt", Value: created},
		{Key: "updatedAt", Value: updated},
	}
}

func TestMongoStoreMock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	mt.Run("create inserts with ObjectID", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewMongoStore(mt.Coll)

		food, err := s.Create(ctx, sampleFood("Pancake"))
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if food.ID != food.ObjectID.Hex() || food.ObjectID.IsZero() {
			mt.Errorf("id %q does not match ObjectID %v", food.ID, food.ObjectID)
		}
		if !food.CreatedAt.Equal(food.UpdatedAt) {
			mt.Errorf("createdAt != updatedAt")
		}
		if ev := mt.GetStartedEvent(); ev == nil || ev.CommandName != "insert" {
			mt.Errorf("expected insert command, got %v", ev)
		}
	})

	mt.Run("create surfaces storage error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		s := NewMongoStore(mt.Coll)

		_, err := s.Create(ctx, sampleFood("Pancake"))
		var serr *StorageError
		if !errors.As(err, &serr) || serr.Op != "insert" {
			mt.Errorf("err = %v, want insert StorageError", err)
		}
	})

	mt.Run("get decodes document", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNS, mtest.FirstBatch, foodDoc(oid, "Pancake", models.StatusOpen, created)))
		s := NewMongoStore(mt.Coll)

		food, err := s.Get(ctx, oid.Hex())
		if err != nil {
			mt.Fatalf("Get: %v", err)
		}
		if food.ID != oid.Hex() || food.Name != "Pancake" || food.Status != models.StatusOpen {
			mt.Errorf("got %+v", food)
		}
		if !food.CreatedAt.Equal(created) {
			mt.Errorf("createdAt = %v", food.CreatedAt)
		}
	})

	mt.Run("get missing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNS, mtest.FirstBatch))
		s := NewMongoStore(mt.Coll)

		if _, err := s.Get(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
			mt.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	mt.Run("get malformed id never reaches the server", func(mt *mtest.T) {
		s := NewMongoStore(mt.Coll)
		if _, err := s.Get(ctx, "pancake"); !errors.Is(err, ErrNotFound) {
			mt.Errorf("err = %v, want ErrNotFound", err)
		}
		if ev := mt.GetStartedEvent(); ev != nil {
			mt.Errorf("unexpected command %s", ev.CommandName)
		}
	})

	mt.Run("list sets ids", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNS, mtest.FirstBatch,
			foodDoc(a, "First", models.StatusOpen, created),
			foodDoc(b, "Second", models.StatusClosed, created),
		))
		s := NewMongoStore(mt.Coll)

		foods, err := s.List(ctx)
		if err != nil {
			mt.Fatalf("List: %v", err)
		}
		if len(foods) != 2 || foods[0].ID != a.Hex() || foods[1].ID != b.Hex() {
			mt.Errorf("got %+v", foods)
		}
	})

	mt.Run("list empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mockNS, mtest.FirstBatch))
		s := NewMongoStore(mt.Coll)

		foods, err := s.List(ctx)
		if err != nil {
			mt.Fatalf("List: %v", err)
		}
		if foods == nil || len(foods) != 0 {
			mt.Errorf("got %#v, want empty slice", foods)
		}
	})

	mt.Run("update sets only patched fields", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		bumped := created.Add(time.Minute)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mockNS, mtest.FirstBatch, foodDoc(oid, "Pancake", models.StatusOpen, created)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: foodDoc(oid, "Pancake", models.StatusClosed, bumped)}),
		)
		s := NewMongoStore(mt.Coll)
		s.now = func() time.Time { return bumped }

		food, err := s.Update(ctx, oid.Hex(), models.FoodPatch{Status: models.StatusPtr(models.StatusClosed)})
		if err != nil {
			mt.Fatalf("Update: %v", err)
		}
		if food.Status != models.StatusClosed || !food.UpdatedAt.Equal(bumped) {
			mt.Errorf("got %+v", food)
		}

		events := mt.GetAllStartedEvents()
		if len(events) != 2 || events[1].CommandName != "findAndModify" {
			mt.Fatalf("commands = %v", events)
		}
		set, err := events[1].Command.LookupErr("update", "$set")
		if err != nil {
			mt.Fatalf("no $set in command: %v", err)
		}
		setDoc := set.Document()
		if v := setDoc.Lookup("status").StringValue(); v != "Closed" {
			mt.Errorf("$set.status = %q", v)
		}
		if _, err := setDoc.LookupErr("name"); err == nil {
			mt.Errorf("$set should not touch name")
		}
		if _, err := setDoc.LookupErr("updatedAt"); err != nil {
			mt.Errorf("$set must bump updatedAt")
		}
	})

	mt.Run("delete missing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		s := NewMongoStore(mt.Coll)

		if _, err := s.Delete(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
			mt.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	mt.Run("delete existing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		s := NewMongoStore(mt.Coll)

		oid := primitive.NewObjectID()
		id, err := s.Delete(ctx, oid.Hex())
		if err != nil || id != oid.Hex() {
			mt.Errorf("Delete = %q, %v", id, err)
		}
	})
}

func TestMongoStoreLive(t *testing.T) {
	uri := os.Getenv("FOODWAGEN_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FOODWAGEN_TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	testFoodStore(t, func(t *testing.T) FoodStore {
		s, err := OpenMongo(ctx, uri, "foodwagen_test")
		if err != nil {
			t.Fatalf("OpenMongo: %v", err)
		}
		if err := s.coll.Drop(ctx); err != nil {
			t.Fatalf("drop: %v", err)
		}
		t.Cleanup(func() { s.Close(ctx) })
		return s
	})
}
