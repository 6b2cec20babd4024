package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Fraol7/FoodWagen/events"
	"github.com/Fraol7/FoodWagen/helper"
	middleware "github.com/Fraol7/FoodWagen/middlewares"
	"github.com/Fraol7/FoodWagen/models"
	"github.com/Fraol7/FoodWagen/store"
	"github.com/Fraol7/FoodWagen/validation"
	"github.com/gorilla/mux"
)

const notFoundMessage = "Food item not found"

type FoodController struct {
	store     store.FoodStore
	publisher events.Publisher
	log       *helper.Logger
	timeout   time.Duration
	devMode   bool
}

func NewFoodController(s store.FoodStore, p events.Publisher, log *helper.Logger, timeout time.Duration, devMode bool) *FoodController {
	if p == nil {
		p = events.NopPublisher{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FoodController{store: s, publisher: p, log: log, timeout: timeout, devMode: devMode}
}

// Get all food items
func (c *FoodController) GetFoods(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	foods, err := c.store.List(ctx)
	if err != nil {
		c.serverError(w, r, "list_failed", "Failed to fetch food items", err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, foods)
}

// Get a single food item
func (c *FoodController) GetFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	id := mux.Vars(r)["id"]
	food, err := c.store.Get(ctx, id)
	if err != nil {
		c.storeError(w, r, id, "get_failed", "Error finding food item", err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, food)
}

// Create a food item
func (c *FoodController) CreateFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	var in models.FoodInput
	if !c.decode(w, r, &in) {
		return
	}

	food, err := validation.NewFood(in)
	if err != nil {
		c.validationError(w, r, err)
		return
	}

	created, err := c.store.Create(ctx, food)
	if err != nil {
		c.serverError(w, r, "create_failed", "Failed to create food item", err)
		return
	}

	c.publish(ctx, r, events.NewEvent(events.FoodCreated, created.ID, &created))
	helper.WriteJSON(w, http.StatusCreated, created)
}

// Update a food item. Only the fields present in the body change.
func (c *FoodController) UpdateFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	id := mux.Vars(r)["id"]
	if _, err := c.store.Get(ctx, id); err != nil {
		c.storeError(w, r, id, "update_failed", "Failed to update food item", err)
		return
	}

	var patch models.FoodPatch
	if !c.decode(w, r, &patch) {
		return
	}

	patch, err := validation.CheckPatch(patch)
	if err != nil {
		c.validationError(w, r, err)
		return
	}

	updated, err := c.store.Update(ctx, id, patch)
	if err != nil {
		c.storeError(w, r, id, "update_failed", "Failed to update food item", err)
		return
	}

	c.log.Debug(middleware.GetRequestIDFromContext(r.Context()), "food_updated", "Food item updated", "food_id", id, "fields", patch.Fields())
	c.publish(ctx, r, events.NewEvent(events.FoodUpdated, updated.ID, &updated))
	helper.WriteJSON(w, http.StatusOK, updated)
}

// Delete a food item
func (c *FoodController) DeleteFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	id := mux.Vars(r)["id"]
	if _, err := c.store.Get(ctx, id); err != nil {
		c.storeError(w, r, id, "delete_failed", "Failed to delete food item", err)
		return
	}

	deleted, err := c.store.Delete(ctx, id)
	if err != nil {
		c.storeError(w, r, id, "delete_failed", "Failed to delete food item", err)
		return
	}

	c.publish(ctx, r, events.NewEvent(events.FoodDeleted, deleted, nil))
	helper.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Food item deleted successfully",
		"id":      deleted,
	})
}

func (c *FoodController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.timeout)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		c.log.Warn(middleware.GetRequestIDFromContext(r.Context()), "health_check_failed", "Store ping failed", "error", err.Error())
		helper.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	helper.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *FoodController) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		body := helper.ErrorBody{Message: "Invalid request body"}
		if c.devMode {
			body.Error = err.Error()
		}
		helper.WriteError(w, http.StatusBadRequest, body)
		return false
	}
	return true
}

func (c *FoodController) validationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		helper.WriteError(w, http.StatusBadRequest, helper.ErrorBody{Message: err.Error()})
		return
	}
	c.log.Debug(middleware.GetRequestIDFromContext(r.Context()), "validation_failed", verr.Error(), "fields", verr.FieldNames())
	helper.WriteError(w, http.StatusBadRequest, helper.ErrorBody{Message: verr.Error(), Fields: verr.Fields})
}

// storeError answers 404 for ErrNotFound and 500 for everything else.
func (c *FoodController) storeError(w http.ResponseWriter, r *http.Request, id, action, message string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		helper.WriteError(w, http.StatusNotFound, helper.ErrorBody{Message: notFoundMessage, ID: id})
		return
	}
	c.serverError(w, r, action, message, err)
}

func (c *FoodController) serverError(w http.ResponseWriter, r *http.Request, action, message string, err error) {
	stack := string(debug.Stack())
	c.log.ErrorStack(middleware.GetRequestIDFromContext(r.Context()), action, message, err, stack)

	body := helper.ErrorBody{Message: message}
	if c.devMode {
		body.Error = err.Error()
		body.Stack = stack
	}
	helper.WriteError(w, http.StatusInternalServerError, body)
}

func (c *FoodController) publish(ctx context.Context, r *http.Request, ev events.Event) {
	if err := c.publisher.Publish(ctx, ev); err != nil {
		c.log.Warn(middleware.GetRequestIDFromContext(r.Context()), "event_publish_failed", "Could not publish "+ev.Type, "food_id", ev.FoodID, "error", err.Error())
	}
}
