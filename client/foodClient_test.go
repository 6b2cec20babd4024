package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	controller "github.com/Fraol7/FoodWagen/controllers"
	"github.com/Fraol7/FoodWagen/helper"
	"github.com/Fraol7/FoodWagen/models"
	"github.com/Fraol7/FoodWagen/routes"
	"github.com/Fraol7/FoodWagen/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := controller.NewFoodController(store.NewMemoryStore(), nil, helper.Discard(), 0, false)
	ts := httptest.NewServer(routes.NewRouter(c, helper.Discard(), routes.RouterOptions{}))
	t.Cleanup(ts.Close)
	return New(ts.URL+"/", ts.Client())
}

func pancake() models.FoodInput {
	return models.FoodInput{
		Name:       models.String("Pancake"),
		Price:      models.Float(3.99),
		Restaurant: models.String("Pancake House"),
	}
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	foods, err := c.ListItems(ctx)
	if err != nil || foods == nil || len(foods) != 0 {
		t.Fatalf("ListItems = %#v, %v", foods, err)
	}

	created, err := c.CreateItem(ctx, pancake())
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if created.Status != models.StatusOpen || created.Logo != models.DefaultLogo {
		t.Errorf("created = %+v", created)
	}

	got, err := c.GetItem(ctx, created.ID)
	if err != nil || got.Name != "Pancake" {
		t.Errorf("GetItem = %+v, %v", got, err)
	}

	updated, err := c.UpdateItem(ctx, created.ID, models.FoodPatch{Status: models.StatusPtr(models.StatusClosed)})
	if err != nil || updated.Status != models.StatusClosed {
		t.Errorf("UpdateItem = %+v, %v", updated, err)
	}

	res, err := c.DeleteItem(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if !res.Success || res.ID != created.ID {
		t.Errorf("DeleteItem = %+v", res)
	}
}

func TestClientNotFound(t *testing.T) {
	c := newTestClient(t)
	const id = "000000000000000000000000"

	_, err := c.GetItem(context.Background(), id)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.ID != id || apiErr.Message != "Food item not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}

	if _, err := c.DeleteItem(context.Background(), id); !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("DeleteItem err = %v", err)
	}
}

func TestClientValidationError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateItem(context.Background(), models.FoodInput{Name: models.String("Soup"), Price: models.Float(-1)})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || len(apiErr.Fields) != 2 {
		t.Fatalf("apiErr = %+v", apiErr)
	}
	if apiErr.Fields[0].Field != "restaurant" || apiErr.Fields[1].Field != "price" {
		t.Errorf("fields = %+v", apiErr.Fields)
	}
}

func TestClientEscapesItemID(t *testing.T) {
	paths := make(chan string, 3)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.EscapedPath() + "|" + r.URL.RawQuery
		helper.WriteError(w, http.StatusNotFound, helper.ErrorBody{Message: "Food item not found"})
	}))
	defer ts.Close()

	c := New(ts.URL, nil)
	ctx := context.Background()
	id := "a/b?c=1#d"
	c.GetItem(ctx, id)
	c.UpdateItem(ctx, id, models.FoodPatch{Rating: models.Float(4)})
	c.DeleteItem(ctx, id)

	close(paths)

	want := "/api/items/a%2Fb%3Fc=1%23d|"
	if len(paths) != 3 {
		t.Fatalf("server saw %d requests, want 3", len(paths))
	}
	for got := range paths {
		if got != want {
			t.Errorf("request path = %q, want %q", got, want)
		}
	}
}

func TestClientNonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL, nil).ListItems(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "Bad Gateway" {
		t.Errorf("err = %v", err)
	}
}

func TestClientUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, nil).ListItems(context.Background())
	var apiErr *APIError
	if err == nil || errors.As(err, &apiErr) {
		t.Errorf("err = %v, want transport error", err)
	}
}
