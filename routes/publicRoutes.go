package routes

import (
	"net/http"

	controller "github.com/Fraol7/FoodWagen/controllers"
	"github.com/Fraol7/FoodWagen/helper"

	"github.com/gorilla/mux"
)

func PublicRoutes(router *mux.Router, c *controller.FoodController) {
	router.HandleFunc("/healthz", c.Health).Methods(http.MethodGet)
}

// NotFound answers unmatched paths with the JSON error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	helper.WriteError(w, http.StatusNotFound, helper.ErrorBody{Message: "Route not found"})
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	helper.WriteError(w, http.StatusMethodNotAllowed, helper.ErrorBody{Message: "Method not allowed"})
}
