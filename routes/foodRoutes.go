package routes

import (
	"net/http"

	controllers "github.com/Fraol7/FoodWagen/controllers"
	middleware "github.com/Fraol7/FoodWagen/middlewares"

	"github.com/gorilla/mux"
)

const ItemsPrefix = "/api/items"

func FoodRoutes(router *mux.Router, c *controllers.FoodController, corsOrigin string) {
	items := router.PathPrefix(ItemsPrefix).Subrouter()

	items.HandleFunc("", c.GetFoods).Methods(http.MethodGet)
	items.HandleFunc("", c.CreateFood).Methods(http.MethodPost)
	items.HandleFunc("", preflight).Methods(http.MethodOptions)

	items.HandleFunc("/{id}", c.GetFood).Methods(http.MethodGet)
	items.HandleFunc("/{id}", c.UpdateFood).Methods(http.MethodPatch)
	items.HandleFunc("/{id}", c.DeleteFood).Methods(http.MethodDelete)
	items.HandleFunc("/{id}", preflight).Methods(http.MethodOptions)

	items.Use(mux.CORSMethodMiddleware(items))
	items.Use(middleware.CORS(corsOrigin))
}

// preflight is only reached if the CORS middleware is not mounted.
func preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
