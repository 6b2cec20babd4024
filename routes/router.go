package routes

import (
	"net/http"

	controller "github.com/Fraol7/FoodWagen/controllers"
	"github.com/Fraol7/FoodWagen/helper"
	middleware "github.com/Fraol7/FoodWagen/middlewares"

	"github.com/gorilla/mux"
)

type RouterOptions struct {
	CORSOrigin string
	DevMode    bool
}

// NewRouter mounts every route with request id, access logging and panic
// recovery applied. Logging wraps Recovery so a recovered panic is logged
// with its 500.
func NewRouter(c *controller.FoodController, log *helper.Logger, opts RouterOptions) *mux.Router {
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(log))
	router.Use(middleware.Recovery(log, opts.DevMode))

	PublicRoutes(router, c)
	FoodRoutes(router, c, opts.CORSOrigin)
	return router
}
