package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipesplusplus/home"
	"recipesplusplus/images"
	"recipesplusplus/ingredients"
	"recipesplusplus/middleware"
	"recipesplusplus/mq"
	"recipesplusplus/recipes"
	"recipesplusplus/suggestions"
	"recipesplusplus/units"
	"recipesplusplus/users"
)

// handle registers h for method and path with per-route metrics.
func handle(router *httprouter.Router, method, path string, h httprouter.Handle) {
	router.Handle(method, path, middleware.Instrument(path, h))
}

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir(uploadDir))
}

func AddOpsRoutes(router *httprouter.Router, ready *home.Handler) {
	router.GET("/health", home.Health)
	router.GET("/ready", ready.Ready)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
}

func AddIngredientRoutes(router *httprouter.Router, h *ingredients.Handler) {
	handle(router, http.MethodGet, "/ingredients", h.GetIngredients)
	handle(router, http.MethodGet, "/ingredients/:id", h.GetIngredient)
	handle(router, http.MethodPost, "/ingredients", h.CreateIngredient)
	handle(router, http.MethodPut, "/ingredients/:id", h.UpdateIngredient)
	handle(router, http.MethodDelete, "/ingredients/:id", h.DeleteIngredient)
}

func AddRecipeRoutes(router *httprouter.Router, h *recipes.Handler) {
	handle(router, http.MethodGet, "/recipes", h.GetRecipes)
	handle(router, http.MethodGet, "/recipes/:id", h.GetRecipe)
	handle(router, http.MethodPost, "/recipes", h.CreateRecipe)
	handle(router, http.MethodPut, "/recipes/:id", h.UpdateRecipe)
	handle(router, http.MethodDelete, "/recipes/:id", h.DeleteRecipe)
}

func AddUserRoutes(router *httprouter.Router, h *users.Handler, s *suggestions.Handler) {
	handle(router, http.MethodGet, "/users", h.GetUsers)
	handle(router, http.MethodGet, "/users/:id", h.GetUser)
	handle(router, http.MethodPost, "/users", h.CreateUser)
	handle(router, http.MethodPut, "/users/:id", h.UpdateUser)
	handle(router, http.MethodDelete, "/users/:id", h.DeleteUser)
	handle(router, http.MethodGet, "/users/:id/grocery", h.GetGroceryList)
	handle(router, http.MethodGet, "/users/:id/suggestions", s.SuggestRecipes)
}

func AddUnitRoutes(router *httprouter.Router, h *units.Handler) {
	handle(router, http.MethodGet, "/units", h.GetUnits)
	handle(router, http.MethodGet, "/units/:id", h.GetUnit)
}

func AddImageRoutes(router *httprouter.Router, h *images.Handler) {
	handle(router, http.MethodPost, "/images", h.UploadImage)
}

func AddEventRoutes(router *httprouter.Router, hub *mq.Hub) {
	router.GET("/events", hub.ServeWS)
}
