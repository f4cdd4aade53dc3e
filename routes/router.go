package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"recipesplusplus/grocery"
	"recipesplusplus/home"
	"recipesplusplus/ids"
	"recipesplusplus/images"
	"recipesplusplus/ingredients"
	"recipesplusplus/middleware"
	"recipesplusplus/models"
	"recipesplusplus/mq"
	"recipesplusplus/recipes"
	"recipesplusplus/store"
	"recipesplusplus/suggestions"
	"recipesplusplus/units"
	"recipesplusplus/users"
	"recipesplusplus/utils"
)

// Services are the collections and shared components the handlers use.
type Services struct {
	Ingredients store.Collection[models.Ingredient]
	Recipes     store.Collection[models.Recipe]
	Units       store.Collection[models.Unit]
	Users       store.Collection[models.User]

	IDs    *ids.Allocator
	Events *mq.Hub
	Checks map[string]home.Check
}

type Options struct {
	UploadDir      string
	AllowedOrigins []string
	RateLimit      rate.Limit
	RateLimitBurst int
}

const uploadURLPrefix = "/static/uploads"

// New wires every route and wraps the router in the middleware chain.
func New(s Services, o Options) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, r, http.StatusNotFound, "not found")
	})

	catalog := grocery.Catalog{Recipes: s.Recipes, Ingredients: s.Ingredients, Units: s.Units}

	AddOpsRoutes(router, &home.Handler{Checks: s.Checks})
	AddStaticRoutes(router, o.UploadDir)
	AddEventRoutes(router, s.Events)
	AddImageRoutes(router, &images.Handler{Dir: o.UploadDir, URLPrefix: uploadURLPrefix})
	AddIngredientRoutes(router, &ingredients.Handler{Ingredients: s.Ingredients, IDs: s.IDs, Events: s.Events})
	AddRecipeRoutes(router, &recipes.Handler{
		Recipes:     s.Recipes,
		Ingredients: s.Ingredients,
		Units:       s.Units,
		IDs:         s.IDs,
		Events:      s.Events,
	})
	AddUnitRoutes(router, &units.Handler{Units: s.Units})
	AddUserRoutes(router,
		&users.Handler{Users: s.Users, Catalog: catalog, IDs: s.IDs, Events: s.Events},
		&suggestions.Handler{Users: s.Users, Recipes: s.Recipes},
	)

	c := cors.New(cors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	})

	limit, burst := o.RateLimit, o.RateLimitBurst
	if limit <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}

	return middleware.Chain(c.Handler(router),
		middleware.RequestID,
		middleware.Logging,
		middleware.Recover,
		middleware.SecurityHeaders,
		middleware.RateLimit(rate.NewLimiter(limit, burst)),
	)
}
