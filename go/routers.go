package petstoreserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultBasePath is where the public pet store mounts its API.
const DefaultBasePath = "/v2"

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI, relative to the base path.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers served by the router.
type ApiHandleFunctions struct {
	// Routes for the PetAPI part of the API
	PetAPI PetAPI
}

type routerConfig struct {
	basePath   string
	middleware []gin.HandlerFunc
}

// RouterOption customises router construction.
type RouterOption func(*routerConfig)

// WithBasePath mounts every route below the given prefix.
func WithBasePath(basePath string) RouterOption {
	return func(cfg *routerConfig) {
		cfg.basePath = "/" + strings.Trim(basePath, "/")
		if cfg.basePath == "/" {
			cfg.basePath = ""
		}
	}
}

// WithMiddleware installs handlers that run before every route.
func WithMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(cfg *routerConfig) {
		cfg.middleware = append(cfg.middleware, middleware...)
	}
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handleFunctions, opts...)
}

// NewRouterWithGinEngine adds routes to an existing gin engine and applies the
// routing quirks of the public pet store: no trailing slash redirects and an
// empty 405 for a known path hit with the wrong method.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts ...RouterOption) *gin.Engine {
	cfg := routerConfig{basePath: DefaultBasePath}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = true
	router.NoMethod(MethodNotAllowed)
	if len(cfg.middleware) > 0 {
		router.Use(cfg.middleware...)
	}

	group := router.Group(cfg.basePath)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		group.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// MethodNotAllowed answers 405 with an empty body.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatus(http.StatusMethodNotAllowed)
}

// DefaultHandleFunc is used for routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Routes lists the registered routes, mostly for diagnostics.
func Routes(handleFunctions ApiHandleFunctions) []Route {
	return getRoutes(handleFunctions)
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"AddPet",
			http.MethodPost,
			"/pet",
			handleFunctions.PetAPI.AddPet,
		},
		{
			"AddPetTrailingSlash",
			http.MethodPost,
			"/pet/",
			handleFunctions.PetAPI.AddPet,
		},
		{
			"UpdatePet",
			http.MethodPut,
			"/pet",
			handleFunctions.PetAPI.UpdatePet,
		},
		{
			"UpdatePetTrailingSlash",
			http.MethodPut,
			"/pet/",
			handleFunctions.PetAPI.UpdatePet,
		},
		{
			"FindPetsByStatus",
			http.MethodGet,
			"/pet/findByStatus",
			handleFunctions.PetAPI.FindPetsByStatus,
		},
		{
			"FindPetsByTags",
			http.MethodGet,
			"/pet/findByTags",
			handleFunctions.PetAPI.FindPetsByTags,
		},
		{
			"GetPetById",
			http.MethodGet,
			"/pet/:petId",
			handleFunctions.PetAPI.GetPetById,
		},
		{
			"UpdatePetWithForm",
			http.MethodPost,
			"/pet/:petId",
			handleFunctions.PetAPI.UpdatePetWithForm,
		},
		{
			"DeletePet",
			http.MethodDelete,
			"/pet/:petId",
			handleFunctions.PetAPI.DeletePet,
		},
	}
}
