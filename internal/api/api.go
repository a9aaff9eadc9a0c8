// Package api sets up and starts the API
// server with routing, middleware, and Swagger documentation.
package api

import (
	"fmt"
	"net/http"

	_ "platefeed/docs"
	"platefeed/internal/api/middleware"
	"platefeed/internal/api/routes/auth"
	"platefeed/internal/api/routes/ingredients"
	"platefeed/internal/api/routes/ping"
	"platefeed/internal/api/routes/recipes"
	"platefeed/internal/api/routes/tags"
	"platefeed/internal/api/routes/users"
	"platefeed/internal/env"
	"platefeed/internal/role"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	serverPort = 8080
)

func addDocs(r *chi.Mux, serverAddr string) {
	swagger := httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/api/swagger/doc.json", serverAddr)),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Mount("/api/swagger", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Handle preflight
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Allow GET to serve Swagger
		if req.Method == http.MethodGet {
			swagger.ServeHTTP(w, req)
			return
		}

		// Block anything else
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
}

func addRoutes(router *chi.Mux) {
	authed := middleware.AuthorizeRequest(role.RoleUser)

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)

		r.Route("/auth/token", func(r chi.Router) {
			r.Post("/login", auth.HandleTokenLogin)
			r.With(authed).Post("/logout", auth.HandleTokenLogout)
			r.With(authed).Delete("/logout", auth.HandleTokenLogout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.HandleRegisterUser)
			r.With(middleware.OptionalAuth).Get("/", users.HandleListUsers)
			r.With(authed).Get("/me", users.HandleGetMe)
			r.With(authed).Post("/set_password", users.HandleSetPassword)
			r.With(authed).Get("/subscriptions", users.HandleListSubscriptions)

			r.Route("/{id}", func(r chi.Router) {
				r.With(middleware.OptionalAuth).Get("/", users.HandleGetUser)
				r.Get("/recipes", users.HandleListUserRecipes)
				r.With(authed).Post("/subscribe", users.HandleSubscribe)
				r.With(authed).Delete("/subscribe", users.HandleUnsubscribe)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.HandleListTags)
			r.Get("/{id}", tags.HandleGetTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ingredients.HandleListIngredients)
			r.Get("/{id}", ingredients.HandleGetIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.With(middleware.OptionalAuth).Get("/", recipes.HandleListRecipes)
			r.With(authed).Post("/", recipes.HandleCreateRecipe)
			r.With(authed).Get("/download_shopping_cart", recipes.HandleDownloadShoppingCart)

			r.Route("/{id}", func(r chi.Router) {
				r.With(middleware.OptionalAuth).Get("/", recipes.HandleGetRecipe)
				r.With(authed).Patch("/", recipes.HandleUpdateRecipe)
				r.With(authed).Delete("/", recipes.HandleDeleteRecipe)
				r.With(authed).Post("/favorite", recipes.HandleFavorite)
				r.With(authed).Delete("/favorite", recipes.HandleUnfavorite)
				r.With(authed).Post("/shopping_cart", recipes.HandleAddToCart)
				r.With(authed).Delete("/shopping_cart", recipes.HandleRemoveFromCart)
			})
		})
	})
}

// Start godoc
//
//	@title						Platefeed API
//	@version					1.0
//	@description				API server for the Platefeed recipe platform.
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//
//	@host						localhost:8080
//	@BasePath					/api
func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)
	addDocs(router, fmt.Sprintf("0.0.0.0:%d", serverPort))
	http.Handle("/", router)

	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0:%d", serverPort))
	env.Logger.Info(fmt.Sprintf("Swagger UI available at http://0.0.0.0:%d/api/swagger/index.html", serverPort))
	return http.ListenAndServe(fmt.Sprintf(":%d", serverPort), nil)
}
