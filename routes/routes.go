// Package routes mounts every handler under /api.
package routes

import (
	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/handlers"
	"github.com/inyangojubirobert/bookofmemes-backend/middleware"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

const APIPrefix = "/api"

func NewRouter(svc *services.Services, auth *middleware.Authenticator) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = handlers.NotFound()
	router.HandleFunc("/health", handlers.Health()).Methods("GET")

	api := router.PathPrefix(APIPrefix).Subrouter()
	CreateCommentRoutes(svc, auth, api)
	CreateFeedRoutes(svc, api)
	CreateInteractionRoutes(svc, api)
	CreateBookmarkRoutes(svc, api)
	CreateUserRoutes(svc, api)
	CreateStoryRoutes(svc, api)
	CreateWalletRoutes(svc, api)

	return router
}
