package routes

import (
	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/handlers"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func CreateFeedRoutes(svc *services.Services, router *mux.Router) *mux.Router {

	router.HandleFunc("/feeds", handlers.GetLatestFeed(svc.Feeds)).Methods("GET")
	router.HandleFunc("/feeds/user", handlers.GetUserFeed(svc.Feeds)).Methods("GET")
	router.HandleFunc("/feeds/mentions", handlers.GetMentions(svc.Feeds)).Methods("GET")

	return router
}
