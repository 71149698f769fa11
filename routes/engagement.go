package routes

import (
	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/handlers"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func CreateInteractionRoutes(svc *services.Services, router *mux.Router) *mux.Router {

	router.HandleFunc("/interactions", handlers.GetInteractions(svc.Interactions)).Methods("GET")
	router.HandleFunc("/interactions", handlers.RecordInteraction(svc.Interactions)).Methods("POST")
	router.HandleFunc("/interactions", handlers.RemoveInteraction(svc.Interactions)).Methods("DELETE")
	router.HandleFunc("/interactions/counts", handlers.GetInteractionCounts(svc.Interactions)).Methods("GET")
	router.HandleFunc("/interactions/users", handlers.GetInteractionUsers(svc.Interactions)).Methods("GET")

	return router
}

func CreateBookmarkRoutes(svc *services.Services, router *mux.Router) *mux.Router {

	router.HandleFunc("/bookmarks", handlers.GetBookmarks(svc.Bookmarks)).Methods("GET")
	router.HandleFunc("/bookmarks", handlers.AddBookmark(svc.Bookmarks)).Methods("POST")
	router.HandleFunc("/bookmarks", handlers.RemoveBookmark(svc.Bookmarks)).Methods("DELETE")
	router.HandleFunc("/bookmarks/users", handlers.GetBookmarkUsers(svc.Bookmarks)).Methods("GET")

	return router
}
