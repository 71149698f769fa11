package routes

import (
	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/handlers"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func CreateUserRoutes(svc *services.Services, router *mux.Router) *mux.Router {

	router.HandleFunc("/users/{id}", handlers.GetUserByID(svc.Users)).Methods("GET")
	router.HandleFunc("/users/{id}/posts/count", handlers.GetPostsCount(svc.Users)).Methods("GET")
	router.HandleFunc("/users/{id}/followers", handlers.GetUserFollowers(svc.Users)).Methods("GET")
	router.HandleFunc("/users/{id}/following", handlers.GetUserFollowing(svc.Users)).Methods("GET")
	router.HandleFunc("/users/{id}/content", handlers.GetUserContent(svc.Content)).Methods("GET")

	router.HandleFunc("/follow", handlers.FollowUser(svc.Follows)).Methods("POST")
	router.HandleFunc("/follow", handlers.UnfollowUser(svc.Follows)).Methods("DELETE")
	router.HandleFunc("/follow/status", handlers.CheckFollowStatus(svc.Follows)).Methods("GET")

	router.HandleFunc("/fcm-tokens", handlers.RegisterFCMToken(svc.Devices)).Methods("POST")
	router.HandleFunc("/fcm-tokens", handlers.UnregisterFCMToken(svc.Devices)).Methods("DELETE")

	return router
}
