package routes

import (
	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/handlers"
	"github.com/inyangojubirobert/bookofmemes-backend/middleware"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func CreateCommentRoutes(svc *services.Services, auth *middleware.Authenticator, router *mux.Router) *mux.Router {

	router.HandleFunc("/comments", handlers.GetComments(svc.Comments)).Methods("GET")
	router.HandleFunc("/comments", handlers.CreateComment(svc.Comments)).Methods("POST")
	router.HandleFunc("/comments/{id}", handlers.DeleteComment(svc.Comments, auth)).Methods("DELETE")
	router.HandleFunc("/comments/{id}/vote", handlers.VoteComment(svc.Comments)).Methods("POST")
	router.HandleFunc("/comments/{id}/vote", handlers.UnvoteComment(svc.Comments)).Methods("DELETE")

	router.HandleFunc("/profiles/{id}", handlers.GetProfile(svc.Profiles)).Methods("GET")

	return router
}
