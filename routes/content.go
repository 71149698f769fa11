package routes

import (
	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/handlers"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func CreateStoryRoutes(svc *services.Services, router *mux.Router) *mux.Router {

	router.HandleFunc("/stories", handlers.GetStories(svc.Stories)).Methods("GET")
	router.HandleFunc("/stories/{id}/chapters", handlers.GetStoryChapters(svc.Stories)).Methods("GET")

	return router
}

func CreateWalletRoutes(svc *services.Services, router *mux.Router) *mux.Router {

	router.HandleFunc("/wallet-transactions", handlers.GetWalletTransactions(svc.Wallet)).Methods("GET")
	router.HandleFunc("/wallet-transactions", handlers.CreateWalletTransaction(svc.Wallet)).Methods("POST")
	router.HandleFunc("/wallet-transactions/{id}", handlers.GetWalletTransaction(svc.Wallet)).Methods("GET")
	router.HandleFunc("/wallet-transactions/{id}", handlers.UpdateWalletTransaction(svc.Wallet)).Methods("PUT")
	router.HandleFunc("/wallet-transactions/{id}", handlers.DeleteWalletTransaction(svc.Wallet)).Methods("DELETE")

	return router
}
